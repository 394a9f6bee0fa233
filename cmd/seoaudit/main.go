package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/analyzer"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/cli"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/pageinsight"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(func(cfg config.Config) analyzer.PageInsightProvider {
		return pageinsight.NewEngineFromConfig(cfg)
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
