package cli

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

const rule = "════════════════════════════════════════════════"

// printBanner writes the ASCII-art banner shown before an interactive run.
func printBanner(w io.Writer) {
	figure.Write(w, figure.NewColorFigure("SEO AUDIT", "doom", "green", true))

	cyan := color.New(color.FgCyan)
	_, _ = cyan.Fprintln(w, rule)
	_, _ = color.New(color.FgGreen).Fprintln(w, "    On-page SEO analysis | static or rendered fetch")
	_, _ = cyan.Fprintln(w, rule)
}
