package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
)

// Score bands used to colour the headline score.
const (
	goodScore = 80
	fairScore = 50
)

func scoreColor(score int) *color.Color {
	switch {
	case score >= goodScore:
		return color.New(color.FgGreen, color.Bold)
	case score >= fairScore:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// printSummary writes a terminal summary of res: the score, the keyword
// table and the good, bad and recommendation lists.
func printSummary(w io.Writer, res *model.AnalysisResult) {
	fmt.Fprintf(w, "URL:   %s (%s)\n", res.URL, res.Mode)
	fmt.Fprint(w, "Score: ")
	_, _ = scoreColor(res.Score).Fprintf(w, "%d/100\n", res.Score)
	fmt.Fprintf(w, "Title: %s\n", orNone(res.Title))
	fmt.Fprintf(w, "HTML:  %s | %s | load %.2fs\n", res.HTMLVersion, res.MobileVerdict, res.LoadTimeSeconds)
	fmt.Fprintf(w, "Links: %d total, %d internal, %d external, %d broken\n",
		res.TotalLinks, res.LinkRatio.Internal, res.LinkRatio.External, len(res.BrokenLinks))
	fmt.Fprintf(w, "Images: %d total, %d missing alt\n", res.TotalImages, len(res.AccessibilityIssues))

	if len(res.Keywords) > 0 {
		fmt.Fprintln(w)
		density := make(map[string]float64, len(res.KeywordDensity))
		for _, d := range res.KeywordDensity {
			density[d.Word] = d.Percent
		}
		tbl := table.New("Keyword", "Count", "Density").WithWriter(w)
		for _, k := range res.Keywords {
			tbl.AddRow(k.Word, k.Count, fmt.Sprintf("%.2f%%", density[k.Word]))
		}
		tbl.Print()
	}

	printList(w, "Good", color.New(color.FgGreen), "+", res.Good)
	printList(w, "Bad", color.New(color.FgRed), "-", res.Bad)
	printList(w, "Recommendations", color.New(color.FgYellow), "*", res.Recommendations)
	printList(w, "Social meta", color.New(color.FgMagenta), "-", res.SocialMetaIssues)

	if res.DesktopScreenshotPath != "" {
		fmt.Fprintf(w, "\nScreenshots: %s, %s\n", res.DesktopScreenshotPath, res.MobileScreenshotPath)
	}
}

func printList(w io.Writer, title string, c *color.Color, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		_, _ = c.Fprintf(w, "  %s %s\n", bullet, item)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
