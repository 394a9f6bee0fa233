// Package report renders an analysis as the plain-text report offered for
// download and persists it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
)

// FileName is the download name of a persisted report.
const FileName = "seo_report.txt"

// Header lines that start every report.
const (
	headerTitle = "SEO Analysis Report"
	urlPrefix   = "URL: "
	scorePrefix = "Score: "
)

var headingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

type section struct {
	name  string
	items []string
}

// Render formats res as a section-delimited text document. Every section is
// always present; an empty list leaves the section body empty.
func Render(res *model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(headerTitle + "\n")
	b.WriteString(urlPrefix + oneLine(res.URL) + "\n")
	b.WriteString(scorePrefix + strconv.Itoa(res.Score) + "\n")

	for _, s := range sections(res) {
		b.WriteString("\n== " + s.name + " ==\n")
		for _, item := range s.items {
			b.WriteString("- " + oneLine(item) + "\n")
		}
	}
	return b.String()
}

func sections(res *model.AnalysisResult) []section {
	return []section{
		{"Title", []string{orDefault(res.Title, "No title found")}},
		{"Description", []string{orDefault(res.Description, "No meta description found")}},
		{"HTML Version", []string{orDefault(res.HTMLVersion, "Unknown")}},
		{"Top Keywords", keywordLines(res.Keywords)},
		{"Keyword Density", densityLines(res.KeywordDensity)},
		{"Title Keywords", res.TitleKeywords},
		{"Mobile Friendliness", []string{res.MobileVerdict}},
		{"Schema Types", res.SchemaTypes},
		{"Accessibility Issues", res.AccessibilityIssues},
		{"Load Time", []string{fmt.Sprintf("%.2f seconds", res.LoadTimeSeconds)}},
		{"Broken Links", res.BrokenLinks},
		{"Social Meta Issues", res.SocialMetaIssues},
		{"Good", res.Good},
		{"Bad", res.Bad},
		{"Recommendations", res.Recommendations},
		{"Image Alt Texts", res.ImageAltTexts},
		{"Link Ratio", []string{
			"Internal: " + strconv.Itoa(res.LinkRatio.Internal),
			"External: " + strconv.Itoa(res.LinkRatio.External),
		}},
		{"Headings", headingLines(res.Headings)},
		{"Links", append([]string{"Total: " + strconv.Itoa(res.TotalLinks)}, res.Links...)},
		{"Images", append([]string{"Total: " + strconv.Itoa(res.TotalImages)}, res.Images...)},
	}
}

func keywordLines(kws []model.KeywordCount) []string {
	lines := make([]string, 0, len(kws))
	for _, k := range kws {
		lines = append(lines, fmt.Sprintf("%s: %d", k.Word, k.Count))
	}
	return lines
}

func densityLines(ds []model.KeywordDensity) []string {
	lines := make([]string, 0, len(ds))
	for _, d := range ds {
		lines = append(lines, fmt.Sprintf("%s: %.2f%%", d.Word, d.Percent))
	}
	return lines
}

func headingLines(byLevel map[string][]string) []string {
	var lines []string
	for _, level := range headingLevels {
		for _, text := range byLevel[level] {
			lines = append(lines, level+": "+text)
		}
	}
	return lines
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// oneLine keeps an item on a single report line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WriteFile renders res to path, replacing any previous report. The report
// is written to a temporary file in the same directory and renamed into
// place so readers never observe a partial report.
func WriteFile(path string, res *model.AnalysisResult) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".seo_report-*.tmp")
	if err != nil {
		return fmt.Errorf("report: create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(Render(res)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("report: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("report: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: rename: %w", err)
	}
	return nil
}
