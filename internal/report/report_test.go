package report

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		URL:             "https://example.com",
		Score:           73,
		HTMLVersion:     "HTML5",
		Good:            []string{"Title tag found: \"Example\""},
		Bad:             []string{"No H1 heading found", "Image missing alt text: /a.png", "Broken link: https://example.com/gone"},
		Recommendations: []string{"Add one H1 heading", "Add alt text to image: /a.png", "Fix or remove broken link: https://example.com/gone"},
		Title:           "Example",
		Description:     "",
		Headings:        map[string][]string{"h1": {}, "h2": {"Intro", "Details"}, "h3": {"Deep"}},
		ImageAltTexts:   []string{"logo"},
		Keywords:        []model.KeywordCount{{Word: "gopher", Count: 4}, {Word: "garden", Count: 2}},
		KeywordDensity:  []model.KeywordDensity{{Word: "gopher", Percent: 12.5}, {Word: "garden", Percent: 6.25}},
		TitleKeywords:   []string{"example"},
		LinkRatio:       model.LinkRatio{Internal: 2, External: 1},
		TotalLinks:      4,
		Links:           []string{"/about", "https://go.dev", "mailto:hi@example.com"},
		TotalImages:     2,
		Images:          []string{"/logo.png", "/a.png"},
		MobileVerdict:   "Mobile-friendly: viewport meta tag found",
		SchemaTypes:     []string{"Organization"},
		AccessibilityIssues: []string{
			"Image missing alt text: /a.png",
		},
		BrokenLinks:      []string{"https://example.com/gone"},
		SocialMetaIssues: []string{"Missing twitter:card meta tag"},
		LoadTimeSeconds:  1.234,
	}
}

// scan reads the score and the items of every section back from a report.
func scan(t *testing.T, text string) (int, map[string][]string, []string) {
	t.Helper()
	score := -1
	items := map[string][]string{}
	var order []string
	var current string

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, scorePrefix):
			n, err := strconv.Atoi(strings.TrimPrefix(line, scorePrefix))
			require.NoError(t, err)
			score = n
		case strings.HasPrefix(line, "== ") && strings.HasSuffix(line, " =="):
			current = strings.TrimSuffix(strings.TrimPrefix(line, "== "), " ==")
			order = append(order, current)
			items[current] = []string{}
		case strings.HasPrefix(line, "- ") && current != "":
			items[current] = append(items[current], strings.TrimPrefix(line, "- "))
		}
	}
	require.NoError(t, sc.Err())
	return score, items, order
}

func TestRender_RoundTripScoreAndBadCount(t *testing.T) {
	for _, res := range []*model.AnalysisResult{sampleResult(), {Score: -15, Bad: []string{"a", "b\nc"}}, {Score: 100}} {
		score, items, _ := scan(t, Render(res))
		assert.Equal(t, res.Score, score)
		assert.Len(t, items["Bad"], len(res.Bad))
	}
}

func TestRender_SectionOrder(t *testing.T) {
	_, _, order := scan(t, Render(sampleResult()))
	assert.Equal(t, []string{
		"Title", "Description", "HTML Version", "Top Keywords", "Keyword Density",
		"Title Keywords", "Mobile Friendliness", "Schema Types", "Accessibility Issues",
		"Load Time", "Broken Links", "Social Meta Issues", "Good", "Bad",
		"Recommendations", "Image Alt Texts", "Link Ratio", "Headings", "Links", "Images",
	}, order)
}

func TestRender_Contents(t *testing.T) {
	text := Render(sampleResult())
	_, items, _ := scan(t, text)

	assert.True(t, strings.HasPrefix(text, "SEO Analysis Report\nURL: https://example.com\nScore: 73\n"))
	assert.Equal(t, []string{"Example"}, items["Title"])
	assert.Equal(t, []string{"No meta description found"}, items["Description"])
	assert.Equal(t, []string{"gopher: 4", "garden: 2"}, items["Top Keywords"])
	assert.Equal(t, []string{"gopher: 12.50%", "garden: 6.25%"}, items["Keyword Density"])
	assert.Equal(t, []string{"1.23 seconds"}, items["Load Time"])
	assert.Equal(t, []string{"Internal: 2", "External: 1"}, items["Link Ratio"])
	assert.Equal(t, []string{"h2: Intro", "h2: Details", "h3: Deep"}, items["Headings"])
	assert.Equal(t, []string{"Total: 4", "/about", "https://go.dev", "mailto:hi@example.com"}, items["Links"])
	assert.Equal(t, []string{"Total: 2", "/logo.png", "/a.png"}, items["Images"])
}

func TestRender_EmptyResultHasEmptySections(t *testing.T) {
	var text string
	require.NotPanics(t, func() { text = Render(&model.AnalysisResult{}) })

	_, items, order := scan(t, text)
	assert.Len(t, order, 20)
	for _, name := range []string{"Top Keywords", "Schema Types", "Broken Links", "Good", "Bad", "Headings"} {
		assert.Empty(t, items[name], name)
	}
}

func TestWriteFile_OverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", FileName)

	first := sampleResult()
	require.NoError(t, WriteFile(path, first))

	second := sampleResult()
	second.Score = 42
	require.NoError(t, WriteFile(path, second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Render(second), string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFile_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := WriteFile(filepath.Join(blocker, FileName), sampleResult())
	assert.Error(t, err)
}
