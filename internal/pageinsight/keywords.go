package pageinsight

import (
	_ "embed"
	"slices"
	"strings"
	"unicode"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
)

// DefaultTopN is the keyword table size used when none is configured.
const DefaultTopN = 10

//go:embed stopwords.txt
var englishStopWords string

// KeywordConfig is the immutable input of the keyword extractors: the
// stop-word set and the size of the frequency table. Build one at startup
// and share it between analyses.
type KeywordConfig struct {
	stopWords map[string]struct{}
	topN      int
}

// NewKeywordConfig combines the embedded English stop-word list with extra
// words. A topN below one selects DefaultTopN.
func NewKeywordConfig(extra []string, topN int) KeywordConfig {
	if topN < 1 {
		topN = DefaultTopN
	}

	stop := make(map[string]struct{})
	for _, w := range strings.Fields(englishStopWords) {
		stop[w] = struct{}{}
	}
	for _, w := range extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stop[w] = struct{}{}
		}
	}

	return KeywordConfig{stopWords: stop, topN: topN}
}

// IsStopWord reports whether the lower-cased word is ignored.
func (c KeywordConfig) IsStopWord(word string) bool {
	_, ok := c.stopWords[word]
	return ok
}

// TopN is the maximum number of keywords reported.
func (c KeywordConfig) TopN() int {
	return c.topN
}

// KeywordsFinding is the keyword frequency and density tables of a page.
type KeywordsFinding struct {
	Top        []model.KeywordCount
	Density    []model.KeywordDensity
	TotalWords int
}

// ExtractKeywords counts qualifying words in the visible body text and
// returns the most frequent ones. Ties keep first-seen order. Density is
// each keyword's share of all whitespace-separated words, truncated to two
// decimals.
func ExtractKeywords(d *Document, cfg KeywordConfig) KeywordsFinding {
	fields := strings.Fields(VisibleText(d))
	if len(fields) == 0 {
		return KeywordsFinding{}
	}

	counts := make(map[string]int)
	var order []string
	for _, f := range fields {
		w, ok := cfg.token(f)
		if !ok {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	if len(order) > cfg.topN {
		order = order[:cfg.topN]
	}

	top := make([]model.KeywordCount, 0, len(order))
	density := make([]model.KeywordDensity, 0, len(order))
	for _, w := range order {
		top = append(top, model.KeywordCount{Word: w, Count: counts[w]})
		density = append(density, model.KeywordDensity{
			Word:    w,
			Percent: percentOf(counts[w], len(fields)),
		})
	}

	return KeywordsFinding{Top: top, Density: density, TotalWords: len(fields)}
}

// ExtractTitleKeywords returns the distinct qualifying words of title in
// order of appearance.
func ExtractTitleKeywords(title string, cfg KeywordConfig) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Fields(title) {
		w, ok := cfg.token(f)
		if !ok || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// token normalizes one whitespace-separated field. Surrounding punctuation
// and symbols are dropped; the rest must be letters only and not a stop
// word.
func (c KeywordConfig) token(field string) (string, bool) {
	w := strings.TrimFunc(field, func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) })
	if w == "" {
		return "", false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	w = strings.ToLower(w)
	if c.IsStopWord(w) {
		return "", false
	}
	return w, true
}

// percentOf returns part/total as a percentage truncated to two decimals.
func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part*10000/total) / 100
}
