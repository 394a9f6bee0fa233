package pageinsight

import (
	"fmt"
	"strings"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
)

// Score baseline and fixed penalties.
const (
	BaselineScore = 100

	PenaltyMissingTitle    = 10
	PenaltyWeakDescription = 10
	PenaltyMissingH1       = 10
	PenaltyMultipleH1      = 5
	PenaltyMissingAlt      = 5
	PenaltyNoViewport      = 10
	PenaltyBrokenLink      = 2
	PenaltySlowLoad        = 5

	// SlowLoadSeconds is the load time above which a page is penalized.
	SlowLoadSeconds = 3.0
)

// Signals gathers every extractor output of one analysis.
type Signals struct {
	URL   string
	Mode  model.FetchMode
	Fetch *model.FetchResult

	HTMLVersion   string
	Title         TitleFinding
	Description   DescriptionFinding
	Canonical     string
	Headings      HeadingsFinding
	Images        ImagesFinding
	Keywords      KeywordsFinding
	TitleKeywords []string
	Mobile        MobileFinding
	SchemaTypes   []string
	Anchors       AnchorsFinding
	LinkRatio     model.LinkRatio
	LinkCheck     LinkCheckResult
	SocialIssues  []string
}

// scorecard accumulates the score and the categorized findings. The score
// only ever moves down.
type scorecard struct {
	score int
	good  []string
	bad   []string
	recs  []string
}

func (c *scorecard) pass(msg string) {
	c.good = append(c.good, msg)
}

func (c *scorecard) deduct(points int, bad, rec string) {
	c.score -= points
	c.bad = append(c.bad, bad)
	c.recs = append(c.recs, rec)
}

func (c *scorecard) recommend(rec string) {
	c.recs = append(c.recs, rec)
}

// Score folds the signals into an AnalysisResult. Each negative finding
// deducts its penalty once and adds one bad entry and one recommendation.
// The score is not clamped at zero.
func Score(s Signals) *model.AnalysisResult {
	c := &scorecard{score: BaselineScore}

	if s.Title.Present {
		c.pass(fmt.Sprintf("Title tag found: %q", s.Title.Title))
	} else {
		c.deduct(PenaltyMissingTitle,
			"Missing title tag",
			"Add a concise, descriptive <title> tag")
	}

	switch {
	case s.Description.Adequate:
		c.pass(fmt.Sprintf("Meta description present (%d characters)", s.Description.Length))
	case s.Description.Length == 0:
		c.deduct(PenaltyWeakDescription,
			"Missing meta description",
			fmt.Sprintf("Add a meta description longer than %d characters", DescriptionMinLength))
	default:
		c.deduct(PenaltyWeakDescription,
			fmt.Sprintf("Meta description too short (%d characters)", s.Description.Length),
			fmt.Sprintf("Expand the meta description beyond %d characters", DescriptionMinLength))
	}

	switch n := s.Headings.H1Count; {
	case n == 1:
		c.pass("Exactly one H1 heading found")
	case n == 0:
		c.deduct(PenaltyMissingH1,
			"No H1 heading found",
			"Add one H1 heading that states the page topic")
	default:
		c.deduct(PenaltyMultipleH1,
			fmt.Sprintf("Multiple H1 headings found (%d)", n),
			fmt.Sprintf("Use a single H1 heading instead of %d", n))
	}

	if n := len(s.Images.GoodAlts); n > 0 {
		c.pass(fmt.Sprintf("%d image(s) have alt text", n))
	}
	for _, src := range s.Images.MissingAlt {
		c.deduct(PenaltyMissingAlt,
			"Image missing alt text: "+src,
			"Add alt text to image: "+src)
	}

	if s.Mobile.Friendly {
		c.pass("Viewport meta tag found (mobile-friendly)")
	} else {
		c.deduct(PenaltyNoViewport,
			"No viewport meta tag (not mobile-friendly)",
			`Add <meta name="viewport" content="width=device-width, initial-scale=1">`)
	}

	if len(s.SchemaTypes) > 0 {
		c.pass("Structured data found: " + strings.Join(s.SchemaTypes, ", "))
	} else {
		c.recommend("Add JSON-LD structured data describing the page")
	}

	if len(s.LinkCheck.Broken) == 0 && s.LinkCheck.Checked > 0 {
		c.pass(fmt.Sprintf("No broken links among %d checked", s.LinkCheck.Checked))
	}
	for _, link := range s.LinkCheck.Broken {
		c.deduct(PenaltyBrokenLink,
			"Broken link: "+link,
			"Fix or remove broken link: "+link)
	}

	var load float64
	if s.Fetch != nil {
		load = s.Fetch.LoadTimeSeconds
	}
	if load > SlowLoadSeconds {
		c.deduct(PenaltySlowLoad,
			fmt.Sprintf("Slow page load (%.2fs)", load),
			fmt.Sprintf("Reduce page load time below %.0f seconds", SlowLoadSeconds))
	} else {
		c.pass(fmt.Sprintf("Page loaded in %.2fs", load))
	}

	res := &model.AnalysisResult{
		URL:         s.URL,
		Mode:        s.Mode,
		Score:       c.score,
		HTMLVersion: s.HTMLVersion,

		Good:            nonNil(c.good),
		Bad:             nonNil(c.bad),
		Recommendations: nonNil(c.recs),

		Title:          s.Title.Title,
		Description:    s.Description.Description,
		Canonical:      s.Canonical,
		Headings:       s.Headings.ByLevel,
		ImageAltTexts:  nonNil(s.Images.GoodAlts),
		Keywords:       nonNil(s.Keywords.Top),
		KeywordDensity: nonNil(s.Keywords.Density),
		TitleKeywords:  nonNil(s.TitleKeywords),
		TotalWords:     s.Keywords.TotalWords,

		LinkRatio:    s.LinkRatio,
		TotalLinks:   s.Anchors.Total,
		LinksChecked: s.LinkCheck.Checked,
		Links:        nonNil(s.Anchors.Hrefs),
		TotalImages:  s.Images.Total,
		Images:       nonNil(s.Images.Sources),

		MobileFriendly:      s.Mobile.Friendly,
		MobileVerdict:       s.Mobile.Verdict(),
		SchemaTypes:         nonNil(s.SchemaTypes),
		AccessibilityIssues: s.Images.AccessibilityIssues(),
		BrokenLinks:         nonNil(s.LinkCheck.Broken),
		SocialMetaIssues:    nonNil(s.SocialIssues),

		LoadTimeSeconds: load,
	}
	if s.Fetch != nil {
		res.DesktopScreenshotPath = s.Fetch.DesktopScreenshotPath
		res.MobileScreenshotPath = s.Fetch.MobileScreenshotPath
	}
	return res
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
