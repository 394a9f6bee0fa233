package model

// FetchMode selects how a page snapshot is retrieved.
type FetchMode string

const (
	// FetchStatic issues a single HTTP GET.
	FetchStatic FetchMode = "static"
	// FetchRendered drives a headless browser and captures screenshots.
	FetchRendered FetchMode = "rendered"
)

// FetchResult is the raw snapshot a fetcher hands to the pipeline.
type FetchResult struct {
	URL                   string
	StatusCode            int
	HTML                  string
	LoadTimeSeconds       float64
	DesktopScreenshotPath string
	MobileScreenshotPath  string
}

// AnalysisResult holds the complete, scored analysis of one page.
type AnalysisResult struct {
	URL         string    `json:"url"`
	Mode        FetchMode `json:"mode"`
	Score       int       `json:"score"`
	HTMLVersion string    `json:"html_version"`

	Good            []string `json:"good"`
	Bad             []string `json:"bad"`
	Recommendations []string `json:"recommendations"`

	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Canonical      string              `json:"canonical,omitempty"`
	Headings       map[string][]string `json:"headings"`
	ImageAltTexts  []string            `json:"image_alt_texts"`
	Keywords       []KeywordCount      `json:"keywords"`
	KeywordDensity []KeywordDensity    `json:"keyword_density"`
	TitleKeywords  []string            `json:"title_keywords"`
	TotalWords     int                 `json:"total_words"`

	LinkRatio    LinkRatio `json:"link_ratio"`
	TotalLinks   int       `json:"total_links"`
	LinksChecked int       `json:"links_checked"`
	Links        []string  `json:"links"`
	TotalImages  int       `json:"total_images"`
	Images       []string  `json:"images"`

	MobileFriendly      bool     `json:"mobile_friendly"`
	MobileVerdict       string   `json:"mobile_verdict"`
	SchemaTypes         []string `json:"schema_types"`
	AccessibilityIssues []string `json:"accessibility_issues"`
	BrokenLinks         []string `json:"broken_links"`
	SocialMetaIssues    []string `json:"social_meta_issues"`

	LoadTimeSeconds       float64 `json:"load_time_seconds"`
	DesktopScreenshotPath string  `json:"desktop_screenshot,omitempty"`
	MobileScreenshotPath  string  `json:"mobile_screenshot,omitempty"`
}

// KeywordCount is one entry of the keyword frequency table.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// KeywordDensity is a keyword's share of all words on the page, in percent.
type KeywordDensity struct {
	Word    string  `json:"word"`
	Percent float64 `json:"percent"`
}

// LinkRatio counts anchors pointing inside and outside the analyzed site.
type LinkRatio struct {
	Internal int `json:"internal"`
	External int `json:"external"`
}

// AnalyzeRequest is the JSON body accepted by POST /analyze.
type AnalyzeRequest struct {
	URL  string    `json:"url"`
	Mode FetchMode `json:"mode,omitempty"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
