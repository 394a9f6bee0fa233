package pageinsight

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
)

// DescriptionMinLength is the length a meta description must exceed.
const DescriptionMinLength = 50

const noImageSource = "(no src)"

// SocialTags are the social meta tags every page is expected to carry.
var SocialTags = []string{"og:title", "og:description", "twitter:card"}

// TitleFinding reports the document title.
type TitleFinding struct {
	Title   string
	Present bool
}

// ExtractTitle returns the trimmed text of the first <title>.
func ExtractTitle(d *Document) TitleFinding {
	title := strings.TrimSpace(d.find(selTitle).First().Text())
	return TitleFinding{Title: title, Present: title != ""}
}

// DescriptionFinding reports the meta description.
type DescriptionFinding struct {
	Description string
	Length      int
	Adequate    bool
}

// ExtractDescription reads <meta name="description">. It is adequate when
// longer than DescriptionMinLength characters.
func ExtractDescription(d *Document) DescriptionFinding {
	desc, _ := d.namedMeta("description")
	n := utf8.RuneCountInString(desc)
	return DescriptionFinding{
		Description: desc,
		Length:      n,
		Adequate:    n > DescriptionMinLength,
	}
}

// HeadingsFinding lists heading texts per level.
type HeadingsFinding struct {
	// ByLevel always has the keys h1 through h6.
	ByLevel map[string][]string
	H1Count int
}

// ExtractHeadings collects the text of every h1-h6 element.
func ExtractHeadings(d *Document) HeadingsFinding {
	byLevel := make(map[string][]string, len(headingLevels))
	for _, level := range headingLevels {
		texts := []string{}
		d.doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, strings.Join(strings.Fields(s.Text()), " "))
		})
		byLevel[level] = texts
	}
	return HeadingsFinding{ByLevel: byLevel, H1Count: len(byLevel["h1"])}
}

// ImagesFinding splits images by whether they carry alt text.
type ImagesFinding struct {
	Total int
	// Sources lists every non-empty src in document order.
	Sources    []string
	GoodAlts   []string
	MissingAlt []string
}

// AccessibilityIssues renders the missing alt texts as accessibility issues.
func (f ImagesFinding) AccessibilityIssues() []string {
	issues := make([]string, 0, len(f.MissingAlt))
	for _, src := range f.MissingAlt {
		issues = append(issues, "Image missing alt text: "+src)
	}
	return issues
}

// ExtractImages inspects every <img>. A missing or blank alt attribute puts
// the image source in MissingAlt.
func ExtractImages(d *Document) ImagesFinding {
	var f ImagesFinding
	d.find(selImages).Each(func(_ int, s *goquery.Selection) {
		f.Total++
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src != "" {
			f.Sources = append(f.Sources, src)
		}
		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if alt != "" {
			f.GoodAlts = append(f.GoodAlts, alt)
			return
		}
		if src == "" {
			src = noImageSource
		}
		f.MissingAlt = append(f.MissingAlt, src)
	})
	return f
}

// MobileFinding is the mobile-friendliness verdict.
type MobileFinding struct {
	Friendly bool
	Viewport string
}

// Verdict is the human-readable mobile-friendliness message.
func (f MobileFinding) Verdict() string {
	if f.Friendly {
		return "Mobile-friendly: viewport meta tag found"
	}
	return "Not mobile-friendly: viewport meta tag missing"
}

// CheckMobile treats any <meta name="viewport"> as mobile-friendly.
func CheckMobile(d *Document) MobileFinding {
	content, ok := d.namedMeta("viewport")
	return MobileFinding{Friendly: ok, Viewport: content}
}

const maxSchemaDepth = 10

// ExtractSchemaTypes returns the distinct @type values declared by JSON-LD
// blocks in document order. Blocks that are not valid JSON are skipped.
func ExtractSchemaTypes(d *Document) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	d.find(selTypedJS).Each(func(_ int, s *goquery.Selection) {
		mediaType, _, _ := strings.Cut(s.AttrOr("type", ""), ";")
		if !strings.EqualFold(strings.TrimSpace(mediaType), "application/ld+json") {
			return
		}
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		collectSchemaTypes(v, add, 0)
	})
	return out
}

func collectSchemaTypes(v any, add func(string), depth int) {
	if depth > maxSchemaDepth {
		return
	}
	switch val := v.(type) {
	case map[string]any:
		switch t := val["@type"].(type) {
		case string:
			add(t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
		if graph, ok := val["@graph"]; ok {
			collectSchemaTypes(graph, add, depth+1)
		}
	case []any:
		for _, item := range val {
			collectSchemaTypes(item, add, depth+1)
		}
	}
}

// CheckSocialMeta lists one issue per SocialTags entry found neither as a
// property nor as a name attribute.
func CheckSocialMeta(d *Document) []string {
	present := make(map[string]bool)
	d.find(selMeta).Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"property", "name"} {
			if v, ok := s.Attr(attr); ok {
				present[strings.ToLower(strings.TrimSpace(v))] = true
			}
		}
	})

	var issues []string
	for _, tag := range SocialTags {
		if !present[tag] {
			issues = append(issues, "Missing "+tag+" meta tag")
		}
	}
	return issues
}

// ExtractCanonical returns the href of <link rel="canonical">, if any.
func ExtractCanonical(d *Document) string {
	var href string
	d.find(selLinkRel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, rel := range strings.Fields(s.AttrOr("rel", "")) {
			if strings.EqualFold(rel, "canonical") {
				href = strings.TrimSpace(s.AttrOr("href", ""))
				return false
			}
		}
		return true
	})
	return href
}

// AnchorsFinding inventories every <a> element of the page.
type AnchorsFinding struct {
	// Total counts every <a>, with or without an href.
	Total int
	// Hrefs lists every non-empty href as written, in document order.
	Hrefs []string
}

// ExtractAnchors counts all anchors and lists their raw hrefs. Unlike the
// link ratio it keeps fragments and non-http schemes.
func ExtractAnchors(d *Document) AnchorsFinding {
	var f AnchorsFinding
	d.find(selAllAnchors).Each(func(_ int, s *goquery.Selection) {
		f.Total++
		if href := strings.TrimSpace(s.AttrOr("href", "")); href != "" {
			f.Hrefs = append(f.Hrefs, href)
		}
	})
	return f
}

type anchor struct {
	url      string
	internal bool
}

// anchors resolves every followable <a href> against base. An anchor is
// internal when it resolves to the analyzed host.
func anchors(d *Document, base *url.URL) []anchor {
	var out []anchor
	d.find(selAnchors).Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if shouldSkipLink(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		out = append(out, anchor{
			url:      resolved.String(),
			internal: strings.EqualFold(resolved.Host, base.Host),
		})
	})
	return out
}

func shouldSkipLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	for _, p := range []string{"javascript:", "mailto:", "tel:"} {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// ExtractLinkRatio counts internal and external anchors. Duplicates count
// every time they appear.
func ExtractLinkRatio(d *Document, base *url.URL) model.LinkRatio {
	var r model.LinkRatio
	for _, a := range anchors(d, base) {
		if a.internal {
			r.Internal++
		} else {
			r.External++
		}
	}
	return r
}

// CollectLinks returns the absolute URL of every followable anchor.
func CollectLinks(d *Document, base *url.URL) []string {
	all := anchors(d, base)
	links := make([]string, 0, len(all))
	for _, a := range all {
		links = append(links, a.url)
	}
	return links
}
