package pageinsight

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Precompiled selectors shared by the extractors.
var (
	selTitle      = cascadia.MustCompile("title")
	selNamedMeta  = cascadia.MustCompile("meta[name]")
	selMeta       = cascadia.MustCompile("meta")
	selTypedJS    = cascadia.MustCompile("script[type]")
	selAnchors    = cascadia.MustCompile("a[href]")
	selAllAnchors = cascadia.MustCompile("a")
	selImages     = cascadia.MustCompile("img")
	selLinkRel    = cascadia.MustCompile("link[rel][href]")
	selBody       = cascadia.MustCompile("body")
	headingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6"}
)

// Document is the parsed page shared read-only by every extractor.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw HTML. The HTML5 parser recovers from
// malformed markup, so Parse never fails; an unreadable input yields an
// empty document.
func Parse(src string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{doc: doc}
}

func (d *Document) find(m goquery.Matcher) *goquery.Selection {
	return d.doc.FindMatcher(m)
}

// namedMeta returns the trimmed content of the first <meta name=...> whose
// name matches case-insensitively.
func (d *Document) namedMeta(name string) (string, bool) {
	var (
		content string
		found   bool
	)
	d.find(selNamedMeta).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("name", "")), name) {
			return true
		}
		content = strings.TrimSpace(s.AttrOr("content", ""))
		found = true
		return false
	})
	return content, found
}

// DetectHTMLVersion reports the HTML version declared by the doctype.
func DetectHTMLVersion(d *Document) string {
	for n := d.doc.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.DoctypeNode {
			return htmlVersionFromDoctype(n)
		}
	}
	return "Unknown"
}

// htmlVersionFromDoctype maps the public identifier of a doctype node to a
// version label. The HTML5 doctype carries no public identifier.
// https://www.w3.org/QA/2002/04/valid-dtd-list.html
func htmlVersionFromDoctype(n *html.Node) string {
	var public string
	for _, a := range n.Attr {
		if a.Key == "public" {
			public = strings.ToLower(a.Val)
		}
	}

	switch {
	case public == "":
		if strings.EqualFold(n.Data, "html") {
			return "HTML5"
		}
		return "Unknown"
	case strings.Contains(public, "xhtml 1.1") || strings.Contains(public, "xhtml basic 1.1"):
		return "XHTML 1.1"
	case strings.Contains(public, "xhtml 1.0"):
		return "XHTML 1.0"
	case strings.Contains(public, "html 4.01"):
		return "HTML 4.01"
	default:
		return "Unknown"
	}
}

// invisibleElements hold no reader-visible text.
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// blockElements break words at their boundaries. Text in any other
// element runs on into its neighbours, so Opti<b>mization</b> stays one
// word.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"img": true, "li": true, "main": true, "nav": true, "ol": true,
	"option": true, "p": true, "pre": true, "section": true, "summary": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "ul": true,
}

// VisibleText returns the text a reader would see in <body>. Inline text
// nodes are joined as they are; block boundaries add a space.
func VisibleText(d *Document) string {
	var b strings.Builder
	separate := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if invisibleElements[n.Data] {
				return
			}
			if blockElements[n.Data] {
				separate()
				defer separate()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, body := range d.find(selBody).Nodes {
		walk(body)
	}
	return b.String()
}
