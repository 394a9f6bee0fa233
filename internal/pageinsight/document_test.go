package pageinsight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHTMLVersion(t *testing.T) {
	tests := []struct {
		name     string
		doctype  string
		expected string
	}{
		{name: "HTML5 lowercase", doctype: `<!DOCTYPE html>`, expected: "HTML5"},
		{name: "HTML5 uppercase", doctype: `<!DOCTYPE HTML>`, expected: "HTML5"},
		{
			name:     "HTML 4.01 Strict",
			doctype:  `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`,
			expected: "HTML 4.01",
		},
		{
			name:     "HTML 4.01 Transitional",
			doctype:  `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN" "http://www.w3.org/TR/html4/loose.dtd">`,
			expected: "HTML 4.01",
		},
		{
			name:     "XHTML 1.0 Strict",
			doctype:  `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`,
			expected: "XHTML 1.0",
		},
		{
			name:     "XHTML 1.1",
			doctype:  `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">`,
			expected: "XHTML 1.1",
		},
		{
			name:     "XHTML Basic 1.1",
			doctype:  `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML Basic 1.1//EN" "http://www.w3.org/TR/xhtml-basic/xhtml-basic11.dtd">`,
			expected: "XHTML 1.1",
		},
		{name: "no doctype", doctype: "", expected: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.doctype + `<html><head><title>T</title></head><body></body></html>`)
			assert.Equal(t, tt.expected, DetectHTMLVersion(doc))
		})
	}
}

func TestParse_MalformedHTMLNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"<<<>>>",
		"<html><body><div><p>unclosed",
		"\x00\xff\xfe binary",
	}
	for _, in := range inputs {
		doc := Parse(in)
		assert.NotNil(t, doc)
		assert.Equal(t, "Unknown", DetectHTMLVersion(doc))
		assert.False(t, ExtractTitle(doc).Present)
	}
}

func TestVisibleText_SkipsNonRenderedElements(t *testing.T) {
	doc := Parse(`<html><head><title>Head only</title><style>.x{}</style></head><body>
		<p>Hello <b>world</b></p>
		<script>var hidden = "script";</script>
		<noscript>enable js</noscript>
		<template><p>template</p></template>
		<svg><text>vector</text></svg>
		<style>p { color: red }</style>
		<div>again</div>
	</body></html>`)

	text := strings.Join(strings.Fields(VisibleText(doc)), " ")
	assert.Equal(t, "Hello world again", text)
}

func TestVisibleText_InlineMarkupDoesNotSplitWords(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{name: "inline bold", html: `<p>Opti<b>mization</b> matters</p>`, want: []string{"Optimization", "matters"}},
		{name: "nested inline", html: `<p><a href="/">Go<em>pher</em>s</a> dig</p>`, want: []string{"Gophers", "dig"}},
		{name: "adjacent blocks", html: `<div>one</div><div>two</div>`, want: []string{"one", "two"}},
		{name: "list items", html: `<ul><li>alpha</li><li>beta</li></ul>`, want: []string{"alpha", "beta"}},
		{name: "line break", html: `<p>first<br>second</p>`, want: []string{"first", "second"}},
		{name: "table cells", html: `<table><tr><td>a</td><td>b</td></tr></table>`, want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse("<html><body>" + tt.html + "</body></html>")
			assert.Equal(t, tt.want, strings.Fields(VisibleText(doc)))
		})
	}
}
