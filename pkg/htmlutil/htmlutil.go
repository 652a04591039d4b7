// Package htmlutil provides the shared pattern-matching primitives the
// category analyzers are built on: tag and attribute counting over a parsed
// document, raw-markup regex matching, and text extraction.
//
// The analyzers operate on raw server-fetched HTML only; there is no
// rendering or script execution.
package htmlutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Doc wraps one parsed HTML document together with its raw markup. Parsing
// happens once; every analyzer queries the same document.
type Doc struct {
	raw string
	low string
	doc *goquery.Document
}

// Parse builds a Doc from raw HTML. The underlying parser accepts arbitrary
// input (including empty strings), so Parse never fails.
func Parse(html string) *Doc {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// html.Parse only errors on reader failures, which a strings.Reader
		// cannot produce. Keep a usable empty document anyway.
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return &Doc{
		raw: html,
		low: strings.ToLower(html),
		doc: doc,
	}
}

// Raw returns the original markup.
func (d *Doc) Raw() string { return d.raw }

// Lower returns the markup lowercased once, for substring probes.
func (d *Doc) Lower() string { return d.low }

// Find exposes the underlying document selection.
func (d *Doc) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Count returns the number of elements matching a CSS selector.
func (d *Doc) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// MatchCount returns the number of regex matches in the raw markup.
func (d *Doc) MatchCount(re *regexp.Regexp) int {
	return len(re.FindAllStringIndex(d.raw, -1))
}

// Has reports whether the raw markup matches a regex.
func (d *Doc) Has(re *regexp.Regexp) bool {
	return re.MatchString(d.raw)
}

// Contains reports whether the lowercased markup contains a substring.
// The needle must already be lowercase.
func (d *Doc) Contains(needle string) bool {
	return strings.Contains(d.low, needle)
}

// Attr returns the given attribute of the first matching element.
func (d *Doc) Attr(selector, name string) string {
	return d.doc.Find(selector).AttrOr(name, "")
}

var spaceRe = regexp.MustCompile(`\s+`)

// Text returns the document's visible text with whitespace collapsed. Tag
// names never appear in the output.
func (d *Doc) Text() string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(d.doc.Text(), " "))
}

// WordCount counts whitespace-separated words of visible text.
func (d *Doc) WordCount() int {
	text := d.Text()
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// Ratio computes part/whole, defaulting to 1 when whole is zero ("nothing
// to cover" counts as full coverage).
func Ratio(part, whole int) float64 {
	if whole == 0 {
		return 1
	}
	return float64(part) / float64(whole)
}

// Percent renders a ratio as a whole percentage for check details.
func Percent(ratio float64) int {
	return int(ratio*100 + 0.5)
}
