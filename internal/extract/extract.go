// Package extract isolates the main content region of a crawled HTML page.
package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tags removed from the content region before serialization.
const strippedTags = "script, style, nav, form, img, svg, header, footer"

// MainContent returns the cleaned HTML of the page's main content container.
// If the container selector does not match, the whole document is returned
// unmodified; downstream chunking still proceeds on the full page.
func MainContent(html []byte, containerSelector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", err
	}
	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		return string(html), nil
	}
	container.Find(strippedTags).Remove()
	return goquery.OuterHtml(container)
}

// Text flattens an HTML fragment to plain text with whitespace between
// block fragments preserved as-is.
func Text(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}

// FirstHeading returns the text of the first heading element in an HTML
// fragment, or "" if there is none. Used as a sub-topic guess.
func FirstHeading(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	h := doc.Find("h1, h2, h3, h4").First()
	return strings.TrimSpace(h.Text())
}
