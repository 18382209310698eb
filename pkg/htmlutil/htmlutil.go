// Package htmlutil provides small HTML inspection helpers used when
// reporting page source back to callers.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// PageInfo summarizes a page's source document.
type PageInfo struct {
	Title       string
	Description string
}

// Inspect parses raw HTML and extracts its title and meta description.
// Parse errors yield an empty PageInfo rather than failing: the source text
// is still useful to the caller without metadata.
func Inspect(rawHTML string) PageInfo {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return PageInfo{}
	}
	return PageInfo{
		Title:       extractTitle(doc),
		Description: extractMetaDescription(doc),
	}
}

func extractTitle(doc *html.Node) string {
	var title string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
			if title != "" {
				return
			}
		}
	}
	traverse(doc)
	return title
}

func extractMetaDescription(doc *html.Node) string {
	var description string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var isDescription bool
			var content string
			for _, attr := range n.Attr {
				if attr.Key == "name" && attr.Val == "description" {
					isDescription = true
				}
				if attr.Key == "content" {
					content = attr.Val
				}
			}
			if isDescription && content != "" {
				description = strings.TrimSpace(content)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
			if description != "" {
				return
			}
		}
	}
	traverse(doc)
	return description
}
