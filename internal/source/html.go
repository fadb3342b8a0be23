package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLSource handles HTML files. The text of every <pre> element is used in
// document order; a page without <pre> falls back to the text of <body>.
type HTMLSource struct{}

func (s *HTMLSource) Read(r io.Reader, filename string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "pre":
				blocks = append(blocks, strings.TrimPrefix(textContent(n), "\n"))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(blocks) == 0 {
		body := findBody(doc)
		if body == nil {
			body = doc
		}
		return Lines(strings.TrimPrefix(textContent(body), "\n")), nil
	}

	var lines []string
	for _, b := range blocks {
		lines = append(lines, Lines(b)...)
	}
	return lines, nil
}

// textContent concatenates text nodes under n without trimming, so
// indentation inside <pre> survives.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
