package source

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownSource handles Markdown files using goldmark. When the document
// has code blocks, their lines (in document order) form the scaffold
// document; prose around them is dropped. Without code blocks every line is
// used as-is.
type MarkdownSource struct{}

func (s *MarkdownSource) Read(r io.Reader, filename string) ([]string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var buf strings.Builder
	found := false
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			found = true
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			if b := buf.String(); b != "" && !strings.HasSuffix(b, "\n") {
				buf.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if !found {
		return Lines(string(src)), nil
	}
	return Lines(buf.String()), nil
}
