package tree

import (
	"path/filepath"
	"strings"

	"github.com/dgallion1/scaffold/internal/doctree"
)

// IndentWidth is the number of prefix columns per nesting level. Trees drawn
// with any other width are misparsed; the width is not detected.
const IndentWidth = 4

// Glyphs used to draw a tree: branch, corner, horizontal rule, vertical rule.
const (
	Branch     = '├'
	Corner     = '└'
	Horizontal = '─'
	Vertical   = '│'
)

// IsGlyph reports whether r is a tree-drawing glyph.
func IsGlyph(r rune) bool {
	switch r {
	case Branch, Corner, Horizontal, Vertical:
		return true
	}
	return false
}

// HasGlyph reports whether s contains at least one tree-drawing glyph.
func HasGlyph(s string) bool {
	return strings.IndexFunc(s, IsGlyph) >= 0
}

func isPrefixRune(r rune) bool {
	return r == ' ' || IsGlyph(r)
}

// Parse turns tree-section lines into a Layout rooted at base/root.
func Parse(base, root string, lines []string) doctree.Layout {
	rootEntry := doctree.Entry{
		Path: filepath.Join(base, root),
		Rel:  root,
		Name: root,
		Kind: doctree.KindDir,
	}
	layout := doctree.Layout{
		Root: root,
		Dirs: []doctree.Entry{rootEntry},
	}

	// The stack holds the open ancestor chain. Root sits at level 0 and is
	// never popped.
	type stackEntry struct {
		path  string
		rel   string
		depth int
	}
	stack := []stackEntry{{path: rootEntry.Path, rel: rootEntry.Rel, depth: 0}}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || !HasGlyph(line) {
			continue
		}

		depth := Depth(line)
		name := Name(line)
		if name == "" {
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		entry := doctree.Entry{
			Path:  filepath.Join(parent.path, name),
			Rel:   parent.rel + "/" + name,
			Name:  name,
			Depth: depth,
		}
		if IsFileName(name) {
			entry.Kind = doctree.KindFile
			layout.Files = append(layout.Files, entry)
			continue
		}
		entry.Kind = doctree.KindDir
		layout.Dirs = append(layout.Dirs, entry)
		stack = append(stack, stackEntry{path: entry.Path, rel: entry.Rel, depth: depth})
	}

	return layout
}

// Depth counts leading glyph and space runes and divides by IndentWidth.
func Depth(line string) int {
	n := 0
	for _, r := range line {
		if !isPrefixRune(r) {
			break
		}
		n++
	}
	return n / IndentWidth
}

// Name returns everything from the first rune that is neither a glyph nor a
// space, trimmed of surrounding spaces and tabs. Internal spaces are kept.
func Name(line string) string {
	i := strings.IndexFunc(line, func(r rune) bool { return !isPrefixRune(r) })
	if i < 0 {
		return ""
	}
	return strings.Trim(line[i:], " \t")
}

// IsFileName reports whether name looks like a file: it has a '.' with at
// least one character after the last one. The check is purely syntactic, so
// a directory named "v1.2" is a file and an extensionless file is a directory.
func IsFileName(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	return dot >= 0 && dot < len(name)-1
}
