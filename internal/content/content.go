package content

import (
	"strings"
	"unicode"

	"github.com/dgallion1/scaffold/internal/doctree"
	"github.com/dgallion1/scaffold/internal/tree"
)

// Delimiter separates the tree section from the content section and
// successive content blocks from each other. A line containing it anywhere
// counts as a delimiter line.
const Delimiter = "------------------------------------"

// IsDelimiter reports whether line is a delimiter line.
func IsDelimiter(line string) bool {
	return strings.Contains(line, Delimiter)
}

// IsHeader reports whether line can open a content block: it contains a
// '.', no tree glyphs, and starts at column 0.
func IsHeader(line string) bool {
	if line == "" || !strings.Contains(line, ".") || tree.HasGlyph(line) {
		return false
	}
	return line[0] != ' ' && line[0] != '\t'
}

type state int

const (
	idle state = iota
	awaitingFirstLine
	collecting
)

// Extract segments content-section lines into blocks keyed by declared path.
func Extract(lines []string) *doctree.Blocks {
	blocks := doctree.NewBlocks()

	st := idle
	var path string
	var buf []string

	flush := func() {
		if path != "" {
			blocks.Put(path, finalize(buf))
		}
		path = ""
		buf = nil
		st = idle
	}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")

		if IsDelimiter(line) {
			flush()
			continue
		}

		switch st {
		case idle:
			if IsHeader(line) {
				path = strings.TrimSpace(line)
				buf = nil
				st = awaitingFirstLine
			}
		case awaitingFirstLine:
			st = collecting
			if line == "" {
				continue
			}
			buf = append(buf, line)
		case collecting:
			buf = append(buf, line)
		}
	}
	flush()

	return blocks
}

func finalize(lines []string) string {
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}
