package scaffold

import (
	"strings"

	"github.com/dgallion1/scaffold/internal/doctree"
)

// Match is the outcome of resolving one file against the content blocks.
type Match struct {
	Found      bool
	Block      doctree.Block
	Candidates []string // Every declared path ending with the file's name
	Ambiguous  bool     // More than one candidate shares the best score
}

// Resolve picks the content block for a file. A block is a candidate when its
// declared path ends with the file's bare name (exact, case-sensitive). Among
// candidates, the one sharing the most trailing path components with the
// file's relative path wins; ties go to the earliest block and mark the
// match ambiguous.
func Resolve(f doctree.Entry, blocks []doctree.Block) Match {
	var m Match
	best := -1
	fileParts := pathParts(f.Rel)
	for _, b := range blocks {
		if !strings.HasSuffix(b.Path, f.Name) {
			continue
		}
		m.Candidates = append(m.Candidates, b.Path)
		switch score := sharedSuffix(pathParts(b.Path), fileParts); {
		case score > best:
			best = score
			m.Block = b
			m.Found = true
			m.Ambiguous = false
		case score == best:
			m.Ambiguous = true
		}
	}
	return m
}

func pathParts(p string) []string {
	fields := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
	out := fields[:0]
	for _, f := range fields {
		if f != "." {
			out = append(out, f)
		}
	}
	return out
}

func sharedSuffix(a, b []string) int {
	n := 0
	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0 && a[i] == b[j]; i, j = i-1, j-1 {
		n++
	}
	return n
}
