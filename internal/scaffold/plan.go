package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/scaffold/internal/content"
	"github.com/dgallion1/scaffold/internal/doctree"
	"github.com/dgallion1/scaffold/internal/source"
	"github.com/dgallion1/scaffold/internal/tree"
)

var (
	// ErrInputUnreadable means the document does not exist or cannot be opened.
	ErrInputUnreadable = errors.New("input unreadable")
	// ErrEmptyInput means the document has no lines at all.
	ErrEmptyInput = errors.New("empty input")
	// ErrMissingRootName means the first line is blank.
	ErrMissingRootName = errors.New("no root folder name found")
)

// Document is a scaffold document split into its sections.
type Document struct {
	Root         string
	TreeLines    []string
	ContentLines []string // Starts at the first delimiter line, if any
}

// FilePlan is a file to write together with its resolved content.
type FilePlan struct {
	doctree.Entry
	Content string
	Source  string // Declared path the content came from; empty when unmatched
	Matched bool
}

// Warning reports a file whose bare name matched more than one declared path
// with no single closest one.
type Warning struct {
	File       string   `json:"file" yaml:"file"`
	Candidates []string `json:"candidates" yaml:"candidates"`
	Chosen     string   `json:"chosen" yaml:"chosen"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %d declared paths match (%s), using %q",
		w.File, len(w.Candidates), strings.Join(w.Candidates, ", "), w.Chosen)
}

// Plan is everything needed to materialize one document.
type Plan struct {
	Root     string
	Dirs     []doctree.Entry
	Files    []FilePlan
	Blocks   int // Distinct declared paths in the content section
	Warnings []Warning
}

// Split separates the root name, tree section and content section. The
// content section starts at the first line containing the delimiter.
func Split(lines []string) (*Document, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}
	root := strings.TrimSpace(lines[0])
	if root == "" {
		return nil, ErrMissingRootName
	}

	doc := &Document{Root: root}
	rest := lines[1:]
	for i, line := range rest {
		if content.IsDelimiter(strings.TrimRight(line, "\r\n")) {
			doc.TreeLines = rest[:i]
			doc.ContentLines = rest[i:]
			return doc, nil
		}
	}
	doc.TreeLines = rest
	return doc, nil
}

// BuildPlan parses a whole document and resolves content for every file.
// Paths are rooted at base. It performs no I/O.
func BuildPlan(lines []string, base string) (*Plan, error) {
	doc, err := Split(lines)
	if err != nil {
		return nil, err
	}

	layout := tree.Parse(base, doc.Root, doc.TreeLines)
	blocks := content.Extract(doc.ContentLines)

	plan := &Plan{
		Root:   layout.Root,
		Dirs:   layout.Dirs,
		Files:  make([]FilePlan, 0, len(layout.Files)),
		Blocks: blocks.Len(),
	}
	all := blocks.All()
	for _, f := range layout.Files {
		m := Resolve(f, all)
		fp := FilePlan{Entry: f}
		if m.Found {
			fp.Content = m.Block.Content
			fp.Source = m.Block.Path
			fp.Matched = true
		}
		if m.Ambiguous {
			plan.Warnings = append(plan.Warnings, Warning{
				File:       f.Rel,
				Candidates: m.Candidates,
				Chosen:     m.Block.Path,
			})
		}
		plan.Files = append(plan.Files, fp)
	}
	return plan, nil
}

// LoadPlan reads a document from disk with the source matching its
// extension and builds its plan.
func LoadPlan(path, base string, opts source.Options) (*Plan, error) {
	lines, err := source.ReadFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputUnreadable, path, err)
	}
	return BuildPlan(lines, base)
}
