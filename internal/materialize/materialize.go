package materialize

import (
	"context"
	"fmt"

	"github.com/dgallion1/scaffold/internal/doctree"
	"github.com/dgallion1/scaffold/internal/scaffold"
	"github.com/opencontainers/go-digest"
)

// Target receives the directories and files of a plan.
type Target interface {
	// Mkdir creates a directory. Creating an existing directory is not an error.
	Mkdir(e doctree.Entry) error
	// Write creates or truncates a file, creating its parent if needed.
	Write(e doctree.Entry, content []byte) error
}

// FileReport describes one written file.
type FileReport struct {
	Path    string        `json:"path" yaml:"path"`
	Size    int           `json:"size" yaml:"size"`
	Digest  digest.Digest `json:"digest" yaml:"digest"`
	Matched bool          `json:"matched" yaml:"matched"`
	Source  string        `json:"source,omitempty" yaml:"source,omitempty"`
}

// Report summarizes a materialization.
type Report struct {
	Root     string             `json:"root" yaml:"root"`
	Dirs     int                `json:"dirs" yaml:"dirs"`
	Files    []FileReport       `json:"files" yaml:"files"`
	Matched  int                `json:"matched" yaml:"matched"`
	Warnings []scaffold.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Apply creates every directory of the plan, then writes every file. It stops
// at the first failure; whatever was already written stays in place.
func Apply(ctx context.Context, plan *scaffold.Plan, t Target) (*Report, error) {
	rep := &Report{
		Root:     plan.Root,
		Files:    make([]FileReport, 0, len(plan.Files)),
		Warnings: plan.Warnings,
	}

	for _, d := range plan.Dirs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := t.Mkdir(d); err != nil {
			return rep, fmt.Errorf("create directory %s: %w", d.Rel, err)
		}
		rep.Dirs++
	}

	for _, f := range plan.Files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		data := []byte(f.Content)
		if err := t.Write(f.Entry, data); err != nil {
			return rep, fmt.Errorf("write file %s: %w", f.Rel, err)
		}
		rep.Files = append(rep.Files, FileReport{
			Path:    f.Rel,
			Size:    len(data),
			Digest:  digest.FromBytes(data),
			Matched: f.Matched,
			Source:  f.Source,
		})
		if f.Matched {
			rep.Matched++
		}
	}

	return rep, nil
}
