package materialize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/scaffold/internal/doctree"
)

// ErrOutsideWorkspace is returned by a confined Dir for paths that resolve
// outside its workspace.
var ErrOutsideWorkspace = errors.New("path escapes workspace")

// Dir writes entries to the local filesystem at their full paths.
type Dir struct {
	// Confine, when set, rejects any entry whose path is not inside it.
	Confine string
}

func (d *Dir) Mkdir(e doctree.Entry) error {
	if err := d.check(e.Path); err != nil {
		return err
	}
	return os.MkdirAll(e.Path, 0o755)
}

func (d *Dir) Write(e doctree.Entry, content []byte) error {
	if err := d.check(e.Path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(e.Path, content, 0o644)
}

func (d *Dir) check(path string) error {
	if d.Confine == "" {
		return nil
	}
	root, err := filepath.Abs(d.Confine)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return nil
}
