package materialize

import (
	"archive/tar"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dgallion1/scaffold/internal/doctree"
	"github.com/klauspost/compress/zstd"
)

// Archive streams entries as a zstd-compressed tar archive. Paths inside the
// archive are the entries' relative paths. Close must be called to flush.
type Archive struct {
	enc     *zstd.Encoder
	tw      *tar.Writer
	modTime time.Time
	seen    map[string]bool
}

// NewArchive starts an archive written to w.
func NewArchive(w io.Writer) (*Archive, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Archive{
		enc:     enc,
		tw:      tar.NewWriter(enc),
		modTime: time.Now(),
		seen:    make(map[string]bool),
	}, nil
}

func (a *Archive) Mkdir(e doctree.Entry) error {
	name := archivePath(e.Rel) + "/"
	if a.seen[name] {
		return nil
	}
	a.seen[name] = true
	return a.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name,
		Mode:     0o755,
		ModTime:  a.modTime,
	})
}

func (a *Archive) Write(e doctree.Entry, content []byte) error {
	if err := a.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     archivePath(e.Rel),
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  a.modTime,
	}); err != nil {
		return err
	}
	_, err := a.tw.Write(content)
	return err
}

// Close flushes the tar stream and the compressor. It does not close the
// underlying writer.
func (a *Archive) Close() error {
	if err := a.tw.Close(); err != nil {
		a.enc.Close()
		return fmt.Errorf("close tar: %w", err)
	}
	if err := a.enc.Close(); err != nil {
		return fmt.Errorf("close zstd encoder: %w", err)
	}
	return nil
}

// archivePath cleans a relative path so it cannot climb out of the archive root.
func archivePath(rel string) string {
	p := path.Clean("/" + strings.ReplaceAll(rel, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}
