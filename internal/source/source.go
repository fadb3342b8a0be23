package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source converts raw document bytes into the lines of a scaffold document.
type Source interface {
	Read(r io.Reader, filename string) ([]string, error)
}

// SupportedExtensions lists file extensions this service can handle. Files
// without an extension are read as plain text.
var SupportedExtensions = map[string]bool{
	"":          true,
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune the sources returned by ForFile.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate source for a filename.
func ForFile(filename string, opts Options) (Source, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case "", ".txt", ".text":
		return &TextSource{}, nil
	case ".md", ".markdown":
		return &MarkdownSource{}, nil
	case ".html", ".htm":
		return &HTMLSource{}, nil
	case ".pdf":
		return &PDFSource{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ReadFile opens path and reads it with the source matching its extension.
func ReadFile(path string, opts Options) ([]string, error) {
	src, err := ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return src.Read(f, filepath.Base(path))
}

// Lines splits text the way a line reader would: a trailing newline does not
// produce an extra empty line, and carriage returns before newlines are dropped.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
