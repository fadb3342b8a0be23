package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSource_SplitsLines(t *testing.T) {
	input := "project\n├── src\n│   └── main.cpp\n"
	s := &TextSource{}
	lines, err := s.Read(strings.NewReader(input), "tree.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"project", "├── src", "│   └── main.cpp"}, lines)
}

func TestTextSource_EmptyInput(t *testing.T) {
	s := &TextSource{}
	lines, err := s.Read(strings.NewReader(""), "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTextSource_SingleNewlineIsOneEmptyLine(t *testing.T) {
	s := &TextSource{}
	lines, err := s.Read(strings.NewReader("\n"), "blank.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, lines)
}

func TestTextSource_CRLF(t *testing.T) {
	s := &TextSource{}
	lines, err := s.Read(strings.NewReader("root\r\n├── a.txt\r\n"), "win.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "├── a.txt"}, lines)
}

func TestTextSource_StripsUTF8BOM(t *testing.T) {
	s := &TextSource{}
	lines, err := s.Read(strings.NewReader("\ufeffroot\n└── a.txt"), "bom.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "└── a.txt"}, lines)
}

func TestTextSource_DecodesUTF16LE(t *testing.T) {
	text := "root\n└── a.txt\n"
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	for _, r := range text {
		buf.WriteByte(byte(r))
		buf.WriteByte(byte(r >> 8))
	}

	s := &TextSource{}
	lines, err := s.Read(&buf, "utf16.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "└── a.txt"}, lines)
}

func TestLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\n", []string{"a", ""}},
		{"a\r\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lines(tt.in), "input %q", tt.in)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want Source
	}{
		{"tree.txt", &TextSource{}},
		{"TREE", &TextSource{}},
		{"plan.md", &MarkdownSource{}},
		{"page.HTML", &HTMLSource{}},
		{"doc.docx", &DOCXSource{}},
		{"doc.pdf", &PDFSource{FallbackPdftotext: true}},
	}
	for _, tt := range tests {
		got, err := ForFile(tt.name, Options{PDFFallbackPdftotext: true})
		require.NoError(t, err, tt.name)
		assert.IsType(t, tt.want, got, tt.name)
	}

	_, err := ForFile("data.csv", Options{})
	assert.Error(t, err)
	assert.False(t, IsSupportedExtension("data.csv"))
	assert.True(t, IsSupportedExtension("notes.TXT"))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.txt")
	require.NoError(t, os.WriteFile(path, []byte("root\n└── x.go\n"), 0o644))

	lines, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "└── x.go"}, lines)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
