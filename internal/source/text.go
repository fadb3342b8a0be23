package source

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextSource handles plain text files. A UTF-8 or UTF-16 byte order mark
// selects the decoding; without one the input is read as UTF-8.
type TextSource struct{}

func (s *TextSource) Read(r io.Reader, filename string) ([]string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, err
	}
	return Lines(string(data)), nil
}
