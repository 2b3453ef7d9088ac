package design

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/erddef/erddef/schema"
	"github.com/goccy/go-json"
)

// ReadFile reads and decodes a design document. "-" reads stdin, which must be piped.
func ReadFile(path string) (*Document, error) {
	var buf []byte
	var err error

	if path == "-" {
		stat, err := os.Stdin.Stat()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read stdin: %s", schema.ErrInputRead, err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return nil, fmt.Errorf("%w: stdin is not piped", schema.ErrInputRead)
		}
		buf, err = io.ReadAll(os.Stdin)
	} else {
		buf, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read '%s': %s", schema.ErrInputRead, path, err)
	}

	doc, err := Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w (file '%s')", err, path)
	}
	return doc, nil
}

// Decode parses a design document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: invalid design document: %s", schema.ErrInputRead, err)
	}
	return &doc, nil
}
