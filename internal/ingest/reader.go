// Package ingest turns bank-exported CSV batches into normalized
// transaction records: encoding detection, header schema validation and
// the per-row recovery loop.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText reads the whole payload and returns it as UTF-8. Valid
// UTF-8 (with or without BOM) passes through; anything else is assumed
// to be a Windows/Excel export and re-decoded from ISO-8859-1.
func decodeText(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return bytes.NewReader(data), nil
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode latin-1 batch: %w", err)
	}
	return bytes.NewReader(decoded), nil
}
