package core

// reader.go wraps uploaded CSV streams so the parser only ever sees clean
// UTF-8: a leading byte-order mark is dropped and invalid byte sequences are
// replaced, without buffering the whole upload in memory.

import (
	"bufio"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewSanitizedReader returns a reader that skips a UTF-8 BOM if present and
// replaces invalid UTF-8 sequences with '?'. Memory use is bounded by the
// bufio buffer regardless of upload size.
func NewSanitizedReader(r io.Reader) io.Reader {
	return &sanitizedReader{br: bufio.NewReader(r)}
}

type sanitizedReader struct {
	br         *bufio.Reader
	bomChecked bool
}

func (s *sanitizedReader) Read(p []byte) (int, error) {
	if !s.bomChecked {
		s.bomChecked = true
		if head, err := s.br.Peek(len(utf8BOM)); err == nil &&
			head[0] == utf8BOM[0] && head[1] == utf8BOM[1] && head[2] == utf8BOM[2] {
			s.br.Discard(len(utf8BOM))
		}
	}

	n := 0
	for n+utf8.UTFMax <= len(p) {
		r, size, err := s.br.ReadRune()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		// ReadRune reports an invalid byte as (RuneError, 1)
		if r == utf8.RuneError && size == 1 {
			r = '?'
		}
		n += utf8.EncodeRune(p[n:], r)
	}
	return n, nil
}
