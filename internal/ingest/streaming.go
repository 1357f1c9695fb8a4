package ingest

// streaming.go cleans up raw CSV bytes before encoding/csv sees them:
//
//   - the UTF-8 byte order mark written by Excel and other Windows programs
//     is dropped
//   - invalid UTF-8 bytes are replaced with '?' one rune at a time, so memory
//     stays at the size of the bufio buffer
//
// Use Sanitize to apply both in the correct order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sanitize wraps r so that a leading BOM is skipped and invalid UTF-8 is
// replaced.
func Sanitize(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return &utf8Sanitizer{src: br}
}

// utf8Sanitizer replaces each invalid byte with '?'. Valid runes, including a
// literal U+FFFD in the input, pass through unchanged.
type utf8Sanitizer struct {
	src *bufio.Reader

	// Bytes of a rune that did not fit in the caller's buffer
	pending []byte
}

// Read implements io.Reader.
func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) > 0 {
			c := copy(p[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}

		r, size, err := s.src.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}

		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}

		var buf [utf8.UTFMax]byte
		w := utf8.EncodeRune(buf[:], r)
		c := copy(p[n:], buf[:w])
		n += c
		if c < w {
			s.pending = append([]byte(nil), buf[c:w]...)
		}
	}
	return n, nil
}
