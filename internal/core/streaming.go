package core

// streaming.go cleans up backing files written by other tools before the CSV
// reader sees them:
//
//   - BOMSkippingReader: drops the UTF-8 BOM spreadsheet programs prepend
//   - UTF8Sanitizer: replaces invalid UTF-8 bytes with '?'
//
// Use wrapForParsing to apply both in the correct order.

import (
	"io"
	"unicode/utf8"
)

// UTF8Sanitizer wraps an io.Reader and replaces invalid UTF-8 bytes on the fly.
type UTF8Sanitizer struct {
	reader io.Reader

	// Leftover bytes from the previous read that may start a multi-byte rune
	pending []byte
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset

	if n == 0 {
		return 0, err
	}

	if isAllASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to hand
// out. Unless atEOF, a truncated rune at the end is held back in pending.
func (s *UTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(data[read:]) {
				s.pending = append(s.pending, data[read:]...)
				return write
			}
			// '?' keeps the output no longer than the input.
			data[write] = '?'
			write++
			read++
			continue
		}

		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}

	return write
}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	buf     [3]byte
	rest    []byte
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if !(n == 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF) {
			r.rest = r.buf[:n]
		}
		if err == io.EOF && len(r.rest) == 0 {
			return 0, io.EOF
		}
	}

	if len(r.rest) > 0 {
		n := copy(p, r.rest)
		r.rest = r.rest[n:]
		return n, nil
	}

	return r.reader.Read(p)
}

// wrapForParsing strips the BOM first, then sanitizes what follows.
func wrapForParsing(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}
