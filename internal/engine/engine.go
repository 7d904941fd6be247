// Package engine is the character level reader under the parser: one
// character of lookahead, a pushback stack, a running offset and the
// bounded scans the grammar needs.
package engine

import (
	"bufio"
	"io"
)

// SimpleIssue is a lightweight problem report raised by the reader.
type SimpleIssue struct {
	Code    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// Issue codes raised by the reader.
const (
	CodeParseError = "parse_error"
	CodeTooDeep    = "too_deep"
	CodeTruncated  = "truncated"
)

// Reader reads runes with pushback. It is not safe for concurrent use.
type Reader struct {
	in     *bufio.Reader
	pushed []rune
	offset int64
	depth  int
	limits Limits
}

// NewReader wraps r. Zero limits take their defaults.
func NewReader(r io.Reader, limits Limits) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{in: br, limits: limits.withDefaults()}
}

// Offset is the number of bytes consumed so far, minus pushed back runes.
func (r *Reader) Offset() int64 { return r.offset }

// Next returns the next rune.
func (r *Reader) Next() (rune, error) {
	if n := len(r.pushed); n > 0 {
		c := r.pushed[n-1]
		r.pushed = r.pushed[:n-1]
		r.offset += int64(runeLen(c))
		return c, nil
	}
	c, size, err := r.in.ReadRune()
	if err != nil {
		return 0, err
	}
	r.offset += int64(size)
	if r.limits.MaxBytes > 0 && r.offset > r.limits.MaxBytes {
		return 0, r.fail(CodeTruncated, "input exceeds the configured size limit")
	}
	return c, nil
}

// Unread pushes c back; the next Next returns it.
func (r *Reader) Unread(c rune) {
	r.pushed = append(r.pushed, c)
	r.offset -= int64(runeLen(c))
}

// NextNonSpace skips blanks, tabs and line breaks and returns the next rune.
func (r *Reader) NextNonSpace() (rune, error) {
	for {
		c, err := r.Next()
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c, nil
	}
}

// Fail builds an IssueError at the current offset.
func (r *Reader) Fail(code, msg string) error { return r.fail(code, msg) }

func (r *Reader) fail(code, msg string) error {
	return IssueError{SimpleIssue{Code: code, Message: msg, Offset: r.offset}}
}

func runeLen(c rune) int {
	switch {
	case c < 0x80:
		return 1
	case c < 0x800:
		return 2
	case c < 0x10000:
		return 3
	}
	return 4
}
