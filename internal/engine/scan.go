package engine

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// ReadQuoted reads up to the next unescaped '"' (the opening quote is
// already consumed) and returns the raw, still escaped, contents. limit
// bounds the length; 0 uses MaxString.
func (r *Reader) ReadQuoted(limit int) (string, error) {
	if limit <= 0 {
		limit = r.limits.MaxString
	}
	var b strings.Builder
	escaped := false
	for {
		c, err := r.Next()
		if err != nil {
			return "", unexpectedEOF(err)
		}
		if c == '"' && !escaped {
			return b.String(), nil
		}
		escaped = c == '\\' && !escaped
		b.WriteRune(c)
		if b.Len() > limit {
			return "", r.fail(CodeParseError, "could not find the closing quote within "+strconv.Itoa(limit)+" characters")
		}
	}
}

// ReadBareName reads an unquoted field name up to ':' and consumes the
// colon. Whitespace between the name and the colon is dropped.
func (r *Reader) ReadBareName() (string, error) {
	var b strings.Builder
	for {
		c, err := r.Next()
		if err != nil {
			return "", unexpectedEOF(err)
		}
		if c == ':' {
			return strings.TrimRight(b.String(), " \t\r\n"), nil
		}
		b.WriteRune(c)
		if b.Len() > r.limits.LookAhead {
			return "", r.fail(CodeParseError, "could not find the end of field name "+strconv.Quote(truncate(b.String(), 32)))
		}
	}
}

// LookAhead is the configured field name bound.
func (r *Reader) LookAhead() int { return r.limits.LookAhead }

// IsNumberChar reports whether c may appear in a lenient number literal.
func IsNumberChar(c rune) bool {
	return c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}

// ReadNumber collects first and every following number character. The
// terminating rune is pushed back; end of input simply ends the literal.
func (r *Reader) ReadNumber(first rune) (string, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		c, err := r.Next()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		if !IsNumberChar(c) {
			r.Unread(c)
			return b.String(), nil
		}
		b.WriteRune(c)
	}
}

// ReadWord reads exactly n runes.
func (r *Reader) ReadWord(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		c, err := r.Next()
		if err != nil {
			return b.String(), unexpectedEOF(err)
		}
		b.WriteRune(c)
	}
	return b.String(), nil
}

// ReadBraced reads the rest of an object whose '{' was already consumed and
// returns its raw text including both braces. Braces inside strings do not
// count.
func (r *Reader) ReadBraced() (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	depth := 1
	inString, escaped := false, false
	for depth > 0 {
		c, err := r.Next()
		if err != nil {
			return "", unexpectedEOF(err)
		}
		b.WriteRune(c)
		if b.Len() > r.limits.MaxString {
			return "", r.fail(CodeParseError, "could not find the closing '}' within "+strconv.Itoa(r.limits.MaxString)+" characters")
		}
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	return b.String(), nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
