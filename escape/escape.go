// Package escape converts text to and from the body of a JSON string literal.
package escape

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Options tunes Escape and Unescape.
type Options struct {
	// Raw leaves '/' unescaped unless it follows '<'.
	Raw bool
	// AllowNil keeps NUL characters instead of dropping them.
	AllowNil bool
	// Logger receives a warning for every dropped NUL. Nil discards.
	Logger log.Logger
}

const hexDigits = "0123456789abcdef"

// Escape returns text encoded for use between the quotes of a JSON string.
func Escape(text string, raw, allowNil bool) string {
	return EscapeWith(text, Options{Raw: raw, AllowNil: allowNil})
}

// EscapeWith is Escape with a full option set.
func EscapeWith(text string, opt Options) string {
	if !needsEscape(text, opt.Raw) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	var prev byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '/':
			// "</" is always broken up so the output can sit inside a <script> block.
			if !opt.Raw || prev == '<' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case c == 0 && !opt.AllowNil:
				if opt.Logger != nil {
					level.Warn(opt.Logger).Log("msg", "dropping NUL character from JSON string", "offset", i)
				}
			case c < 0x20:
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0xf])
			default:
				b.WriteByte(c)
			}
		}
		prev = c
	}
	return b.String()
}

func needsEscape(text string, raw bool) bool {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < 0x20 || c == '\\' || c == '"' || (c == '/' && (!raw || (i > 0 && text[i-1] == '<'))) {
			return true
		}
	}
	return false
}

// Unescape reverses Escape. Unknown escapes lose their backslash, a truncated
// or malformed \u sequence is kept as raw text and \u0000 is dropped unless
// allowNil is set.
func Unescape(text string, allowNil bool) string {
	if strings.IndexByte(text, '\\') < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for ; i < len(text)-1; i++ {
		c := text[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		next := text[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case '\\', '/', '"':
			b.WriteByte(next)
			i++
		case 'u':
			r, n, ok := decodeHexEscape(text[i:])
			if !ok {
				// emit the rest of the broken sequence verbatim
				end := i + 6
				if end > len(text) {
					end = len(text)
				}
				b.WriteString(text[i:end])
				i = end - 1
				continue
			}
			if r != 0 || allowNil {
				b.WriteRune(r)
			}
			i += n - 1
		}
	}
	if i < len(text) {
		b.WriteString(text[i:])
	}
	return b.String()
}

// DecodeUnicode replaces literal lowercase \uXXXX sequences that survived a
// first Unescape pass.
func DecodeUnicode(text string, allowNil bool) string {
	if !strings.Contains(text, `\u`) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+6 <= len(text) && text[i+1] == 'u' && isLowerHex(text[i+2:i+6]) {
			v, _ := strconv.ParseUint(text[i+2:i+6], 16, 32)
			if v != 0 || allowNil {
				b.WriteRune(rune(v))
			}
			i += 5
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// decodeHexEscape reads \uXXXX at the start of s, joining a following low
// surrogate escape when s starts with a high surrogate.
func decodeHexEscape(s string) (rune, int, bool) {
	if len(s) < 6 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[2:6], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	r := rune(v)
	if utf16.IsSurrogate(r) && len(s) >= 12 && s[6] == '\\' && s[7] == 'u' {
		if lo, err := strconv.ParseUint(s[8:12], 16, 32); err == nil {
			if dec := utf16.DecodeRune(r, rune(lo)); dec != utf8.RuneError {
				return dec, 12, true
			}
		}
	}
	return r, 6, true
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
