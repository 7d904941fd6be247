package codec

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Number keeps a numeric literal verbatim until someone asks for a typed value.
func Number() Codec[json.Number] { return numberCodec{} }

type numberCodec struct{}

func (numberCodec) Decode(s string) (json.Number, error) {
	if !IsNumberLiteral(s) {
		return "", errors.Errorf("invalid number literal %q", s)
	}
	return json.Number(s), nil
}

func (numberCodec) Encode(v json.Number) (string, error) { return v.String(), nil }

// IsNumberLiteral reports whether s is a non-empty run of [0-9.eE+-] that
// contains at least one digit.
func IsNumberLiteral(s string) bool {
	digit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digit = true
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
		default:
			return false
		}
	}
	return digit
}
