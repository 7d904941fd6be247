package codec

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// Base64 is the codec for binary payloads carried as standard base64 text.
func Base64() Codec[[]byte] { return base64Codec{} }

type base64Codec struct{}

func (base64Codec) Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base64 payload")
	}
	return b, nil
}

func (base64Codec) Encode(v []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(v), nil
}
