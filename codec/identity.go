package codec

// Identity returns the codec for plain strings.
func Identity() Codec[string] { return identityCodec{} }

type identityCodec struct{}

func (identityCodec) Decode(s string) (string, error) { return s, nil }
func (identityCodec) Encode(v string) (string, error) { return v, nil }
