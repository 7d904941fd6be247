package codec

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBool_CaseInsensitive(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "True"} {
		v, err := Bool().Decode(s)
		require.NoError(t, err)
		require.True(t, v)
	}
	_, err := Bool().Decode("yes")
	require.Error(t, err)
}

func TestNumericCodecs(t *testing.T) {
	i, err := Int64().Decode("-42")
	require.NoError(t, err)
	require.Equal(t, int64(-42), i)

	_, err = Int64().Decode("1.5")
	require.Error(t, err)

	f, err := Float64().Decode("1.25e2")
	require.NoError(t, err)
	require.Equal(t, 125.0, f)
	s, _ := Float64().Encode(0.1)
	require.Equal(t, "0.1", s)

	b, err := BigInt().Decode("123456789012345678901234567890")
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.Zero(t, want.Cmp(b))

	d, err := Decimal().Decode("123456789012345678901234567890.5")
	require.NoError(t, err)
	require.Equal(t, "123456789012345678901234567890.5", d.String())
}

func TestErase(t *testing.T) {
	u := Erase("decimal", Decimal())
	require.True(t, u.Accepts(decimal.NewFromInt(3)))
	require.False(t, u.Accepts("3"))

	s, err := u.Encode(decimal.RequireFromString("1.50"))
	require.NoError(t, err)
	require.Equal(t, "1.5", s)

	s, err = u.Encode("2.75")
	require.NoError(t, err)
	require.Equal(t, "2.75", s)

	_, err = u.Encode("abc")
	require.Error(t, err)

	_, err = u.Encode(struct{}{})
	require.Error(t, err)
}

func TestBase64(t *testing.T) {
	s, err := Base64().Encode([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "aGVsbG8=", s)
	b, err := Base64().Decode(s)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), b)
	_, err = Base64().Decode("%%%")
	require.Error(t, err)
}
