package codec

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Bool accepts true/false in any letter case.
func Bool() Codec[bool] { return boolCodec{} }

type boolCodec struct{}

func (boolCodec) Decode(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, errors.Errorf("invalid boolean %q", s)
}

func (boolCodec) Encode(v bool) (string, error) { return strconv.FormatBool(v), nil }

// Int64 is the codec for 64-bit signed integers.
func Int64() Codec[int64] { return int64Codec{} }

type int64Codec struct{}

func (int64Codec) Decode(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer %q", s)
	}
	return v, nil
}

func (int64Codec) Encode(v int64) (string, error) { return strconv.FormatInt(v, 10), nil }

// Float64 is the codec for double precision floats.
func Float64() Codec[float64] { return float64Codec{} }

type float64Codec struct{}

func (float64Codec) Decode(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	return v, nil
}

func (float64Codec) Encode(v float64) (string, error) {
	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

// BigInt is the codec for arbitrary precision integers.
func BigInt() Codec[*big.Int] { return bigIntCodec{} }

type bigIntCodec struct{}

func (bigIntCodec) Decode(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid big integer %q", s)
	}
	return v, nil
}

func (bigIntCodec) Encode(v *big.Int) (string, error) {
	if v == nil {
		return "", errors.New("nil big integer")
	}
	return v.String(), nil
}

// Decimal is the codec for arbitrary precision decimals.
func Decimal() Codec[decimal.Decimal] { return decimalCodec{} }

type decimalCodec struct{}

func (decimalCodec) Decode(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "invalid decimal %q", s)
	}
	return v, nil
}

func (decimalCodec) Encode(v decimal.Decimal) (string, error) { return v.String(), nil }
