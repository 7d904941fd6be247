package jsonbind

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/schema"
)

// parseNumber widens a literal step by step: int64, float64 when that loses
// nothing, *big.Int, decimal.Decimal. A literal none of them accept stays a
// string.
func parseNumber(lit string) any {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i
	}
	exact, decErr := decimal.NewFromString(lit)
	if f, err := strconv.ParseFloat(lit, 64); err == nil && decErr == nil {
		if decimal.NewFromFloat(f).Equal(exact) {
			return f
		}
	}
	if b, ok := new(big.Int).SetString(lit, 10); ok {
		return b
	}
	if decErr == nil {
		return exact
	}
	return lit
}

// simpleTypeFor picks the scalar type a dynamic field gets for v.
func simpleTypeFor(v any) *schema.Simple {
	switch v.(type) {
	case string:
		return schema.String
	case bool:
		return schema.Boolean
	case content.Number:
		return schema.Number
	case int64, int, int32:
		return schema.Long
	case float64, float32:
		return schema.Double
	case *big.Int:
		return schema.BigInteger
	case decimal.Decimal:
		return schema.Decimal
	case []byte:
		return schema.Bytes
	case time.Time:
		return schema.DateTime
	case map[string]any:
		return schema.Map
	}
	return nil
}

// scalarString is the canonical text of a scalar, used for key/value pairs
// and string-typed fields holding non-string values.
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case content.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case *big.Int:
		return x.String()
	case decimal.Decimal:
		return x.String()
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// numberLiteral returns the JSON text of a numeric value, or false when v is
// not numeric.
func numberLiteral(v any) (string, bool) {
	switch x := v.(type) {
	case content.Number:
		return x.String(), true
	case int:
		return strconv.Itoa(x), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case *big.Int:
		if x == nil {
			return "", false
		}
		return x.String(), true
	case *big.Float:
		if x == nil {
			return "", false
		}
		return x.Text('g', -1), true
	case decimal.Decimal:
		return x.String(), true
	}
	return "", false
}
