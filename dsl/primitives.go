package dsl

import (
	"github.com/reoring/jsonbind/codec"
	"github.com/reoring/jsonbind/schema"
)

func String() *schema.Simple     { return schema.String }
func Bool() *schema.Simple       { return schema.Boolean }
func Long() *schema.Simple       { return schema.Long }
func Double() *schema.Simple     { return schema.Double }
func BigInteger() *schema.Simple { return schema.BigInteger }
func Decimal() *schema.Simple    { return schema.Decimal }

// Number keeps numeric literals verbatim as content.Number.
func Number() *schema.Simple   { return schema.Number }
func Bytes() *schema.Simple    { return schema.Bytes }
func DateTime() *schema.Simple { return schema.DateTime }

// Any accepts whatever the document holds; objects become dynamic nodes.
func Any() *schema.Simple { return schema.Any }

// Map reads an object into map[string]any.
func Map() *schema.Simple { return schema.Map }

// Custom declares a scalar type converted by c.
func Custom[T any](name string, c codec.Codec[T]) *schema.Simple {
	return schema.NewSimple(name, c)
}
