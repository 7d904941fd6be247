package schema

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/reoring/jsonbind/codec"
)

// Type is either a *Simple or a *Complex.
type Type interface {
	Name() string
}

// Kind classifies scalar types.
type Kind int

const (
	KindString Kind = iota
	KindBoolean
	KindLong
	KindDouble
	KindBigInteger
	KindDecimal
	KindNumber
	KindBytes
	KindDateTime
	KindAny // untyped; runtime value decides how it is written
	KindMap // string-keyed map of untyped values
	KindCustom
)

// Simple is a scalar type backed by a string codec.
type Simple struct {
	name  string
	kind  Kind
	codec codec.Untyped
}

// Built-in scalar types.
var (
	String     = &Simple{name: "string", kind: KindString, codec: codec.Erase("string", codec.Identity())}
	Boolean    = &Simple{name: "boolean", kind: KindBoolean, codec: codec.Erase("boolean", codec.Bool())}
	Long       = &Simple{name: "long", kind: KindLong, codec: codec.Erase("long", codec.Int64())}
	Double     = &Simple{name: "double", kind: KindDouble, codec: codec.Erase("double", codec.Float64())}
	BigInteger = &Simple{name: "bigInteger", kind: KindBigInteger, codec: codec.Erase("bigInteger", codec.BigInt())}
	Decimal    = &Simple{name: "decimal", kind: KindDecimal, codec: codec.Erase("decimal", codec.Decimal())}
	Number     = &Simple{name: "number", kind: KindNumber, codec: codec.Erase("number", codec.Number())}
	Bytes      = &Simple{name: "base64Binary", kind: KindBytes, codec: codec.Erase("base64Binary", codec.Base64())}
	DateTime   = &Simple{name: "dateTime", kind: KindDateTime, codec: codec.Erase("dateTime", codec.DateTime())}
	Any        = &Simple{name: "any", kind: KindAny}
	Map        = &Simple{name: "map", kind: KindMap}
)

var simpleByName = map[string]*Simple{}

func init() {
	for _, s := range []*Simple{String, Boolean, Long, Double, BigInteger, Decimal, Number, Bytes, DateTime, Any, Map} {
		simpleByName[s.name] = s
	}
	// common spellings
	simpleByName["bool"] = Boolean
	simpleByName["int"] = Long
	simpleByName["integer"] = Long
	simpleByName["float"] = Double
	simpleByName["bytes"] = Bytes
	simpleByName["object"] = Any
}

// LookupSimple returns the built-in scalar type with the given name.
func LookupSimple(name string) (*Simple, bool) {
	s, ok := simpleByName[name]
	return s, ok
}

// NewSimple declares a custom scalar type around a codec.
func NewSimple[T any](name string, c codec.Codec[T]) *Simple {
	return &Simple{name: name, kind: KindCustom, codec: codec.Erase(name, c)}
}

func (s *Simple) Name() string { return s.name }
func (s *Simple) Kind() Kind   { return s.kind }

// Unmarshal converts document text into the type's Go value.
func (s *Simple) Unmarshal(text string) (any, error) {
	switch s.kind {
	case KindAny:
		return text, nil
	case KindMap:
		return nil, errors.Errorf("%s: a map cannot be read from a string", s.name)
	}
	return s.codec.Decode(text)
}

// Marshal converts a Go value into its canonical string form.
func (s *Simple) Marshal(v any) (string, error) {
	if s.codec == nil {
		switch x := v.(type) {
		case string:
			return x, nil
		case fmt.Stringer:
			return x.String(), nil
		}
		return fmt.Sprint(v), nil
	}
	return s.codec.Encode(v)
}

// Accepts reports whether v already has the Go type Unmarshal produces.
func (s *Simple) Accepts(v any) bool {
	if s.codec == nil {
		return true
	}
	return s.codec.Accepts(v)
}
