// Package codec holds the string codecs behind scalar schema types: each
// converts between the text a scalar has in a document and its Go value.
package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

// Codec converts between a wire string and a typed value.
type Codec[T any] interface {
	Decode(s string) (T, error)
	Encode(v T) (string, error)
}

// Untyped is a Codec with its type parameter erased, as held by schema types.
type Untyped interface {
	Decode(s string) (any, error)
	Encode(v any) (string, error)
	// Accepts reports whether v already has the decoded Go type.
	Accepts(v any) bool
}

// Erase wraps a typed codec so it can sit behind the Untyped interface.
func Erase[T any](name string, c Codec[T]) Untyped {
	return erased[T]{name: name, c: c}
}

type erased[T any] struct {
	name string
	c    Codec[T]
}

func (e erased[T]) Decode(s string) (any, error) {
	v, err := e.c.Decode(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (e erased[T]) Encode(v any) (string, error) {
	switch x := v.(type) {
	case T:
		return e.c.Encode(x)
	case string:
		// already in wire form; round it through Decode to validate
		if _, err := e.c.Decode(x); err != nil {
			return "", err
		}
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", errors.Errorf("%s: cannot encode value of type %T", e.name, v)
}

func (e erased[T]) Accepts(v any) bool {
	_, ok := v.(T)
	return ok
}
