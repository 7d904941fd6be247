package schema

import (
	"strconv"
	"sync/atomic"
)

// Generator produces fresh modifiable composite types for dynamic parsing.
type Generator interface {
	NewComplex() *Complex
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() *Complex

func (f GeneratorFunc) NewComplex() *Complex { return f() }

var anonymousSeq atomic.Int64

// DefaultGenerator hands out empty dynamic types named anonymous<N>.
var DefaultGenerator Generator = GeneratorFunc(func() *Complex {
	return NewDynamic("anonymous" + strconv.FormatInt(anonymousSeq.Add(1), 10))
})

// NewDynamic returns an empty type flagged as dynamically generated.
func NewDynamic(name string) *Complex {
	return &Complex{name: name, dynamic: true, byName: map[string]*Field{}}
}
