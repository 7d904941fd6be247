package jsonbind

import (
	"iter"

	"github.com/reoring/jsonbind/content"
)

// ObjectWrapper turns host values into content nodes so they can be written
// against a composite field. It returns false when v is not applicable.
type ObjectWrapper interface {
	AsContentNode(v any) (*content.Node, bool)
}

// SequenceAdapter iterates host containers in order. It returns false when
// v is not a sequence.
type SequenceAdapter interface {
	AsSequence(v any) ([]any, bool)
}

// ObjectWrapperFunc adapts a function to ObjectWrapper.
type ObjectWrapperFunc func(v any) (*content.Node, bool)

func (f ObjectWrapperFunc) AsContentNode(v any) (*content.Node, bool) { return f(v) }

// SequenceAdapterFunc adapts a function to SequenceAdapter.
type SequenceAdapterFunc func(v any) ([]any, bool)

func (f SequenceAdapterFunc) AsSequence(v any) ([]any, bool) { return f(v) }

// sequence returns the elements of v: []any and iter.Seq[any] natively,
// anything else through the configured adapter.
func (o *Options) sequence(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case iter.Seq[any]:
		var out []any
		for e := range x {
			out = append(out, e)
		}
		return out, true
	}
	if o.Sequences != nil {
		return o.Sequences.AsSequence(v)
	}
	return nil, false
}

func (o *Options) wrap(v any) (*content.Node, bool) {
	if n, ok := v.(*content.Node); ok {
		return n, n != nil
	}
	if o.Wrapper != nil {
		return o.Wrapper.AsContentNode(v)
	}
	return nil, false
}
