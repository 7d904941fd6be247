package jsonbind

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/schema"
)

// ContentType is the media type the binding reads and writes.
const ContentType = "application/json"

// Binding reads and writes JSON for one root type. Options are fixed at
// construction; every Unmarshal call uses its own parser state, so a Binding
// may be shared. Dynamic parsing mutates the schema through
// schema.Complex.Add.
type Binding struct {
	root  *schema.Complex
	opt   Options
	names *nameNormalizer
}

// NewBinding returns a Binding for root with DefaultOptions adjusted by opts.
func NewBinding(root *schema.Complex, opts ...Option) *Binding {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = DefaultOptions().Logger
	}
	return &Binding{root: root, opt: o, names: newNameNormalizer(o)}
}

// NewDynamicBinding returns a schema-less Binding: the root type comes from
// gen and every key read becomes a registered field. Root arrays unwrap and
// numbers are parsed eagerly.
func NewDynamicBinding(gen schema.Generator, opts ...Option) *Binding {
	if gen == nil {
		gen = schema.DefaultGenerator
	}
	preset := []Option{WithDynamic(gen), WithPersistDynamic(), WithUnwrapRootArray(), WithParseNumbers()}
	return NewBinding(gen.NewComplex(), append(preset, opts...)...)
}

// Root returns the root type.
func (b *Binding) Root() *schema.Complex { return b.root }

// Options returns a copy of the effective options.
func (b *Binding) Options() Options { return b.opt }

// Unmarshal reads one document from r. A "null" or empty document yields
// (nil, nil). Windows restrict which elements of repeating fields are kept.
func (b *Binding) Unmarshal(r io.Reader, windows ...Window) (*content.Node, error) {
	start := time.Now()
	p := newParser(b, r, windows)
	n, err := p.parse()
	b.opt.Metrics.observe("unmarshal", start, p.in.Offset(), err)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// UnmarshalBytes is Unmarshal over a byte slice.
func (b *Binding) UnmarshalBytes(data []byte, windows ...Window) (*content.Node, error) {
	return b.Unmarshal(bytes.NewReader(data), windows...)
}

// Marshal writes n to w.
func (b *Binding) Marshal(w io.Writer, n *content.Node) error {
	start := time.Now()
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	m := &marshaller{opt: &b.opt, w: bw}
	err := m.marshalRoot(n)
	if err == nil {
		if ferr := bw.Flush(); ferr != nil {
			err = Issues{{Path: "/", Code: CodeIO, Message: "write failed", Cause: ferr, Offset: -1}}
		}
	}
	b.opt.Metrics.observe("marshal", start, cw.n, err)
	return err
}

// MarshalBytes renders n into a new byte slice.
func (b *Binding) MarshalBytes(n *content.Node) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := b.Marshal(buf, n); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
