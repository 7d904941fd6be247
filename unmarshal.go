package jsonbind

import (
	"errors"
	"io"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/escape"
	"github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/schema"
)

// parser holds the state of one Unmarshal call.
type parser struct {
	b       *Binding
	opt     *Options
	in      *engine.Reader
	windows []Window
	path    pathStack
	logger  log.Logger
}

func newParser(b *Binding, r io.Reader, windows []Window) *parser {
	return &parser{
		b:   b,
		opt: &b.opt,
		in: engine.NewReader(r, engine.Limits{
			MaxDepth:  b.opt.MaxDepth,
			MaxBytes:  b.opt.MaxBytes,
			MaxString: b.opt.MaxString,
		}),
		windows: windows,
		logger:  b.opt.Logger,
	}
}

// parse dispatches on the first significant character of the document.
func (p *parser) parse() (*content.Node, error) {
	root := p.b.root
	c, err := p.in.NextNonSpace()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, p.ioIssue(err)
	}
	var node *content.Node
	switch {
	case c == 'n':
		word, err := p.in.ReadWord(3)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, p.ioIssue(err)
		}
		if word == "ull" {
			lone, err := p.loneScalar()
			if err != nil {
				return nil, err
			}
			if lone {
				return nil, p.expectEnd()
			}
		}
		if p.opt.Strict {
			return nil, p.grammar("expecting null, received n" + word)
		}
		// a bare field name such as "name:"
		p.unreadAll([]rune(word))
		node = content.New(root)
		if err := p.readBare(node, c); err != nil {
			return nil, err
		}
		return node, nil
	case c == '{':
		node = content.New(root)
		if err := p.readObject(node, root.Dynamic(), false); err != nil {
			return nil, err
		}
	case c == '[' && p.opt.UnwrapRootArray:
		f := p.rootArrayField(root)
		if f == nil {
			return nil, p.issue(CodeSchemaMismatch, "the document is an array but the root type does not unwrap to a single list field")
		}
		node = content.New(root)
		p.path.pushField(f.Name)
		err := p.readArray(slot{node: node, raw: f.Name, name: f.Name, field: f, index: -1})
		p.path.popField()
		if err != nil {
			return nil, err
		}
	case c == '[':
		return nil, p.issue(CodeSchemaMismatch, "the document is an array; enable root array unwrapping to read it")
	case p.opt.Strict:
		return nil, p.grammar("expecting '{' to open the document")
	default:
		node = content.New(root)
		if err := p.readBare(node, c); err != nil {
			return nil, err
		}
		return node, nil
	}
	return node, p.expectEnd()
}

// rootArrayField is the single list field a root array maps onto. A dynamic
// parse of an empty type invents one named "array".
func (p *parser) rootArrayField(root *schema.Complex) *schema.Field {
	fields := root.Fields()
	if len(fields) == 0 && p.opt.AllowDynamicElements && p.opt.Generator != nil {
		f := &schema.Field{Name: "array", Type: p.opt.Generator.NewComplex(), List: true}
		if p.opt.PersistDynamicDefinitions || root.Dynamic() {
			if err := root.Add(f); err != nil {
				return root.Get("array")
			}
			p.opt.Metrics.dynamicField()
		}
		return f
	}
	if len(fields) == 1 && fields[0].List {
		return fields[0]
	}
	return nil
}

// readBare handles a document without an opening brace. A lone scalar is
// stored in a field named "value"; anything else is read as the members of
// an implicit object that ends with the input.
func (p *parser) readBare(node *content.Node, c rune) error {
	if c == '"' {
		raw, err := p.in.ReadQuoted(0)
		if err != nil {
			return p.ioIssue(err)
		}
		next, err := p.in.NextNonSpace()
		switch {
		case err == nil && next == ':':
			return p.readMembers(node, node.Type().Dynamic(), true, raw)
		case err == nil:
			p.in.Unread(next)
		case !errors.Is(err, io.EOF):
			return p.ioIssue(err)
		}
		return p.settle(p.bareSlot(node), p.stringValue(raw))
	}
	if engine.IsNumberChar(c) {
		lit, err := p.in.ReadNumber(c)
		if err != nil {
			return p.ioIssue(err)
		}
		lone, err := p.loneScalar()
		if err != nil {
			return err
		}
		if lone {
			return p.settle(p.bareSlot(node), p.numberValue(lit))
		}
		// a field name that starts like a number, e.g. "expires:"
		p.unreadAll([]rune(lit))
		return p.readMembers(node, node.Type().Dynamic(), true, "")
	}
	p.in.Unread(c)
	return p.readMembers(node, node.Type().Dynamic(), true, "")
}

// loneScalar looks past a top-level literal. It reports false, with the
// input restored, when the literal runs on into a field name: either no
// blank follows it or blanks are followed by ':'. End of input or blanks
// followed by anything else leave the literal standing alone.
func (p *parser) loneScalar() (bool, error) {
	var tail []rune
	for {
		c, err := p.in.Next()
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, p.ioIssue(err)
		}
		tail = append(tail, c)
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case ':':
			p.unreadAll(tail)
			return false, nil
		}
		if len(tail) == 1 {
			p.unreadAll(tail)
			return false, nil
		}
		p.in.Unread(c)
		return true, nil
	}
}

// unreadAll pushes runes back so they are read again in order.
func (p *parser) unreadAll(runes []rune) {
	for i := len(runes) - 1; i >= 0; i-- {
		p.in.Unread(runes[i])
	}
}

func (p *parser) bareSlot(node *content.Node) slot {
	s := slot{node: node, raw: schema.ValueField, name: schema.ValueField, index: -1, dynamic: node.Type().Dynamic()}
	s.field = node.Type().Resolve(s.raw, s.name)
	return s
}

// expectEnd rejects trailing input in strict mode.
func (p *parser) expectEnd() error {
	if !p.opt.Strict {
		return nil
	}
	c, err := p.in.NextNonSpace()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return p.ioIssue(err)
	}
	return p.grammar("unexpected " + strconv.QuoteRune(c) + " after the document")
}

// readObject reads the members of an object whose '{' was consumed.
func (p *parser) readObject(node *content.Node, inDynamic, implicit bool) error {
	if err := p.in.Enter(); err != nil {
		return p.ioIssue(err)
	}
	defer p.in.Leave()
	return p.readMembers(node, inDynamic, implicit, "")
}

// readMembers is the field loop. first, when set, is an already read quoted
// name whose colon was consumed.
func (p *parser) readMembers(node *content.Node, inDynamic, implicit bool, first string) error {
	pending := first != ""
	for {
		var raw string
		if pending {
			raw, pending = first, false
		} else {
			c, err := p.in.NextNonSpace()
			if err != nil {
				if implicit && errors.Is(err, io.EOF) {
					return nil
				}
				return p.ioIssue(err)
			}
			switch {
			case c == '}':
				return nil
			case c == '"':
				if raw, err = p.in.ReadQuoted(p.in.LookAhead()); err != nil {
					return p.ioIssue(err)
				}
				if err := p.expect(':', "expecting a ':' after field "+strconv.Quote(raw)); err != nil {
					return err
				}
			case p.opt.Strict:
				return p.grammar("expecting a field name, not " + strconv.QuoteRune(c))
			default:
				p.in.Unread(c)
				if raw, err = p.in.ReadBareName(); err != nil {
					return p.ioIssue(err)
				}
			}
		}
		if !p.opt.AllowRaw {
			raw = escape.Unescape(raw, p.opt.AllowNilCharacter)
		}
		name := p.b.names.normalize(raw)
		if err := p.readMember(node, raw, name, inDynamic); err != nil {
			return err
		}
		c, err := p.in.NextNonSpace()
		if err != nil {
			if implicit && errors.Is(err, io.EOF) {
				return nil
			}
			return p.ioIssue(err)
		}
		if c == '}' {
			return nil
		}
		if c != ',' {
			return p.grammar("expecting a ',' at this position, not " + strconv.QuoteRune(c))
		}
	}
}

func (p *parser) readMember(node *content.Node, raw, name string, inDynamic bool) error {
	s := slot{node: node, raw: raw, name: name, index: -1, dynamic: inDynamic}
	s.resolve()
	// issues point at the wire name, windows match the declared one
	p.path.pushMember(name, s.name)
	defer p.path.popField()
	c, err := p.in.NextNonSpace()
	if err != nil {
		return p.ioIssue(err)
	}
	if c == '[' {
		return p.readArray(s)
	}
	return p.readValue(s, c)
}

func (p *parser) expect(want rune, msg string) error {
	c, err := p.in.NextNonSpace()
	if err != nil {
		return p.ioIssue(err)
	}
	if c != want {
		return p.grammar(msg)
	}
	return nil
}

// readArray reads the elements of an array whose '[' was consumed into the
// field of s. Nested arrays are matrix rows: their values are flattened into
// the same field and the row lengths recorded.
func (p *parser) readArray(s slot) error {
	if err := p.in.Enter(); err != nil {
		return p.ioIssue(err)
	}
	defer p.in.Leave()

	w, windowed := p.windowFor(s)
	a := &arrayState{slot: s, window: w, windowed: windowed}
	if _, err := p.readElements(a, 0); err != nil {
		return err
	}
	if a.next == 0 && p.opt.SetEmptyArrays && s.node != nil {
		switch {
		case s.field != nil:
			if !s.node.Has(s.field.Name) {
				s.node.Set(s.field.Name, []any{})
			}
		case p.opt.AllowDynamicElements:
			if !s.node.Has(s.name) {
				s.node.Set(s.name, []any{})
			}
		}
	}
	if len(a.rows) > 0 && a.plain == 0 && s.node != nil && s.field != nil {
		if _, scalar := s.field.Simple(); scalar {
			s.node.SetRows(s.field.Name, a.rows)
		}
	}
	if a.skipped > 0 {
		level.Debug(p.logger).Log("msg", "window dropped array elements", "path", p.path.Pointer(), "count", a.skipped)
	}
	return nil
}

type arrayState struct {
	slot     slot
	window   Window
	windowed bool
	next     int   // index of the next element in document order
	kept     int   // elements stored so far
	rows     []int // lengths of top level rows
	plain    int   // top level elements that were not rows
	skipped  int
}

func (p *parser) readElements(a *arrayState, depth int) (int, error) {
	count := 0
	for {
		c, err := p.in.NextNonSpace()
		if err != nil {
			return count, p.ioIssue(err)
		}
		if c == ']' {
			return count, nil
		}
		switch {
		case c == '[' && a.slot.field != nil && a.slot.field.Matrix && isComplexField(a.slot.field):
			if err := p.readRow(a); err != nil {
				return count, err
			}
			count++
			if depth == 0 {
				a.rows = append(a.rows, 1)
			}
		case c == '[':
			if err := p.in.Enter(); err != nil {
				return count, p.ioIssue(err)
			}
			n, err := p.readElements(a, depth+1)
			p.in.Leave()
			if err != nil {
				return count, err
			}
			count += n
			if depth == 0 {
				a.rows = append(a.rows, n)
			}
		default:
			if err := p.readElement(a, c); err != nil {
				return count, err
			}
			count++
			if depth == 0 {
				a.plain++
			}
		}
		c, err = p.in.NextNonSpace()
		if err != nil {
			return count, p.ioIssue(err)
		}
		if c == ']' {
			return count, nil
		}
		if c != ',' {
			return count, p.grammar("expecting a ',' to indicate the next part of the array or a ']' to indicate the end for field: " + a.slot.raw)
		}
	}
}

// element returns the slot for the next array element, honouring the window.
func (p *parser) element(a *arrayState) slot {
	i := a.next
	a.next++
	s := a.slot
	s.index = i
	if a.windowed {
		if !a.window.keeps(i) {
			a.skipped++
			p.opt.Metrics.skippedElement()
			s.node = nil
			s.field = nil
			return s
		}
		s.index = i - a.window.Offset
	}
	a.kept++
	return s
}

func (p *parser) readElement(a *arrayState, c rune) error {
	s := p.element(a)
	p.path.pushIndex(s.index)
	defer p.path.popIndex()
	return p.readValue(s, c)
}

// readRow reads one row of a composite matrix field: the row becomes an
// element whose first list field receives the row values.
func (p *parser) readRow(a *arrayState) error {
	s := p.element(a)
	p.path.pushIndex(s.index)
	defer p.path.popIndex()
	rowType, _ := a.slot.field.Complex()
	var lf *schema.Field
	if fs := rowType.ListFields(); len(fs) > 0 {
		lf = fs[0]
	}
	if lf == nil {
		return p.issue(CodeSchemaMismatch, "matrix row type "+rowType.Name()+" has no list field to hold the row")
	}
	var row *content.Node
	if s.node != nil {
		row = content.New(rowType)
	}
	p.path.pushField(lf.Name)
	err := p.readArray(slot{node: row, raw: lf.Name, name: lf.Name, field: lf, index: -1, dynamic: s.dynamic})
	p.path.popField()
	if err != nil || row == nil {
		return err
	}
	return p.settle(s, row)
}

func (p *parser) windowFor(s slot) (Window, bool) {
	if len(p.windows) == 0 || s.field == nil {
		return Window{}, false
	}
	path := p.path.schemaPath()
	for _, w := range p.windows {
		if w.matches(p.b.root.Name(), path) {
			return w, true
		}
	}
	return Window{}, false
}

func isComplexField(f *schema.Field) bool {
	_, ok := f.Complex()
	return ok
}
