package jsonbind

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-kit/log/level"

	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/escape"
	"github.com/reoring/jsonbind/i18n"
	"github.com/reoring/jsonbind/internal/engine"
	"github.com/reoring/jsonbind/schema"
)

// slot is the destination of one value: a node, the field as read and as
// resolved, and the list index (-1 outside arrays). A nil node means the
// value is read and dropped.
type slot struct {
	node    *content.Node
	raw     string
	name    string
	field   *schema.Field
	index   int
	dynamic bool // the enclosing object was invented while parsing
	toKV    bool // an unregistered dynamic object that prefers the key/value list
}

func (s *slot) resolve() {
	if s.node == nil {
		return
	}
	s.field = s.node.Type().Resolve(s.raw, s.name)
	if s.field != nil {
		s.name = s.field.Name
	}
}

// readValue dispatches on the first character of a value.
func (p *parser) readValue(s slot, c rune) error {
	switch c {
	case '{':
		return p.readObjectValue(s)
	case '"':
		raw, err := p.in.ReadQuoted(0)
		if err != nil {
			return p.ioIssue(err)
		}
		return p.settle(s, p.stringValue(raw))
	case 't', 'T':
		return p.readLiteral(s, c, "rue", true)
	case 'f', 'F':
		return p.readLiteral(s, c, "alse", false)
	case 'n', 'N':
		return p.readLiteral(s, c, "ull", nil)
	}
	if engine.IsNumberChar(c) {
		lit, err := p.in.ReadNumber(c)
		if err != nil {
			return p.ioIssue(err)
		}
		return p.settle(s, p.numberValue(lit))
	}
	return p.grammar("unexpected " + strconv.QuoteRune(c) + " at the start of a value")
}

func (p *parser) readLiteral(s slot, first rune, rest string, v any) error {
	word, err := p.in.ReadWord(len(rest))
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return p.ioIssue(err)
	}
	if !strings.EqualFold(word, rest) {
		return p.grammar("the value " + strconv.Quote(string(first)+word) + " is not valid")
	}
	return p.settle(s, v)
}

func (p *parser) stringValue(raw string) any {
	v := escape.Unescape(raw, p.opt.AllowNilCharacter)
	if p.opt.DecodeUnicode {
		v = escape.DecodeUnicode(v, p.opt.AllowNilCharacter)
	}
	if v == "" && p.opt.IgnoreEmptyStrings {
		return nil
	}
	return v
}

func (p *parser) numberValue(lit string) any {
	if p.opt.ParseNumbers {
		return parseNumber(lit)
	}
	if _, err := strconv.ParseFloat(lit, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
		// not a number after all; keep the text
		return lit
	}
	return content.Number(lit)
}

func (p *parser) generator() schema.Generator {
	if p.opt.Generator != nil {
		return p.opt.Generator
	}
	return schema.DefaultGenerator
}

// readObjectValue handles a '{' in value position.
func (p *parser) readObjectValue(s slot) error {
	if s.field != nil && s.field.IsKind(schema.KindString) {
		text, err := p.in.ReadBraced()
		if err != nil {
			return p.ioIssue(err)
		}
		return p.settle(s, text)
	}
	var dn *schema.Field
	if s.field == nil && s.node != nil {
		// an unknown key holding an object may be one member of a map-like list
		if dn = schema.DynamicNameField(s.node.Type()); dn != nil {
			s.field = dn
			s.index = s.node.Len(dn.Name)
		}
	}
	var childType *schema.Complex
	asMap := false
	switch {
	case s.node == nil:
	case s.field != nil && s.field.IsKind(schema.KindMap):
		childType = p.generator().NewComplex()
		s.dynamic, asMap = true, true
	case s.field != nil && s.field.IsKind(schema.KindAny):
		childType = p.generator().NewComplex()
		s.dynamic = true
	case s.field == nil && p.canSynthesize(s):
		childType = p.generator().NewComplex()
		s.field = p.synthesize(&s, childType)
		s.dynamic = true
	case s.field == nil && schema.KeyValueField(s.node.Type()) != nil:
		childType = p.generator().NewComplex()
		s.dynamic, s.toKV = true, true
	case s.field == nil:
		if !p.opt.IgnoreUnknownElements {
			return p.issue(CodeUnknownKey, "the field "+strconv.Quote(s.raw)+" is unexpected at this position")
		}
		s.node = nil
	}
	if s.node != nil && childType == nil {
		ct, ok := s.field.Complex()
		if !ok {
			if !p.opt.IgnoreInconsistentTypes {
				return p.issue(CodeSchemaMismatch, "the field "+strconv.Quote(s.name)+" is not a complex type")
			}
			s.node = nil
		}
		childType = ct
	}
	var child *content.Node
	if s.node != nil {
		child = content.New(childType)
		if dn != nil {
			child.Set(dn.DynamicName, p.dynamicKey(childType, dn.DynamicName, s.raw))
			s.name = dn.Name
		}
	}
	if err := p.readObject(child, s.dynamic, false); err != nil {
		return err
	}
	if child == nil {
		return nil
	}
	if asMap {
		return p.settle(s, child.ToMap())
	}
	return p.settle(s, child)
}

// settle stores a parsed value, trying in order: the dynamic-name list, the
// key/value list, a synthesized field, then the unknown field policy.
func (p *parser) settle(s slot, v any) error {
	if v == nil || s.node == nil {
		return nil
	}
	if _, isNode := v.(*content.Node); !isNode && s.field == nil {
		if dn := schema.DynamicNameField(s.node.Type()); dn != nil {
			dt, _ := dn.Complex()
			if fs := dt.Fields(); len(fs) == 2 {
				other := fs[0]
				if other.Name == dn.DynamicName {
					other = fs[1]
				}
				cv, ok, err := p.coerce(other, v)
				if err != nil || !ok {
					return err
				}
				member := content.New(dt)
				member.Set(dn.DynamicName, p.dynamicKey(dt, dn.DynamicName, s.raw))
				member.Set(other.Name, cv)
				s.field, s.name, s.index, v = dn, dn.Name, s.node.Len(dn.Name), member
			}
		}
	}
	var kv *schema.Field
	if s.field == nil || s.toKV {
		kv = schema.KeyValueField(s.node.Type())
	}
	if kv != nil {
		return p.appendKeyValues(s, kv, v)
	}
	if s.field == nil && p.canSynthesize(s) && (!p.opt.IgnoreUnknownElements || s.dynamic) {
		st := simpleTypeFor(v)
		if st == nil {
			return p.issue(CodeSchemaMismatch, fmt.Sprintf("can not dynamically wrap a value of type %T", v))
		}
		s.field = p.synthesize(&s, st)
	}
	if s.field == nil {
		if p.opt.IgnoreUnknownElements {
			return nil
		}
		return p.issue(CodeUnknownKey, "the field "+strconv.Quote(s.raw)+" is unexpected at this position")
	}
	return p.assign(s, v)
}

func (p *parser) canSynthesize(s slot) bool {
	return s.dynamic || (p.opt.AllowDynamicElements && p.opt.Generator != nil)
}

// synthesize invents a field for s. It is registered into the parent type
// when definitions persist or the parent itself is dynamic; otherwise it
// only carries this one value.
func (p *parser) synthesize(s *slot, t schema.Type) *schema.Field {
	f := &schema.Field{Name: s.name, Type: t, List: s.index >= 0}
	if s.raw != s.name {
		f.Alias = s.raw
	}
	parent := s.node.Type()
	if !p.opt.PersistDynamicDefinitions && !s.dynamic && !parent.Dynamic() {
		s.toKV = true
		return f
	}
	if err := parent.Add(f); err != nil {
		if existing := parent.Get(f.Name); existing != nil {
			return existing
		}
		return f
	}
	p.opt.Metrics.dynamicField()
	level.Debug(p.logger).Log("msg", "registered dynamic field", "type", parent.Name(), "field", f.Name, "fieldType", t.Name(), "list", f.List)
	return f
}

// dynamicKey converts the wire key into the type of the dynamic name field.
func (p *parser) dynamicKey(t *schema.Complex, name, raw string) any {
	f := t.Get(name)
	if f == nil {
		return raw
	}
	if v, ok, err := p.coerce(f, raw); err == nil && ok {
		return v
	}
	return raw
}

// assign applies cardinality rules and stores v.
func (p *parser) assign(s slot, v any) error {
	f := s.field
	v, ok, err := p.coerce(f, v)
	if err != nil || !ok {
		return err
	}
	switch {
	case s.index >= 0 && !f.List:
		// the second element of a singular field is where leniency ends
		if p.opt.Lenient && s.index == 0 {
			s.node.Set(f.Name, v)
			return nil
		}
		if p.opt.IgnoreInconsistentTypes {
			return nil
		}
		return p.issue(CodeSchemaMismatch, "the element "+strconv.Quote(f.Name)+" is an array in the document but not a list")
	case s.index >= 0:
		s.node.SetIndex(f.Name, s.index, v)
	case f.List:
		if !p.opt.Lenient {
			if p.opt.IgnoreInconsistentTypes {
				return nil
			}
			return p.issue(CodeSchemaMismatch, "the element "+strconv.Quote(f.Name)+" is a list but not an array in the document")
		}
		s.node.SetIndex(f.Name, 0, v)
	default:
		s.node.Set(f.Name, v)
	}
	return nil
}

// coerce converts v to the Go type of f. ok is false when the value is
// dropped because of IgnoreInconsistentTypes.
func (p *parser) coerce(f *schema.Field, v any) (any, bool, error) {
	switch t := f.Type.(type) {
	case *schema.Complex:
		if n, ok := v.(*content.Node); ok {
			return n, true, nil
		}
		return p.inconsistent(f, "expects an object")
	case *schema.Simple:
		if _, isNode := v.(*content.Node); isNode && t.Kind() != schema.KindAny && t.Kind() != schema.KindMap {
			return p.inconsistent(f, "expects a scalar")
		}
		switch t.Kind() {
		case schema.KindAny:
			return v, true, nil
		case schema.KindMap:
			switch x := v.(type) {
			case map[string]any:
				return x, true, nil
			case *content.Node:
				return x.ToMap(), true, nil
			}
			return p.inconsistent(f, "expects an object")
		case schema.KindString:
			if _, isMap := v.(map[string]any); isMap {
				return p.inconsistent(f, "expects a string")
			}
			return scalarString(v), true, nil
		case schema.KindNumber:
			if lit, ok := numberLiteral(v); ok {
				return content.Number(lit), true, nil
			}
		}
		if t.Accepts(v) {
			return v, true, nil
		}
		text := scalarString(v)
		out, err := t.Unmarshal(text)
		if err != nil {
			if p.opt.IgnoreInconsistentTypes {
				return nil, false, nil
			}
			iss := p.issueAt(CodeInvalidFormat, "could not parse value "+strconv.Quote(text)+" for element "+strconv.Quote(f.Name))
			iss[0].Cause = err
			iss[0].Hint = t.Name()
			iss[0].Params = map[string]any{"field": f.Name, "value": text, "type": t.Name()}
			return nil, false, iss
		}
		return out, true, nil
	}
	return v, true, nil
}

func (p *parser) inconsistent(f *schema.Field, what string) (any, bool, error) {
	if p.opt.IgnoreInconsistentTypes {
		return nil, false, nil
	}
	return nil, false, p.issue(CodeSchemaMismatch, "the element "+strconv.Quote(f.Name)+" "+what)
}

// appendKeyValues adds v to the key/value list kv under the wire name. An
// object is flattened into one pair per scalar, keyed by its dotted path.
func (p *parser) appendKeyValues(s slot, kv *schema.Field, v any) error {
	kvType, _ := kv.Complex()
	key := s.raw
	if s.index >= 0 {
		key += "[" + strconv.Itoa(s.index) + "]"
	}
	var pairs [][2]any
	switch x := v.(type) {
	case *content.Node:
		pairs = flattenProperties(x.ToMap(), key, pairs)
	case map[string]any:
		pairs = flattenProperties(x, key, pairs)
	default:
		pairs = append(pairs, [2]any{key, v})
	}
	valueField := kvType.Get(schema.ValueField)
	for _, kvp := range pairs {
		pair := content.New(kvType)
		pair.Set(schema.KeyField, kvp[0])
		if valueField != nil {
			val, ok, err := p.coerce(valueField, kvp[1])
			if err != nil {
				return err
			}
			if ok {
				pair.Set(schema.ValueField, val)
			}
		}
		s.node.Append(kv.Name, pair)
	}
	return nil
}

// flattenProperties turns nested maps and lists into (path, scalar) pairs:
// "a.b", "a.list[0]", "a.map[\"k\"]".
func flattenProperties(m map[string]any, prefix string, out [][2]any) [][2]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = flattenValue(m[k], prefix+"."+k, out)
	}
	return out
}

func flattenValue(v any, path string, out [][2]any) [][2]any {
	switch x := v.(type) {
	case nil:
		return out
	case map[string]any:
		return flattenProperties(x, path, out)
	case []any:
		for i, e := range x {
			out = flattenValue(e, path+"["+strconv.Itoa(i)+"]", out)
		}
		return out
	}
	return append(out, [2]any{path, v})
}

func (p *parser) grammar(msg string) error { return p.issue(CodeParseError, msg) }

func (p *parser) issue(code, msg string) error { return p.issueAt(code, msg) }

func (p *parser) issueAt(code, msg string) Issues {
	return Issues{{
		Path:    p.path.Pointer(),
		Code:    code,
		Message: i18n.T(code, nil) + ": " + msg,
		Offset:  p.in.Offset(),
	}}
}

// ioIssue converts reader failures into Issues.
func (p *parser) ioIssue(err error) error {
	if _, ok := AsIssues(err); ok {
		return err
	}
	var ie engine.IssueError
	if errors.As(err, &ie) {
		code := CodeParseError
		switch ie.Code {
		case engine.CodeTooDeep:
			code = CodeTooDeep
		case engine.CodeTruncated:
			code = CodeTruncated
		}
		return Issues{{Path: p.path.Pointer(), Code: code, Message: i18n.T(code, nil) + ": " + ie.Message, Offset: ie.Offset}}
	}
	msg := "read failed"
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		msg = "unexpected end of input"
		err = io.ErrUnexpectedEOF
	}
	return Issues{{Path: p.path.Pointer(), Code: CodeIO, Message: i18n.T(CodeIO, nil) + ": " + msg, Cause: err, Offset: p.in.Offset()}}
}
