package jsonbind

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/escape"
	"github.com/reoring/jsonbind/schema"
)

// marshaller writes a content tree. Write errors stick in the bufio.Writer
// and surface on Flush.
type marshaller struct {
	opt  *Options
	w    *bufio.Writer
	path pathStack
}

func (m *marshaller) marshalRoot(n *content.Node) error {
	if n == nil {
		_, _ = m.w.WriteString("null")
		return nil
	}
	if m.opt.UnwrapRootArray {
		if fs := n.Type().Fields(); len(fs) == 1 && fs[0].List {
			m.path.pushField(fs[0].Name)
			defer m.path.popField()
			return m.marshalList(fs[0], n, n.Get(fs[0].Name), 0)
		}
	}
	return m.marshalNode(n, 0, "")
}

// marshalNode writes n as an object: declared fields in order, then values
// stored under names the type does not declare. skip omits one field, the
// dynamic name already written as the member key.
func (m *marshaller) marshalNode(n *content.Node, depth int, skip string) error {
	_ = m.w.WriteByte('{')
	first := true
	typ := n.Type()
	kv := schema.KeyValueField(typ)
	for _, f := range typ.Fields() {
		if f.Name == skip {
			continue
		}
		v := n.Get(f.Name)
		m.path.pushField(f.Name)
		var err error
		switch {
		case f == kv && m.opt.ExpandKeyValuePairs:
			err = m.marshalKeyValues(&first, depth, v)
		case f.List && f.DynamicName != "" && !m.opt.IgnoreDynamicNames:
			err = m.marshalDynamicNames(&first, depth, f, v)
		case f.List:
			if seq, ok := m.opt.sequence(v); len(seq) > 0 || (!ok && v != nil) || (f.Required() && m.opt.MarshalMissingRequired) {
				m.member(&first, depth, f.WireName(m.opt.UseAlias))
				err = m.marshalList(f, n, v, depth+1)
			}
		case v == nil:
			if f.Required() && m.opt.MarshalMissingRequired {
				m.member(&first, depth, f.WireName(m.opt.UseAlias))
				_, _ = m.w.WriteString("null")
			}
		default:
			m.member(&first, depth, f.WireName(m.opt.UseAlias))
			err = m.marshalValue(f, v, depth+1)
		}
		m.path.popField()
		if err != nil {
			return err
		}
	}
	for _, k := range n.Keys() {
		if k == skip || typ.Get(k) != nil {
			continue
		}
		v := n.Get(k)
		if v == nil {
			continue
		}
		m.path.pushField(k)
		m.member(&first, depth, k)
		err := m.marshalValue(nil, v, depth+1)
		m.path.popField()
		if err != nil {
			return err
		}
	}
	m.close(first, depth, '}')
	return nil
}

// member writes the separator and the quoted name of the next member.
func (m *marshaller) member(first *bool, depth int, name string) {
	if !*first {
		_ = m.w.WriteByte(',')
		if !m.opt.PrettyPrint {
			_ = m.w.WriteByte(' ')
		}
	}
	*first = false
	m.indent(depth + 1)
	m.str(name)
	_, _ = m.w.WriteString(": ")
}

func (m *marshaller) close(empty bool, depth int, c byte) {
	if !empty {
		m.indent(depth)
	}
	_ = m.w.WriteByte(c)
}

func (m *marshaller) indent(depth int) {
	if !m.opt.PrettyPrint {
		return
	}
	_ = m.w.WriteByte('\n')
	for i := 0; i < depth; i++ {
		_ = m.w.WriteByte('\t')
	}
}

func (m *marshaller) str(s string) {
	_ = m.w.WriteByte('"')
	_, _ = m.w.WriteString(escape.EscapeWith(s, escape.Options{
		Raw:      m.opt.AllowRaw,
		AllowNil: m.opt.AllowNilCharacter,
		Logger:   m.opt.Logger,
	}))
	_ = m.w.WriteByte('"')
}

// marshalList writes the list field f of owner. Scalar matrices are split
// by the recorded row lengths; composite matrices write each element as the
// bare array of its first list field.
func (m *marshaller) marshalList(f *schema.Field, owner *content.Node, v any, depth int) error {
	seq, ok := m.opt.sequence(v)
	if !ok && v != nil {
		if unadapted(v) {
			return m.marshalError(fmt.Sprintf("can not write a value of type %T as a list", v), v)
		}
		// a singular value under a list field
		seq = []any{v}
	}
	if rows := owner.Rows(f.Name); len(rows) > 0 {
		if _, scalar := f.Simple(); scalar {
			return m.marshalRows(f, seq, rows, depth)
		}
	}
	_ = m.w.WriteByte('[')
	for i, e := range seq {
		if i > 0 {
			_, _ = m.w.WriteString(", ")
		}
		m.path.pushIndex(i)
		var err error
		if f.Matrix {
			err = m.marshalRow(f, e, depth)
		} else {
			err = m.marshalValue(f, e, depth)
		}
		m.path.popIndex()
		if err != nil {
			return err
		}
	}
	_ = m.w.WriteByte(']')
	return nil
}

// unadapted reports a slice or array that no sequence adapter claimed.
func unadapted(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	}
	return false
}

func (m *marshaller) marshalRows(f *schema.Field, seq []any, rows []int, depth int) error {
	_ = m.w.WriteByte('[')
	at := 0
	for r, n := range rows {
		if r > 0 {
			_, _ = m.w.WriteString(", ")
		}
		_ = m.w.WriteByte('[')
		for j := 0; j < n && at < len(seq); j++ {
			if j > 0 {
				_, _ = m.w.WriteString(", ")
			}
			m.path.pushIndex(at)
			err := m.marshalValue(f, seq[at], depth)
			m.path.popIndex()
			if err != nil {
				return err
			}
			at++
		}
		_ = m.w.WriteByte(']')
	}
	_ = m.w.WriteByte(']')
	return nil
}

func (m *marshaller) marshalRow(f *schema.Field, e any, depth int) error {
	row, ok := m.opt.wrap(e)
	if !ok {
		return m.marshalValue(f, e, depth)
	}
	lfs := row.Type().ListFields()
	if len(lfs) == 0 {
		return m.marshalNode(row, depth, "")
	}
	return m.marshalList(lfs[0], row, row.Get(lfs[0].Name), depth)
}

// marshalDynamicNames folds the elements of a dynamic-name list into the
// parent object, keyed by their name field.
func (m *marshaller) marshalDynamicNames(first *bool, depth int, f *schema.Field, v any) error {
	seq, _ := m.opt.sequence(v)
	et, _ := f.Complex()
	var other *schema.Field
	if et != nil {
		if fs := et.Fields(); len(fs) == 2 {
			other = fs[0]
			if other.Name == f.DynamicName {
				other = fs[1]
			}
			if _, scalar := other.Simple(); !scalar {
				other = nil
			}
		}
	}
	for i, e := range seq {
		node, ok := m.opt.wrap(e)
		if !ok {
			return m.marshalError("a dynamically named element must be an object", e)
		}
		key := node.Get(f.DynamicName)
		if key == nil {
			return m.marshalError("missing the dynamic name field "+f.DynamicName, e)
		}
		m.path.pushIndex(i)
		m.member(first, depth, scalarString(key))
		var err error
		if other != nil {
			err = m.marshalValue(other, node.Get(other.Name), depth+1)
		} else {
			err = m.marshalNode(node, depth+1, f.DynamicName)
		}
		m.path.popIndex()
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *marshaller) marshalKeyValues(first *bool, depth int, v any) error {
	seq, _ := m.opt.sequence(v)
	for i, e := range seq {
		pair, ok := m.opt.wrap(e)
		if !ok {
			return m.marshalError("a key/value entry must be an object", e)
		}
		key := pair.Get(schema.KeyField)
		if key == nil {
			continue
		}
		m.path.pushIndex(i)
		m.member(first, depth, scalarString(key))
		err := m.marshalValue(nil, pair.Get(schema.ValueField), depth+1)
		m.path.popIndex()
		if err != nil {
			return err
		}
	}
	return nil
}

// marshalValue writes a single value. f, when known, supplies the textual
// form of custom scalars.
func (m *marshaller) marshalValue(f *schema.Field, v any, depth int) error {
	if lit, ok := numberLiteral(v); ok {
		if x, isFloat := v.(float64); isFloat && (math.IsNaN(x) || math.IsInf(x, 0)) {
			return m.marshalError("can not write a non-finite number", v)
		}
		if x, isFloat := v.(float32); isFloat && (math.IsNaN(float64(x)) || math.IsInf(float64(x), 0)) {
			return m.marshalError("can not write a non-finite number", v)
		}
		if _, isNumber := v.(content.Number); isNumber && lit == "" {
			_, _ = m.w.WriteString("null")
			return nil
		}
		_, _ = m.w.WriteString(lit)
		return nil
	}
	switch x := v.(type) {
	case nil:
		_, _ = m.w.WriteString("null")
		return nil
	case bool:
		if x {
			_, _ = m.w.WriteString("true")
		} else {
			_, _ = m.w.WriteString("false")
		}
		return nil
	case string:
		if f != nil {
			if st, ok := f.Simple(); ok && st.Kind() == schema.KindCustom {
				s, err := st.Marshal(x)
				if err != nil {
					return m.marshalError(err.Error(), v)
				}
				x = s
			}
		}
		m.str(x)
		return nil
	case []byte:
		m.str(base64.StdEncoding.EncodeToString(x))
		return nil
	case time.Time:
		s, err := schema.DateTime.Marshal(x)
		if err != nil {
			return m.marshalError(err.Error(), v)
		}
		m.str(s)
		return nil
	case *content.Node:
		if x == nil {
			_, _ = m.w.WriteString("null")
			return nil
		}
		return m.marshalNode(x, depth, "")
	case map[string]any:
		return m.marshalMap(x, depth)
	case io.Reader:
		if !m.opt.MarshalStreams {
			return m.marshalError("streams are not written", v)
		}
		_ = m.w.WriteByte('"')
		enc := base64.NewEncoder(base64.StdEncoding, m.w)
		if _, err := io.Copy(enc, x); err != nil {
			return m.ioError(err)
		}
		if err := enc.Close(); err != nil {
			return m.ioError(err)
		}
		_ = m.w.WriteByte('"')
		return nil
	}
	if f != nil {
		if st, ok := f.Simple(); ok && st.Accepts(v) {
			s, err := st.Marshal(v)
			if err != nil {
				return m.marshalError(err.Error(), v)
			}
			m.str(s)
			return nil
		}
	}
	if n, ok := m.opt.wrap(v); ok {
		return m.marshalNode(n, depth, "")
	}
	if seq, ok := m.opt.sequence(v); ok {
		_ = m.w.WriteByte('[')
		for i, e := range seq {
			if i > 0 {
				_, _ = m.w.WriteString(", ")
			}
			m.path.pushIndex(i)
			err := m.marshalValue(f, e, depth)
			m.path.popIndex()
			if err != nil {
				return err
			}
		}
		_ = m.w.WriteByte(']')
		return nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		m.str(s.String())
		return nil
	}
	return m.marshalError(fmt.Sprintf("can not write a value of type %T", v), v)
}

// marshalMap writes a plain map with its keys sorted.
func (m *marshaller) marshalMap(x map[string]any, depth int) error {
	keys := make([]string, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	_ = m.w.WriteByte('{')
	first := true
	for _, k := range keys {
		m.path.pushField(k)
		m.member(&first, depth, k)
		err := m.marshalValue(nil, x[k], depth+1)
		m.path.popField()
		if err != nil {
			return err
		}
	}
	m.close(first, depth, '}')
	return nil
}

func (m *marshaller) marshalError(msg string, v any) error {
	path := m.path.Pointer()
	return Issues{{
		Path:    path,
		Code:    CodeMarshal,
		Message: msg,
		Offset:  -1,
		Params:  map[string]any{"path": path, "value": truncateValue(v)},
	}}
}

func (m *marshaller) ioError(err error) error {
	return Issues{{Path: m.path.Pointer(), Code: CodeIO, Message: "write failed", Cause: err, Offset: -1}}
}

func truncateValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) > 64 {
		s = strings.ToValidUTF8(s[:64], "") + "..."
	}
	return s
}
