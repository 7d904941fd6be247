// Package bean binds Go structs to jsonbind types: it derives schema types
// from struct declarations, wraps struct values as content nodes for
// marshalling and decodes parsed nodes back into structs.
package bean

import (
	"math/big"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/schema"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	bigIntType  = reflect.TypeOf(big.Int{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	numberType  = reflect.TypeOf(content.Number(""))
	bytesType   = reflect.TypeOf([]byte(nil))
)

// Key resolves a struct field's document key.
// Priority: json tag name > field name; "-" disables the field.
func Key(sf reflect.StructField) string {
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

func omitEmpty(sf reflect.StructField) bool {
	return strings.Contains(sf.Tag.Get("json"), ",omitempty")
}

// Wrapper implements jsonbind.ObjectWrapper and jsonbind.SequenceAdapter for
// Go structs, slices and maps. Derived types are cached per Go type.
type Wrapper struct {
	mu    sync.Mutex
	types map[reflect.Type]*schema.Complex
}

// NewWrapper returns an empty Wrapper.
func NewWrapper() *Wrapper {
	return &Wrapper{types: map[reflect.Type]*schema.Complex{}}
}

// Register pins the schema type used for Go type t instead of a derived one.
func (w *Wrapper) Register(t reflect.Type, c *schema.Complex) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.types[indirect(t)] = c
}

// TypeOf derives the composite type of struct T.
func TypeOf[T any](w *Wrapper) (*schema.Complex, error) {
	return w.TypeFor(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeFor returns the composite type of struct type t.
func (w *Wrapper) TypeFor(t reflect.Type) (*schema.Complex, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.typeFor(indirect(t))
}

func (w *Wrapper) typeFor(t reflect.Type) (*schema.Complex, error) {
	if c, ok := w.types[t]; ok {
		return c, nil
	}
	if t.Kind() != reflect.Struct || isScalarStruct(t) {
		return nil, errors.Errorf("bean: %s is not a struct", t)
	}
	c := schema.MustComplex(typeName(t))
	// cached before the fields so self references resolve
	w.types[t] = c
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := Key(sf)
		if key == "-" {
			continue
		}
		f, err := w.fieldFor(key, sf.Type)
		if err != nil {
			delete(w.types, t)
			return nil, errors.Wrapf(err, "bean: field %s.%s", t.Name(), sf.Name)
		}
		if err := c.Add(f); err != nil {
			delete(w.types, t)
			return nil, err
		}
	}
	return c, nil
}

func (w *Wrapper) fieldFor(key string, t reflect.Type) (*schema.Field, error) {
	f := &schema.Field{Name: key}
	if t != bytesType && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		f.List = true
		t = t.Elem()
		if t != bytesType && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
			f.Matrix = true
			t = t.Elem()
		}
	}
	typ, err := w.typeOfValue(t)
	if err != nil {
		return nil, err
	}
	f.Type = typ
	return f, nil
}

func (w *Wrapper) typeOfValue(t reflect.Type) (schema.Type, error) {
	if t == bytesType {
		return schema.Bytes, nil
	}
	t = indirect(t)
	switch t {
	case timeType:
		return schema.DateTime, nil
	case bigIntType:
		return schema.BigInteger, nil
	case decimalType:
		return schema.Decimal, nil
	case numberType:
		return schema.Number, nil
	}
	switch t.Kind() {
	case reflect.String:
		return schema.String, nil
	case reflect.Bool:
		return schema.Boolean, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return schema.Long, nil
	case reflect.Float32, reflect.Float64:
		return schema.Double, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, errors.Errorf("map key %s is not a string", t.Key())
		}
		return schema.Map, nil
	case reflect.Interface:
		return schema.Any, nil
	case reflect.Struct:
		return w.typeFor(t)
	}
	return nil, errors.Errorf("unsupported type %s", t)
}

// AsContentNode wraps a struct (or pointer to one) as a node of its derived
// type. Nested structs and slices stay Go values and are wrapped as the
// marshaller reaches them.
func (w *Wrapper) AsContentNode(v any) (*content.Node, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || isScalarStruct(rv.Type()) {
		return nil, false
	}
	c, err := w.TypeFor(rv.Type())
	if err != nil {
		return nil, false
	}
	n := content.New(c)
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		key := Key(sf)
		if !sf.IsExported() || key == "-" || c.Get(key) == nil {
			continue
		}
		fv := rv.Field(i)
		if fv.IsZero() && (omitEmpty(sf) || fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface) {
			continue
		}
		if x := plainValue(fv); x != nil {
			n.Set(key, x)
		}
	}
	return n, true
}

// AsSequence lists the elements of a slice or array other than []byte.
func (w *Wrapper) AsSequence(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type() == bytesType {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = plainValue(rv.Index(i))
	}
	return out, true
}

// plainValue unwraps named basic kinds into the Go types the codecs use.
func plainValue(v reflect.Value) any {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		if v.Kind() == reflect.Pointer && v.Type().Elem() == bigIntType {
			return v.Interface()
		}
		v = v.Elem()
	}
	switch v.Type() {
	case bytesType, timeType, decimalType, numberType:
		return v.Interface()
	case bigIntType:
		b := v.Interface().(big.Int)
		return &b
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = plainValue(iter.Value())
		}
		return out
	}
	return v.Interface()
}

// Decode copies a parsed node into out, a pointer to a struct, matching
// keys against json tags. Number literals convert into numeric fields.
func Decode(n *content.Node, out any) error {
	if n == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       numberHook,
	})
	if err != nil {
		return errors.Wrap(err, "bean: decoder")
	}
	return errors.Wrap(dec.Decode(n.ToMap()), "bean: decode")
}

// numberHook turns arbitrary precision values into the numeric kind of the
// target field.
func numberHook(from, to reflect.Type, data any) (any, error) {
	switch x := data.(type) {
	case *big.Int:
		if to.Kind() == reflect.String {
			return x.String(), nil
		}
		if to.Kind() >= reflect.Int && to.Kind() <= reflect.Float64 && x.IsInt64() {
			return x.Int64(), nil
		}
	case decimal.Decimal:
		if to.Kind() == reflect.String {
			return x.String(), nil
		}
		if to.Kind() == reflect.Float32 || to.Kind() == reflect.Float64 {
			f, _ := x.Float64()
			return f, nil
		}
	}
	return data, nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func isScalarStruct(t reflect.Type) bool {
	return t == timeType || t == bigIntType || t == decimalType
}

func typeName(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		return "anonymous"
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
