package schema

import (
	"github.com/goccy/go-json"

	js "github.com/reoring/jsonbind/jsonschema"
)

// ExportOptions tunes ToJSONSchema.
type ExportOptions struct {
	// UseAlias names properties by their alias when one is set.
	UseAlias bool
}

// ToJSONSchema describes the wire shape of c as a JSON Schema document.
func ToJSONSchema(c *Complex, opt ExportOptions) *js.Schema {
	out := exportComplex(c, opt, map[*Complex]bool{})
	out.Dialect = js.Draft
	return out
}

// MarshalJSONSchema renders ToJSONSchema as indented JSON.
func MarshalJSONSchema(c *Complex, opt ExportOptions) ([]byte, error) {
	return json.MarshalIndent(ToJSONSchema(c, opt), "", "  ")
}

func exportComplex(c *Complex, opt ExportOptions, seen map[*Complex]bool) *js.Schema {
	out := &js.Schema{Title: c.Name(), Type: "object"}
	if seen[c] {
		// recursive reference; stop at an open object
		return out
	}
	seen[c] = true
	defer delete(seen, c)
	if !c.Dynamic() {
		out.AdditionalProperties = false
	}
	for _, f := range c.Fields() {
		if out.Properties == nil {
			out.Properties = map[string]*js.Schema{}
		}
		name := f.WireName(opt.UseAlias)
		prop := exportField(f, opt, seen)
		switch {
		case f.Alias == "":
		case opt.UseAlias:
			prop.Description = "field " + f.Name
		default:
			prop.Description = "also read as " + f.Alias
		}
		out.Properties[name] = prop
		if f.Required() {
			out.Required = append(out.Required, name)
		}
	}
	return out
}

func exportField(f *Field, opt ExportOptions, seen map[*Complex]bool) *js.Schema {
	var item *js.Schema
	switch t := f.Type.(type) {
	case *Complex:
		item = exportComplex(t, opt, seen)
		if f.DynamicName != "" && f.List {
			// written as an object keyed by the dynamic name child
			delete(item.Properties, f.DynamicName)
			item.Required = without(item.Required, f.DynamicName)
			return &js.Schema{Type: "object", Description: "keyed by " + f.DynamicName, AdditionalProperties: item}
		}
	case *Simple:
		item = exportSimple(t)
	default:
		item = &js.Schema{}
	}
	if !f.List {
		return item
	}
	if f.Matrix {
		item = &js.Schema{Type: "array", Items: item}
	}
	arr := &js.Schema{Type: "array", Items: item}
	if f.MinOccurs > 0 {
		n := f.MinOccurs
		arr.MinItems = &n
	}
	return arr
}

func exportSimple(s *Simple) *js.Schema {
	switch s.Kind() {
	case KindBoolean:
		return &js.Schema{Type: "boolean"}
	case KindLong:
		return &js.Schema{Type: "integer", Format: "int64"}
	case KindBigInteger:
		return &js.Schema{Type: "integer"}
	case KindDouble:
		return &js.Schema{Type: "number", Format: "double"}
	case KindDecimal, KindNumber:
		return &js.Schema{Type: "number"}
	case KindBytes:
		return &js.Schema{Type: "string", Format: "byte"}
	case KindDateTime:
		return &js.Schema{Type: "string", Format: "date-time"}
	case KindMap:
		return &js.Schema{Type: "object", AdditionalProperties: true}
	case KindAny:
		return &js.Schema{}
	}
	return &js.Schema{Type: "string"}
}

func without(list []string, name string) []string {
	out := list[:0:0]
	for _, s := range list {
		if s != name {
			out = append(out, s)
		}
	}
	return out
}
