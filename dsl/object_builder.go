package dsl

import (
	"github.com/pkg/errors"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/i18n"
	"github.com/reoring/jsonbind/schema"
)

type objectBuilder struct {
	name    string
	dynamic bool
	fields  []*schema.Field
	into    *schema.Complex
}

type fieldStep struct {
	b *objectBuilder
	f *schema.Field
}

// Object starts a composite type. Fields are required unless marked
// Optional.
func Object(name string) *objectBuilder {
	return &objectBuilder{name: name}
}

// Extend adds fields to an existing type, the way to close a recursive
// declaration.
func Extend(c *schema.Complex) *objectBuilder {
	return &objectBuilder{name: c.Name(), into: c}
}

// Dynamic marks the type as open: keys it does not declare become fields.
func (b *objectBuilder) Dynamic() *objectBuilder {
	b.dynamic = true
	return b
}

// Field registers a field of type t.
func (b *objectBuilder) Field(name string, t schema.Type) *fieldStep {
	f := schema.NewField(name, t)
	b.fields = append(b.fields, f)
	return &fieldStep{b: b, f: f}
}

// KeyValues registers the repeating {key, value} field that receives keys
// the type does not declare.
func (b *objectBuilder) KeyValues(name string) *fieldStep {
	return b.Field(name, schema.NewKeyValuePair()).List().Optional()
}

// List makes the field repeating.
func (s *fieldStep) List() *fieldStep {
	s.f.List = true
	return s
}

// Matrix makes the field a repeating field written as an array of arrays.
func (s *fieldStep) Matrix() *fieldStep {
	s.f.List = true
	s.f.Matrix = true
	return s
}

// Alias sets the name used in documents.
func (s *fieldStep) Alias(alias string) *fieldStep {
	s.f.Alias = alias
	return s
}

// DynamicName makes each element of the list a member of the parent object
// keyed by the element's field key.
func (s *fieldStep) DynamicName(key string) *fieldStep {
	s.f.List = true
	s.f.DynamicName = key
	return s
}

func (s *fieldStep) Optional() *fieldStep {
	s.f.MinOccurs = 0
	return s
}

func (s *fieldStep) Required() *fieldStep {
	if s.f.MinOccurs == 0 {
		s.f.MinOccurs = 1
	}
	return s
}

func (s *fieldStep) MinOccurs(n int) *fieldStep {
	s.f.MinOccurs = n
	return s
}

func (s *fieldStep) Field(name string, t schema.Type) *fieldStep { return s.b.Field(name, t) }
func (s *fieldStep) KeyValues(name string) *fieldStep         { return s.b.KeyValues(name) }
func (s *fieldStep) Build() (*schema.Complex, error)          { return s.b.Build() }
func (s *fieldStep) MustBuild() *schema.Complex               { return s.b.MustBuild() }

// Build checks the declaration and returns the type.
func (b *objectBuilder) Build() (*schema.Complex, error) {
	var iss jsonbind.Issues
	for _, f := range b.fields {
		if msg := checkField(f); msg != "" {
			iss = jsonbind.AppendIssues(iss, jsonbind.Issue{
				Path:    "/" + b.name + "/" + f.Name,
				Code:    jsonbind.CodeSchemaMismatch,
				Message: i18n.T(jsonbind.CodeSchemaMismatch, map[string]string{"field": f.Name}),
				Hint:    msg,
				Offset:  -1,
			})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	c := b.into
	if c == nil {
		if b.dynamic {
			c = schema.NewDynamic(b.name)
		} else {
			var err error
			if c, err = schema.NewComplex(b.name); err != nil {
				return nil, err
			}
		}
	}
	for _, f := range b.fields {
		if err := c.Add(f); err != nil {
			return nil, errors.Wrapf(err, "dsl: building %s", b.name)
		}
	}
	return c, nil
}

// MustBuild is Build that panics on error.
func (b *objectBuilder) MustBuild() *schema.Complex {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func checkField(f *schema.Field) string {
	if f.Type == nil {
		return "missing type"
	}
	if f.DynamicName != "" {
		et, ok := f.Complex()
		if !ok {
			return "a dynamic name needs a composite element type"
		}
		if et.Get(f.DynamicName) == nil {
			return "element type " + et.Name() + " has no field " + f.DynamicName
		}
	}
	if f.Matrix {
		if et, ok := f.Complex(); ok && len(et.ListFields()) == 0 {
			return "matrix row type " + et.Name() + " has no list field"
		}
	}
	return ""
}
