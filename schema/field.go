package schema

// Field describes one named member of a Complex type.
type Field struct {
	Name string
	Type Type
	// List marks repeating fields.
	List bool
	// Alias is the alternative wire name.
	Alias string
	// DynamicName names the child field of a list-of-complex whose value
	// becomes the object key on the wire.
	DynamicName string
	// MinOccurs of 0 makes the field optional; NewField sets it to 1.
	MinOccurs int
	// Matrix marks a list whose wire form is an array of row arrays.
	Matrix bool
	// Parent is set when the field is added to a Complex.
	Parent *Complex
}

// NewField returns a required singular field.
func NewField(name string, t Type) *Field {
	return &Field{Name: name, Type: t, MinOccurs: 1}
}

// NewListField returns a required repeating field.
func NewListField(name string, t Type) *Field {
	return &Field{Name: name, Type: t, List: true, MinOccurs: 1}
}

func (f *Field) IsList() bool { return f.List }

// Required reports whether an absent value must still be written.
func (f *Field) Required() bool { return f.MinOccurs > 0 }

// Complex returns the composite type of the field, if any.
func (f *Field) Complex() (*Complex, bool) {
	c, ok := f.Type.(*Complex)
	return c, ok
}

// Simple returns the scalar type of the field, if any.
func (f *Field) Simple() (*Simple, bool) {
	s, ok := f.Type.(*Simple)
	return s, ok
}

// IsKind reports whether the field is a scalar of kind k.
func (f *Field) IsKind(k Kind) bool {
	s, ok := f.Simple()
	return ok && s.kind == k
}

// WireName is the name written to documents.
func (f *Field) WireName(useAlias bool) string {
	if useAlias && f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Clone returns a copy without a parent.
func (f *Field) Clone() *Field {
	c := *f
	c.Parent = nil
	return &c
}
