package schema

// Canonical key/value element field names.
const (
	KeyField   = "key"
	ValueField = "value"
)

// NewKeyValuePair returns the canonical {key, value} element type.
func NewKeyValuePair() *Complex {
	value := NewField(ValueField, String)
	value.MinOccurs = 0
	return MustComplex("keyValuePair", NewField(KeyField, String), value)
}

// IsKeyValue reports whether t fits inside the canonical {key, value} shape:
// it has a scalar key and nothing besides key and value.
func IsKeyValue(t Type) bool {
	c, ok := t.(*Complex)
	if !ok {
		return false
	}
	hasKey := false
	for _, f := range c.Fields() {
		if f.List {
			return false
		}
		if _, simple := f.Simple(); !simple {
			return false
		}
		switch f.Name {
		case KeyField:
			hasKey = true
		case ValueField:
		default:
			return false
		}
	}
	return hasKey
}

// KeyValueField returns the single repeating key/value field of c, or nil
// when there is none or more than one.
func KeyValueField(c *Complex) *Field {
	var found *Field
	for _, f := range c.ListFields() {
		if IsKeyValue(f.Type) {
			if found != nil {
				return nil
			}
			found = f
		}
	}
	return found
}

// DynamicNameField returns the first repeating complex field of c that
// carries a dynamic name.
func DynamicNameField(c *Complex) *Field {
	for _, f := range c.ListFields() {
		if _, ok := f.Complex(); ok && f.DynamicName != "" {
			return f
		}
	}
	return nil
}
