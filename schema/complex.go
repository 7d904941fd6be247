package schema

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrDuplicateField is returned by Add when the name is already taken.
var ErrDuplicateField = errors.New("schema: duplicate field")

// Complex is a composite type: an ordered set of fields. It doubles as the
// mutable registry that dynamic parsing extends through Add.
type Complex struct {
	name    string
	dynamic bool

	mu     sync.RWMutex
	fields []*Field
	byName map[string]*Field
}

// NewComplex builds a composite type from the given fields.
func NewComplex(name string, fields ...*Field) (*Complex, error) {
	c := &Complex{name: name, byName: map[string]*Field{}}
	for _, f := range fields {
		if err := c.Add(f); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustComplex is NewComplex that panics on error.
func MustComplex(name string, fields ...*Field) *Complex {
	c, err := NewComplex(name, fields...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Complex) Name() string { return c.name }

// Dynamic reports whether the type was produced by a Generator.
func (c *Complex) Dynamic() bool { return c.dynamic }

// Fields returns the fields in declaration order.
func (c *Complex) Fields() []*Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Len returns the number of fields.
func (c *Complex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fields)
}

// Get returns the field with the exact canonical name.
func (c *Complex) Get(name string) *Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byName[name]
}

// Add registers a field. Adding is the only way a type changes shape.
func (c *Complex) Add(f *Field) error {
	if f == nil || f.Name == "" {
		return errors.New("schema: field needs a name")
	}
	if f.Type == nil {
		return errors.Errorf("schema: field %q has no type", f.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byName == nil {
		c.byName = map[string]*Field{}
	}
	if _, dup := c.byName[f.Name]; dup {
		return errors.Wrapf(ErrDuplicateField, "%s.%s", c.name, f.Name)
	}
	f.Parent = c
	c.fields = append(c.fields, f)
	c.byName[f.Name] = f
	return nil
}

// Resolve finds the field a wire name refers to. raw is the name as read,
// name the normalised form. The lookup order is raw name or alias, canonical
// name, then the same two with an "@" prefix.
func (c *Complex) Resolve(raw, name string) *Field {
	if f := c.byRawName(raw); f != nil {
		return f
	}
	if f := c.Get(name); f != nil {
		return f
	}
	if f := c.byRawName("@" + raw); f != nil {
		return f
	}
	return c.Get("@" + name)
}

func (c *Complex) byRawName(raw string) *Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.fields {
		if f.Name == raw || (f.Alias != "" && f.Alias == raw) {
			return f
		}
	}
	return nil
}

// ListFields returns the repeating fields in declaration order.
func (c *Complex) ListFields() []*Field {
	var out []*Field
	for _, f := range c.Fields() {
		if f.List {
			out = append(out, f)
		}
	}
	return out
}
