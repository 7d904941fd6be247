package schema

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Registry is a named set of composite types loaded from a schema document.
type Registry struct {
	root  string
	order []string
	types map[string]*Complex
}

// Root returns the type named by the document's root key, or the first
// declared type.
func (r *Registry) Root() *Complex {
	if r.root != "" {
		return r.types[r.root]
	}
	if len(r.order) > 0 {
		return r.types[r.order[0]]
	}
	return nil
}

// Get returns a declared type by name.
func (r *Registry) Get(name string) *Complex { return r.types[name] }

// Names lists the declared types in document order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

type yamlDocument struct {
	Root  string     `yaml:"root"`
	Types []yamlType `yaml:"types"`
}

type yamlType struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	List        bool   `yaml:"list"`
	Alias       string `yaml:"alias"`
	DynamicName string `yaml:"dynamicName"`
	MinOccurs   *int   `yaml:"minOccurs"`
	Matrix      bool   `yaml:"matrix"`
}

// LoadYAML reads a schema document of the form
//
//	root: company
//	types:
//	  - name: company
//	    fields:
//	      - {name: name, type: string}
//	      - {name: employees, type: employee, list: true, minOccurs: 0}
//	  - name: employee
//	    fields:
//	      - {name: name, type: string}
//
// Field types are built-in scalar names or names of other declared types.
func LoadYAML(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema: empty document")
		}
		return nil, errors.Wrap(err, "schema: decode yaml")
	}
	reg := &Registry{root: doc.Root, types: map[string]*Complex{}}
	// declare first so fields may reference types declared later
	for _, t := range doc.Types {
		if t.Name == "" {
			return nil, errors.New("schema: type without a name")
		}
		if _, dup := reg.types[t.Name]; dup {
			return nil, errors.Errorf("schema: type %q declared twice", t.Name)
		}
		reg.types[t.Name] = &Complex{name: t.Name, byName: map[string]*Field{}}
		reg.order = append(reg.order, t.Name)
	}
	for _, t := range doc.Types {
		c := reg.types[t.Name]
		for _, yf := range t.Fields {
			ft, err := reg.resolveType(yf.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "schema: %s.%s", t.Name, yf.Name)
			}
			f := &Field{
				Name:        yf.Name,
				Type:        ft,
				List:        yf.List || yf.Matrix,
				Alias:       yf.Alias,
				DynamicName: yf.DynamicName,
				MinOccurs:   1,
				Matrix:      yf.Matrix,
			}
			if yf.MinOccurs != nil {
				f.MinOccurs = *yf.MinOccurs
			}
			if err := c.Add(f); err != nil {
				return nil, err
			}
		}
	}
	if doc.Root != "" && reg.types[doc.Root] == nil {
		return nil, errors.Errorf("schema: root type %q is not declared", doc.Root)
	}
	return reg, nil
}

func (r *Registry) resolveType(name string) (Type, error) {
	if name == "" {
		return String, nil
	}
	if c, ok := r.types[name]; ok {
		return c, nil
	}
	if s, ok := LookupSimple(name); ok {
		return s, nil
	}
	return nil, errors.Errorf("unknown type %q", name)
}
