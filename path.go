package jsonbind

import (
	"strconv"
	"strings"
)

// pathStack tracks where the parser or serializer currently is, both as a
// JSON Pointer for issues and as a schema path for windows.
type pathStack struct {
	parts []string
	// names holds only field names: no indices.
	names []string
}

func (p *pathStack) pushField(name string) { p.pushMember(name, name) }

// pushMember enters a field known as wire in the document and as name in
// the schema.
func (p *pathStack) pushMember(wire, name string) {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(wire, "~", "~0"), "/", "~1")
	p.parts = append(p.parts, esc)
	p.names = append(p.names, name)
}

func (p *pathStack) popField() {
	p.parts = p.parts[:len(p.parts)-1]
	p.names = p.names[:len(p.names)-1]
}

func (p *pathStack) pushIndex(i int) { p.parts = append(p.parts, strconv.Itoa(i)) }

func (p *pathStack) popIndex() { p.parts = p.parts[:len(p.parts)-1] }

// Pointer renders the current position as a JSON Pointer.
func (p *pathStack) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// schemaPath joins the field names from the root down, without indices.
func (p *pathStack) schemaPath() string { return strings.Join(p.names, "/") }
