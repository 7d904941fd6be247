// Package jsonbind reads and writes JSON documents against a declared type
// model.
//
// - A Binding pairs a root schema.Complex with Options and is safe to share
// - Unmarshal streams a document into a content.Node tree, honouring aliases,
//   camel casing, windows over repeating fields, matrices and dynamic fields
// - Marshal writes a tree back, compact or pretty, with key/value lists and
//   dynamic-name lists folded into plain objects
// - Failures are Issues (JSON Pointer, code, message, byte offset)
//
// Design policy:
// - Keep only public APIs in the root package; put the reader under internal/.
// - Types live in schema/, trees in content/, scalar codecs in codec/ and the
//   CLI under cmd/jsonbind.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg, err := schema.LoadYAML(f)
//	b := jsonbind.NewBinding(reg.Root(), jsonbind.WithParseNumbers())
//	n, err := b.Unmarshal(r, jsonbind.Window{Path: "company/employees", Offset: 3, Limit: 3})
//	err = b.Marshal(w, n)
package jsonbind
