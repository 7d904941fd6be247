// Package dsl declares jsonbind types in code.
//
// Overview
//   - Builder API: Object(name).Field(name, type) followed by field modifiers
//     (List/Matrix/Alias/DynamicName/Optional/MinOccurs), then Build/MustBuild.
//   - Scalars: String()/Long()/Double()/Decimal()/Number()/Bool()/Bytes()/
//     DateTime()/Any()/Map() and Custom for codec-backed types.
//   - KeyValues(name) declares the repeating {key, value} field that collects
//     unknown keys.
//   - Recursive types: build the outer type first and Extend it afterwards.
//
// Example
//
//	employee := dsl.Object("employee").
//	    Field("name", dsl.String()).
//	    Field("age", dsl.Long()).Optional().
//	    MustBuild()
//	company := dsl.Object("company").
//	    Field("name", dsl.String()).
//	    Field("employees", employee).List().Optional().
//	    MustBuild()
//	b := jsonbind.NewBinding(company)
package dsl
