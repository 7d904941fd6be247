package jsonbind_test

import (
	"fmt"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/dsl"
)

func ExampleNewBinding() {
	employee := dsl.Object("employee").
		Field("name", dsl.String()).
		Field("age", dsl.Long()).Optional().
		MustBuild()
	company := dsl.Object("company").
		Field("name", dsl.String()).
		Field("employees", employee).List().Optional().
		MustBuild()

	b := jsonbind.NewBinding(company)
	n, err := b.UnmarshalBytes([]byte(`{"name":"acme","employees":[{"name":"ann","age":30},{"name":"bob"}]}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	out, _ := b.MarshalBytes(n)
	fmt.Println(string(out))
	// Output: {"name": "acme", "employees": [{"name": "ann", "age": 30}, {"name": "bob"}]}
}

func ExampleBinding_Unmarshal_window() {
	b := jsonbind.NewBinding(companyType())
	n, err := b.UnmarshalBytes([]byte(employeesDoc(100)), jsonbind.Window{Path: "employees", Offset: 40, Limit: 2})
	if err != nil {
		fmt.Println(err)
		return
	}
	out, _ := b.MarshalBytes(n)
	fmt.Println(string(out))
	// Output: {"name": "acme", "employees": [{"name": "e40", "age": 60}, {"name": "e41", "age": 61}]}
}

func ExampleNewDynamicBinding() {
	b := jsonbind.NewDynamicBinding(nil)
	n, err := b.UnmarshalBytes([]byte(`{"id": 7, "tags": ["a", "b"]}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(b.Root().Get("tags").List, n.Get("id"))
	// Output: true 7
}

func ExampleAsIssues() {
	b := jsonbind.NewBinding(companyType())
	_, err := b.UnmarshalBytes([]byte(`{"name": "acme", "staff": []}`))
	iss, _ := jsonbind.AsIssues(err)
	fmt.Println(iss[0].Code, iss[0].Path)
	// Output: unknown_key /staff
}
