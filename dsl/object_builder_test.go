package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/codec"
	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/dsl"
	"github.com/reoring/jsonbind/schema"
)

func TestObject_BuildAndBind(t *testing.T) {
	employee := dsl.Object("employee").
		Field("name", dsl.String()).
		Field("age", dsl.Long()).Optional().
		MustBuild()
	company := dsl.Object("company").
		Field("name", dsl.String()).Alias("company_name").
		Field("employees", employee).List().Optional().
		KeyValues("properties").
		MustBuild()

	require.Equal(t, 3, company.Len())
	require.Equal(t, "company_name", company.Get("name").Alias)
	require.True(t, company.Get("employees").List)
	require.False(t, company.Get("employees").Required())
	require.NotNil(t, schema.KeyValueField(company))

	b := jsonbind.NewBinding(company)
	n, err := b.UnmarshalBytes([]byte(`{"company_name": "acme", "employees": [{"name": "ann", "age": 30}], "region": "eu"}`))
	require.NoError(t, err)
	require.Equal(t, "acme", n.Get("name"))
	require.Equal(t, int64(30), n.List("employees")[0].(*content.Node).Get("age"))
	require.Equal(t, "region", n.List("properties")[0].(*content.Node).Get("key"))
}

func TestObject_Recursive(t *testing.T) {
	node := dsl.Object("node").Field("label", dsl.String()).MustBuild()
	dsl.Extend(node).Field("children", node).List().Optional().MustBuild()

	b := jsonbind.NewBinding(node)
	n, err := b.UnmarshalBytes([]byte(`{"label": "root", "children": [{"label": "a", "children": [{"label": "b"}]}]}`))
	require.NoError(t, err)
	a := n.List("children")[0].(*content.Node)
	require.Equal(t, "b", a.List("children")[0].(*content.Node).Get("label"))
}

func TestObject_Validation(t *testing.T) {
	entry := dsl.Object("entry").Field("value", dsl.String()).MustBuild()
	_, err := dsl.Object("settings").Field("entries", entry).DynamicName("name").Build()
	require.Error(t, err)
	require.True(t, jsonbind.IsCode(err, jsonbind.CodeSchemaMismatch))

	_, err = dsl.Object("table").Field("rows", entry).Matrix().Build()
	require.Error(t, err)

	_, err = dsl.Object("dup").Field("a", dsl.String()).Field("a", dsl.Long()).Build()
	require.ErrorIs(t, err, schema.ErrDuplicateField)
}

func TestObject_DynamicAndCustom(t *testing.T) {
	upper := dsl.Custom[string]("id", codec.Identity())
	open := dsl.Object("open").Dynamic().Field("id", upper).MustBuild()
	require.True(t, open.Dynamic())

	b := jsonbind.NewBinding(open)
	n, err := b.UnmarshalBytes([]byte(`{"id": "x1", "extra": 2}`))
	require.NoError(t, err)
	require.Equal(t, "x1", n.Get("id"))
	require.Equal(t, content.Number("2"), n.Get("extra"))
	require.NotNil(t, open.Get("extra"))
}
