package content_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/schema"
)

func TestNode_OrderAndLists(t *testing.T) {
	typ := schema.MustComplex("t")
	n := content.New(typ)
	require.Same(t, typ, n.Type())

	n.Set("b", "x")
	n.SetIndex("a", 2, int64(3))
	n.Append("a", int64(4))
	n.Set("b", "y")

	require.Equal(t, []string{"b", "a"}, n.Keys())
	require.Equal(t, []any{nil, nil, int64(3), int64(4)}, n.List("a"))
	require.Equal(t, 4, n.Len("a"))
	require.Equal(t, 1, n.Len("b"))
	require.Equal(t, 0, n.Len("zzz"))

	n.Delete("b")
	require.Equal(t, []string{"a"}, n.Keys())
	require.False(t, n.Has("b"))
}

func TestNode_SetIndexPromotesScalar(t *testing.T) {
	n := content.New(schema.MustComplex("t"))
	n.Set("v", "first")
	n.SetIndex("v", 1, "second")
	require.Equal(t, []any{"first", "second"}, n.List("v"))
}

func TestNode_ToMap(t *testing.T) {
	inner := content.New(schema.MustComplex("inner"))
	inner.Set("apiKey", "testcase")
	n := content.New(schema.MustComplex("outer"))
	n.Set("configuration", inner)
	n.Append("tags", "a")
	n.Set("n", content.Number("1.5"))

	want := map[string]any{
		"configuration": map[string]any{"apiKey": "testcase"},
		"tags":          []any{"a"},
		"n":             content.Number("1.5"),
	}
	if diff := cmp.Diff(want, n.ToMap()); diff != "" {
		t.Fatalf("ToMap mismatch (-want +got):\n%s", diff)
	}
}

func TestNode_Rows(t *testing.T) {
	n := content.New(schema.MustComplex("t"))
	n.SetRows("m", []int{2, 2})
	require.Equal(t, []int{2, 2}, n.Rows("m"))
	n.Set("m", []any{1, 2, 3, 4})
	n.Delete("m")
	require.Nil(t, n.Rows("m"))
}
