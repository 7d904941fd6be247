package bean_test

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/bean"
	"github.com/reoring/jsonbind/schema"
)

type Employee struct {
	Name   string          `json:"name"`
	Age    int             `json:"age,omitempty"`
	Tags   []string        `json:"tags,omitempty"`
	Salary decimal.Decimal `json:"salary"`
	secret string
}

type Company struct {
	Name      string         `json:"name"`
	Employees []Employee     `json:"employees"`
	Meta      map[string]any `json:"meta,omitempty"`
	Ignored   string         `json:"-"`
}

type Tree struct {
	Label    string  `json:"label"`
	Children []*Tree `json:"children,omitempty"`
}

func TestKey(t *testing.T) {
	typ := reflect.TypeOf(struct {
		A string `json:"a"`
		B string `json:",omitempty"`
		C string `json:"-"`
		D string
	}{})
	want := []string{"a", "B", "-", "D"}
	for i, w := range want {
		if got := bean.Key(typ.Field(i)); got != w {
			t.Fatalf("field %d: got %q want %q", i, got, w)
		}
	}
}

func TestTypeOf(t *testing.T) {
	w := bean.NewWrapper()
	c, err := bean.TypeOf[Company](w)
	require.NoError(t, err)
	require.Equal(t, "company", c.Name())
	require.Equal(t, 3, c.Len())
	emps := c.Get("employees")
	require.True(t, emps.List)
	et, ok := emps.Complex()
	require.True(t, ok)
	require.Same(t, schema.Decimal, et.Get("salary").Type)
	require.Same(t, schema.String, et.Get("tags").Type)
	require.True(t, et.Get("tags").List)
	require.Same(t, schema.Map, c.Get("meta").Type)

	again, err := bean.TypeOf[*Company](w)
	require.NoError(t, err)
	require.Same(t, c, again)

	tree, err := bean.TypeOf[Tree](w)
	require.NoError(t, err)
	require.Same(t, tree, tree.Get("children").Type)

	_, err = bean.TypeOf[int](w)
	require.Error(t, err)
}

func TestMarshalAndDecode(t *testing.T) {
	w := bean.NewWrapper()
	c, err := bean.TypeOf[Company](w)
	require.NoError(t, err)
	b := jsonbind.NewBinding(c, jsonbind.WithWrapper(w), jsonbind.WithSequences(w))

	in := Company{
		Name: "acme",
		Employees: []Employee{
			{Name: "ann", Age: 30, Tags: []string{"a"}, Salary: decimal.RequireFromString("10.50")},
			{Name: "bob", Salary: decimal.NewFromInt(7)},
		},
		Ignored: "x",
	}
	n, ok := w.AsContentNode(&in)
	require.True(t, ok)
	out, err := b.MarshalBytes(n)
	require.NoError(t, err)
	require.Equal(t, `{"name": "acme", "employees": [{"name": "ann", "age": 30, "tags": ["a"], "salary": 10.5}, {"name": "bob", "salary": 7}]}`, string(out))

	parsed, err := b.UnmarshalBytes(out)
	require.NoError(t, err)
	var got Company
	require.NoError(t, bean.Decode(parsed, &got))

	in.Ignored = ""
	opts := cmp.Options{
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmp.AllowUnexported(Employee{}),
	}
	if diff := cmp.Diff(in, got, opts); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestAsContentNode_NotApplicable(t *testing.T) {
	w := bean.NewWrapper()
	for _, v := range []any{nil, 3, "x", (*Company)(nil), decimal.NewFromInt(1)} {
		if _, ok := w.AsContentNode(v); ok {
			t.Fatalf("%T should not wrap", v)
		}
	}
	if _, ok := w.AsSequence([]byte("raw")); ok {
		t.Fatalf("[]byte is a scalar, not a sequence")
	}
	seq, ok := w.AsSequence([2]int{1, 2})
	require.True(t, ok)
	require.Equal(t, []any{int64(1), int64(2)}, seq)
}

func TestRegister(t *testing.T) {
	w := bean.NewWrapper()
	custom := schema.MustComplex("person", schema.NewField("name", schema.String))
	w.Register(reflect.TypeOf(Employee{}), custom)
	n, ok := w.AsContentNode(Employee{Name: "ann", Age: 3})
	require.True(t, ok)
	require.Same(t, custom, n.Type())
	require.Equal(t, []string{"name"}, n.Keys())
}
