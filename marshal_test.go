package jsonbind_test

import (
	"bytes"
	"errors"
	"iter"
	"math"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/content"
	"github.com/reoring/jsonbind/schema"
)

func TestMarshal_Nil(t *testing.T) {
	out, err := jsonbind.NewBinding(companyType()).MarshalBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestMarshal_MissingRequired(t *testing.T) {
	root := schema.MustComplex("doc",
		schema.NewField("name", schema.String),
		schema.NewListField("tags", schema.String),
		optional(schema.NewField("note", schema.String)))
	n := content.New(root)

	out, err := jsonbind.NewBinding(root).MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, `{"name": null, "tags": []}`, string(out))

	out, err = jsonbind.NewBinding(root, jsonbind.WithMissingRequired(false)).MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestMarshal_ListFieldHostValues(t *testing.T) {
	root := schema.MustComplex("doc",
		optional(schema.NewListField("tags", schema.String)),
		optional(schema.NewListField("ids", schema.Long)))
	n := content.New(root)
	n.Set("tags", "solo")
	n.Set("ids", int64(4))
	out, err := jsonbind.NewBinding(root).MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, `{"tags": ["solo"], "ids": [4]}`, string(out))

	for _, required := range []bool{false, true} {
		tags := schema.NewListField("tags", schema.String)
		if !required {
			tags.MinOccurs = 0
		}
		doc := schema.MustComplex("doc", tags)
		n := content.New(doc)
		n.Set("tags", []string{"a", "b"})

		_, err := jsonbind.NewBinding(doc).MarshalBytes(n)
		iss, ok := jsonbind.AsIssues(err)
		require.True(t, ok, "required=%v: %v", required, err)
		assert.Equal(t, jsonbind.CodeMarshal, iss[0].Code)
		assert.Equal(t, "/tags", iss[0].Path)

		strs := jsonbind.SequenceAdapterFunc(func(v any) ([]any, bool) {
			ss, ok := v.([]string)
			if !ok {
				return nil, false
			}
			out := make([]any, len(ss))
			for i, s := range ss {
				out[i] = s
			}
			return out, true
		})
		out, err := jsonbind.NewBinding(doc, jsonbind.WithSequences(strs)).MarshalBytes(n)
		require.NoError(t, err)
		assert.Equal(t, `{"tags": ["a", "b"]}`, string(out))
	}
}

func TestMarshal_PrettyPrint(t *testing.T) {
	item := schema.MustComplex("item", schema.NewField("name", schema.String))
	root := schema.MustComplex("doc", schema.NewField("name", schema.String), schema.NewListField("items", item))
	n := content.New(root)
	n.Set("name", "x")
	it := content.New(item)
	it.Set("name", "a")
	n.Append("items", it)

	out, err := jsonbind.NewBinding(root, jsonbind.WithPrettyPrint()).MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"name\": \"x\",\n\t\"items\": [{\n\t\t\"name\": \"a\"\n\t}]\n}", string(out))
}

func TestMarshal_ScalarsAndMaps(t *testing.T) {
	root := schema.MustComplex("doc",
		optional(schema.NewField("flag", schema.Boolean)),
		optional(schema.NewField("count", schema.Long)),
		optional(schema.NewField("ratio", schema.Double)),
		optional(schema.NewField("raw", schema.Number)),
		optional(schema.NewField("config", schema.Map)),
		optional(schema.NewField("blob", schema.Any)))
	n := content.New(root)
	n.Set("flag", true)
	n.Set("count", int64(-3))
	n.Set("ratio", 0.5)
	n.Set("raw", content.Number("1e400"))
	n.Set("config", map[string]any{"z": 1, "a": []any{"x", nil}, "m": map[string]any{"k": false}})
	n.Set("blob", strings.NewReader("hi"))

	out, err := jsonbind.NewBinding(root).MarshalBytes(n)
	require.NoError(t, err)
	doc := string(out)
	assert.True(t, gjson.Valid(doc), doc)
	assert.Equal(t, true, gjson.Get(doc, "flag").Bool())
	assert.Equal(t, int64(-3), gjson.Get(doc, "count").Int())
	assert.Equal(t, "1e400", gjson.Get(doc, "raw").Raw)
	assert.Equal(t, "aGk=", gjson.Get(doc, "blob").String())
	assert.Contains(t, doc, `"config": {"a": ["x", null], "m": {"k": false}, "z": 1}`)
}

func TestMarshal_StreamsDisabled(t *testing.T) {
	root := schema.MustComplex("doc", schema.NewField("blob", schema.Any))
	n := content.New(root)
	n.Set("blob", strings.NewReader("hi"))
	_, err := jsonbind.NewBinding(root, jsonbind.WithStreams(false)).MarshalBytes(n)
	assert.True(t, jsonbind.IsCode(err, jsonbind.CodeMarshal), "got %v", err)
}

func TestMarshal_NonFinite(t *testing.T) {
	root := schema.MustComplex("doc", schema.NewField("ratio", schema.Double))
	n := content.New(root)
	n.Set("ratio", math.NaN())
	_, err := jsonbind.NewBinding(root).MarshalBytes(n)
	require.Error(t, err)
	iss, _ := jsonbind.AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, jsonbind.CodeMarshal, iss[0].Code)
	assert.Equal(t, "/ratio", iss[0].Path)
	assert.Equal(t, "/ratio", iss[0].Params["path"])
}

func TestMarshal_Escaping(t *testing.T) {
	root := schema.MustComplex("doc", schema.NewField("text", schema.String))
	n := content.New(root)
	n.Set("text", "a/b </script> \"q\"\n\t\\")

	b := jsonbind.NewBinding(root)
	out, err := b.MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, `{"text": "a\/b <\/script> \"q\"\n\t\\"}`, string(out))

	raw, err := jsonbind.NewBinding(root, jsonbind.WithAllowRaw()).MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, `{"text": "a/b <\/script> \"q\"\n\t\\"}`, string(raw))

	back, err := b.UnmarshalBytes(out)
	require.NoError(t, err)
	assert.Equal(t, n.Get("text"), back.Get("text"))
}

func TestMarshal_NulDroppedWithWarning(t *testing.T) {
	root := schema.MustComplex("doc", schema.NewField("text", schema.String))
	n := content.New(root)
	n.Set("text", "a\x00b")

	var logs bytes.Buffer
	out, err := jsonbind.NewBinding(root, jsonbind.WithLogger(log.NewLogfmtLogger(&logs))).MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, `{"text": "ab"}`, string(out))
	assert.Contains(t, logs.String(), "level=warn")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestMarshal_WriteFailure(t *testing.T) {
	b := jsonbind.NewBinding(companyType())
	n, err := b.UnmarshalBytes([]byte(employeesDoc(2)))
	require.NoError(t, err)
	err = b.Marshal(failingWriter{}, n)
	assert.True(t, jsonbind.IsCode(err, jsonbind.CodeIO), "got %v", err)
}

type employee struct {
	Name string
	Age  int64
}

func TestMarshal_Adapters(t *testing.T) {
	typ := companyType()
	empType := typ.Get("employees").Type.(*schema.Complex)
	wrapper := jsonbind.ObjectWrapperFunc(func(v any) (*content.Node, bool) {
		e, ok := v.(employee)
		if !ok {
			return nil, false
		}
		n := content.New(empType)
		n.Set("name", e.Name)
		n.Set("age", e.Age)
		return n, true
	})
	seqs := jsonbind.SequenceAdapterFunc(func(v any) ([]any, bool) {
		es, ok := v.([]employee)
		if !ok {
			return nil, false
		}
		out := make([]any, len(es))
		for i, e := range es {
			out[i] = e
		}
		return out, true
	})
	b := jsonbind.NewBinding(typ, jsonbind.WithWrapper(wrapper), jsonbind.WithSequences(seqs))

	n := content.New(typ)
	n.Set("name", "acme")
	n.Set("employees", []employee{{"ann", 30}, {"bob", 41}})
	out, err := b.MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "acme", "employees": [{"name": "ann", "age": 30}, {"name": "bob", "age": 41}]}`, string(out))

	var seq iter.Seq[any] = func(yield func(any) bool) {
		for _, e := range []employee{{"cy", 22}} {
			if !yield(e) {
				return
			}
		}
	}
	n.Set("employees", seq)
	out, err = b.MarshalBytes(n)
	require.NoError(t, err)
	assert.Equal(t, "cy", gjson.GetBytes(out, "employees.0.name").String())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := jsonbind.NewMetrics(reg)
	b := jsonbind.NewBinding(companyType(), jsonbind.WithMetrics(m))

	_, err := b.UnmarshalBytes([]byte(employeesDoc(24)), jsonbind.Window{Path: "employees", Offset: 3, Limit: 3})
	require.NoError(t, err)
	_, err = b.UnmarshalBytes([]byte(`{"bogus": 1}`))
	require.Error(t, err)

	expected := `
# HELP jsonbind_window_skipped_elements_total Array elements read but not kept because of a window.
# TYPE jsonbind_window_skipped_elements_total counter
jsonbind_window_skipped_elements_total 21
# HELP jsonbind_issues_total Failures by issue code.
# TYPE jsonbind_issues_total counter
jsonbind_issues_total{code="unknown_key"} 1
# HELP jsonbind_documents_total Documents processed, by operation and outcome.
# TYPE jsonbind_documents_total counter
jsonbind_documents_total{op="unmarshal",outcome="error"} 1
jsonbind_documents_total{op="unmarshal",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"jsonbind_window_skipped_elements_total", "jsonbind_issues_total", "jsonbind_documents_total"))

	dyn := jsonbind.NewDynamicBinding(nil, jsonbind.WithMetrics(m))
	_, err = dyn.UnmarshalBytes([]byte(`{"a": 1, "b": {"c": true}}`))
	require.NoError(t, err)
	n, err := testutil.GatherAndCount(reg, "jsonbind_dynamic_fields_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
