package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonbind"
)

func TestParseWindow(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want jsonbind.Window
		err  bool
	}{
		{in: "employees:3:2", want: jsonbind.Window{Path: "employees", Offset: 3, Limit: 2}},
		{in: "company/employees:10", want: jsonbind.Window{Path: "company/employees", Offset: 10}},
		{in: "employees", err: true},
		{in: ":1:1", err: true},
		{in: "employees:x", err: true},
		{in: "employees:-1:1", err: true},
		{in: "employees:1:y", err: true},
		{in: "a:1:2:3", err: true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseWindow(tc.in)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEscapeCommand(t *testing.T) {
	cmd := &escapeCommand{}
	f := false
	tr := true
	cmd.reverse, cmd.raw, cmd.allowNil, cmd.decode = &f, &f, &f, &f
	require.Equal(t, `a\"b\/c\n`, cmd.apply("a\"b/c\n"))

	cmd.raw = &tr
	require.Equal(t, `a/b`, cmd.apply("a/b"))

	cmd.reverse = &tr
	require.Equal(t, "a\"b/c\n", cmd.apply(`a\"b\/c\n`))
}

func TestBindingFromFlags(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(schemaFile, []byte(`
root: company
types:
  - name: company
    fields:
      - {name: name, type: string}
      - {name: employees, type: employee, list: true}
  - name: employee
    fields:
      - {name: name, type: string}
`), 0o600))

	app := kingpin.New("test", "")
	g := &globalFlags{logLevel: ptr("error"), lang: ptr("en")}
	cmd := &validateCommand{g: g}
	c := app.Command("validate", "")
	cmd.flags = addBindingFlags(c)
	cmd.files = c.Arg("file", "").Strings()

	_, err := app.Parse([]string{"validate", "--schema", schemaFile, "--strict", "--window", "employees:1:1"})
	require.NoError(t, err)

	b, err := cmd.flags.binding(g)
	require.NoError(t, err)
	require.Equal(t, "company", b.Root().Name())
	require.True(t, b.Options().Strict)

	windows, err := cmd.flags.parsedWindows()
	require.NoError(t, err)
	require.Equal(t, []jsonbind.Window{{Path: "employees", Offset: 1, Limit: 1}}, windows)

	n, err := b.Unmarshal(bytes.NewReader([]byte(`{"name": "acme", "employees": [{"name": "a"}, {"name": "b"}, {"name": "c"}]}`)), windows...)
	require.NoError(t, err)
	out, err := b.MarshalBytes(n)
	require.NoError(t, err)
	require.Equal(t, `{"name": "acme", "employees": [{"name": "b"}]}`, string(out))
}

func ptr[T any](v T) *T { return &v }
