package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	jsoncanonicalizer "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/schema"
)

// bindingFlags are the parse and write switches shared by decode and
// validate.
type bindingFlags struct {
	schemaFile   *string
	dynamic      *bool
	persist      *bool
	ignore       *bool
	parseNumbers *bool
	strict       *bool
	unwrap       *bool
	camelDashes  *bool
	camelUnders  *bool
	allowRaw     *bool
	expandKV     *bool
	pretty       *bool
	maxDepth     *int
	windows      *[]string
	gzip         *bool
}

func addBindingFlags(cmd *kingpin.CmdClause) *bindingFlags {
	return &bindingFlags{
		schemaFile:   cmd.Flag("schema", "YAML type declarations; without it the document is read dynamically.").ExistingFile(),
		dynamic:      cmd.Flag("dynamic", "Invent fields for unknown keys.").Bool(),
		persist:      cmd.Flag("persist", "Register invented fields into the schema.").Bool(),
		ignore:       cmd.Flag("ignore-unknown", "Drop unknown keys instead of failing.").Bool(),
		parseNumbers: cmd.Flag("parse-numbers", "Convert number literals eagerly.").Bool(),
		strict:       cmd.Flag("strict", "Reject unquoted names, bare values and trailing input.").Bool(),
		unwrap:       cmd.Flag("unwrap-root", "Map a root array onto the single list field.").Bool(),
		camelDashes:  cmd.Flag("camel-dashes", "Camel case names on '-'.").Bool(),
		camelUnders:  cmd.Flag("camel-underscores", "Camel case names on '_'.").Bool(),
		allowRaw:     cmd.Flag("raw", "Keep names and '/' as they are.").Bool(),
		expandKV:     cmd.Flag("expand-kv", "Write key/value lists as object members.").Bool(),
		pretty:       cmd.Flag("pretty", "Indent the output.").Bool(),
		maxDepth:     cmd.Flag("max-depth", "Nesting limit.").Default("512").Int(),
		windows:      cmd.Flag("window", "Keep only part of a repeating field: path:offset:limit. Repeatable.").Strings(),
		gzip:         cmd.Flag("gzip", "Input is gzip compressed.").Bool(),
	}
}

func (f *bindingFlags) binding(g *globalFlags) (*jsonbind.Binding, error) {
	opts := []jsonbind.Option{
		jsonbind.WithLogger(g.logger()),
		jsonbind.WithLimits(*f.maxDepth, 0, 0),
		jsonbind.WithCamelCase(*f.camelDashes, *f.camelUnders),
	}
	for _, on := range []struct {
		set bool
		opt jsonbind.Option
	}{
		{*f.persist, jsonbind.WithPersistDynamic()},
		{*f.ignore, jsonbind.WithIgnoreUnknown()},
		{*f.parseNumbers, jsonbind.WithParseNumbers()},
		{*f.strict, jsonbind.WithStrict()},
		{*f.unwrap, jsonbind.WithUnwrapRootArray()},
		{*f.allowRaw, jsonbind.WithAllowRaw()},
		{*f.expandKV, jsonbind.WithExpandKeyValuePairs()},
		{*f.pretty, jsonbind.WithPrettyPrint()},
		{*f.dynamic, jsonbind.WithDynamic(nil)},
	} {
		if on.set {
			opts = append(opts, on.opt)
		}
	}
	if *f.schemaFile == "" {
		return jsonbind.NewDynamicBinding(nil, opts...), nil
	}
	sf, err := os.Open(*f.schemaFile)
	if err != nil {
		return nil, errors.Wrap(err, "open schema")
	}
	defer sf.Close()
	reg, err := schema.LoadYAML(sf)
	if err != nil {
		return nil, err
	}
	return jsonbind.NewBinding(reg.Root(), opts...), nil
}

func (f *bindingFlags) parsedWindows() ([]jsonbind.Window, error) {
	out := make([]jsonbind.Window, 0, len(*f.windows))
	for _, w := range *f.windows {
		win, err := parseWindow(w)
		if err != nil {
			return nil, err
		}
		out = append(out, win)
	}
	return out, nil
}

// parseWindow reads "path:offset:limit"; the limit may be omitted.
func parseWindow(s string) (jsonbind.Window, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return jsonbind.Window{}, errors.Errorf("window %q: want path:offset[:limit]", s)
	}
	w := jsonbind.Window{Path: parts[0]}
	var err error
	if w.Offset, err = strconv.Atoi(parts[1]); err != nil || w.Offset < 0 {
		return jsonbind.Window{}, errors.Errorf("window %q: bad offset", s)
	}
	if len(parts) == 3 {
		if w.Limit, err = strconv.Atoi(parts[2]); err != nil {
			return jsonbind.Window{}, errors.Errorf("window %q: bad limit", s)
		}
	}
	return w, nil
}

func (f *bindingFlags) input(name string) (io.ReadCloser, error) {
	var r io.ReadCloser = os.Stdin
	if name != "" && name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		r = file
	}
	if !*f.gzip {
		return r, nil
	}
	zr, err := gzip.NewReader(r)
	if err != nil {
		r.Close()
		return nil, errors.Wrap(err, "gzip")
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, r}, nil
}

// decodeCommand parses a document and writes it back as normalised JSON.
type decodeCommand struct {
	g         *globalFlags
	flags     *bindingFlags
	file      *string
	canonical *bool
	stats     *bool
}

func (cmd *decodeCommand) run(*kingpin.ParseContext) error {
	b, err := cmd.flags.binding(cmd.g)
	if err != nil {
		exitWithErr(err)
	}
	windows, err := cmd.flags.parsedWindows()
	if err != nil {
		exitWithErr(err)
	}
	in, err := cmd.flags.input(*cmd.file)
	if err != nil {
		exitWithErr(err)
	}
	defer in.Close()

	start := time.Now()
	counted := &countingReader{r: in}
	n, err := b.Unmarshal(bufio.NewReader(counted), windows...)
	if err != nil {
		exitWithErr(err)
	}
	parsed := time.Since(start)

	var buf bytes.Buffer
	if err := b.Marshal(&buf, n); err != nil {
		exitWithErr(err)
	}
	out := buf.Bytes()
	if *cmd.canonical {
		if out, err = jsoncanonicalizer.Transform(out); err != nil {
			exitWithErr(errors.Wrap(err, "canonicalize"))
		}
	}
	if _, err := os.Stdout.Write(append(out, '\n')); err != nil {
		exitWithErr(err)
	}
	level.Debug(cmd.g.logger()).Log("msg", "decoded", "root", b.Root().Name(), "fields", b.Root().Len())
	if *cmd.stats {
		fmt.Fprintf(os.Stderr, "read %s in %s, wrote %s\n",
			humanize.Bytes(uint64(counted.n)), parsed.Round(time.Microsecond), humanize.Bytes(uint64(len(out))))
	}
	return nil
}

func addDecodeCommand(app *kingpin.Application, g *globalFlags) {
	cmd := &decodeCommand{g: g}
	c := app.Command("decode", "Parse a document against a schema and print it back.").Default().Action(cmd.run)
	cmd.flags = addBindingFlags(c)
	cmd.canonical = c.Flag("canonical", "Print RFC 8785 canonical JSON.").Bool()
	cmd.stats = c.Flag("stats", "Print sizes and timing to stderr.").Bool()
	cmd.file = c.Arg("file", "Input document; '-' or empty reads stdin.").String()
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
