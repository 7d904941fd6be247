package jsonbind

import (
	"strings"

	"github.com/go-kit/log"

	"github.com/reoring/jsonbind/schema"
)

// Options bundles every switch of a Binding. Start from DefaultOptions and
// adjust with Option funcs.
type Options struct {
	// AllowDynamicElements invents fields for keys the schema does not know.
	AllowDynamicElements bool
	// PersistDynamicDefinitions registers invented fields into the schema.
	PersistDynamicDefinitions bool
	// IgnoreUnknownElements parses and drops unknown keys instead of failing.
	IgnoreUnknownElements bool
	// CamelCaseDashes turns "a-b" field names into "aB".
	CamelCaseDashes bool
	// CamelCaseUnderscores turns "a_b" field names into "aB".
	CamelCaseUnderscores bool
	// ParseNumbers converts number literals eagerly (int64, float64, big.Int,
	// decimal) instead of keeping them as content.Number.
	ParseNumbers bool
	// AllowRaw leaves field names untouched on input and '/' unescaped on
	// output.
	AllowRaw bool
	// SetEmptyArrays stores an explicit empty list for "[]".
	SetEmptyArrays bool
	// IgnoreEmptyStrings treats "" as absent.
	IgnoreEmptyStrings bool
	// ExpandKeyValuePairs writes key/value lists as plain object members.
	ExpandKeyValuePairs bool
	// UseAlias writes fields under their alias when one is declared.
	UseAlias bool
	// UnwrapRootArray maps a root with a single list field to a bare array.
	UnwrapRootArray bool
	// PrettyPrint puts each member on its own line, indented by tabs.
	PrettyPrint bool
	// MarshalMissingRequired writes null (or []) for absent required fields.
	MarshalMissingRequired bool
	// IgnoreInconsistentTypes drops values whose shape or format does not fit
	// the declared type.
	IgnoreInconsistentTypes bool
	// IgnoreDynamicNames writes dynamic-name lists as ordinary arrays.
	IgnoreDynamicNames bool
	// AllowNilCharacter keeps NUL characters in strings and names; otherwise
	// they are dropped.
	AllowNilCharacter bool
	// Strict rejects unquoted field names, bare top-level values and trailing
	// input.
	Strict bool
	// MarshalStreams base64 encodes io.Reader values on output.
	MarshalStreams bool

	// Lenient accepts a singular value for a list field and a one element
	// array for a singular field.
	Lenient bool
	// DecodeUnicode decodes \uXXXX sequences left in string values after
	// unescaping.
	DecodeUnicode bool
	// NormalizeNames strips leading '-' and '_' from field names.
	NormalizeNames bool

	// Generator supplies types for dynamic fields.
	Generator schema.Generator
	MaxDepth  int
	MaxBytes  int64
	MaxString int

	Logger    log.Logger
	Metrics   *Metrics
	Wrapper   ObjectWrapper
	Sequences SequenceAdapter
}

// DefaultOptions returns the defaults: lenient parsing with empty arrays
// materialized, aliases used and missing required fields written as null.
func DefaultOptions() Options {
	return Options{
		SetEmptyArrays:         true,
		UseAlias:               true,
		MarshalMissingRequired: true,
		MarshalStreams:         true,
		Lenient:                true,
		DecodeUnicode:          true,
		NormalizeNames:         true,
		Logger:                 log.NewNopLogger(),
	}
}

// Option adjusts Options.
type Option func(*Options)

// WithOptions replaces the whole option set.
func WithOptions(o Options) Option { return func(dst *Options) { *dst = o } }

// WithDynamic enables dynamic elements, generated by gen (nil picks
// schema.DefaultGenerator).
func WithDynamic(gen schema.Generator) Option {
	return func(o *Options) {
		if gen == nil {
			gen = schema.DefaultGenerator
		}
		o.AllowDynamicElements = true
		o.Generator = gen
	}
}

func WithPersistDynamic() Option   { return func(o *Options) { o.PersistDynamicDefinitions = true } }
func WithIgnoreUnknown() Option    { return func(o *Options) { o.IgnoreUnknownElements = true } }
func WithParseNumbers() Option     { return func(o *Options) { o.ParseNumbers = true } }
func WithAllowRaw() Option         { return func(o *Options) { o.AllowRaw = true } }
func WithIgnoreEmptyStrings() Option { return func(o *Options) { o.IgnoreEmptyStrings = true } }
func WithExpandKeyValuePairs() Option {
	return func(o *Options) { o.ExpandKeyValuePairs = true }
}
func WithUnwrapRootArray() Option { return func(o *Options) { o.UnwrapRootArray = true } }
func WithPrettyPrint() Option     { return func(o *Options) { o.PrettyPrint = true } }
func WithStrict() Option          { return func(o *Options) { o.Strict = true } }
func WithIgnoreInconsistentTypes() Option {
	return func(o *Options) { o.IgnoreInconsistentTypes = true }
}
func WithIgnoreDynamicNames() Option { return func(o *Options) { o.IgnoreDynamicNames = true } }
func WithAllowNilCharacter() Option  { return func(o *Options) { o.AllowNilCharacter = true } }

// WithCamelCase enables camel casing of field names on '-' and/or '_'.
func WithCamelCase(dashes, underscores bool) Option {
	return func(o *Options) {
		o.CamelCaseDashes = dashes
		o.CamelCaseUnderscores = underscores
	}
}

// WithLenient toggles cardinality coercion (on by default).
func WithLenient(on bool) Option { return func(o *Options) { o.Lenient = on } }

// WithEmptyArrays toggles materialization of "[]" (on by default).
func WithEmptyArrays(on bool) Option { return func(o *Options) { o.SetEmptyArrays = on } }

// WithAlias toggles use of field aliases on output (on by default).
func WithAlias(on bool) Option { return func(o *Options) { o.UseAlias = on } }

// WithMissingRequired toggles null/[] output for absent required fields
// (on by default).
func WithMissingRequired(on bool) Option {
	return func(o *Options) { o.MarshalMissingRequired = on }
}

// WithStreams toggles base64 output of io.Reader values (on by default).
func WithStreams(on bool) Option { return func(o *Options) { o.MarshalStreams = on } }

// WithDecodeUnicode toggles the second \uXXXX decoding pass (on by default).
func WithDecodeUnicode(on bool) Option { return func(o *Options) { o.DecodeUnicode = on } }

// WithLimits bounds nesting depth, input size and string length. Zero keeps
// the default for that limit.
func WithLimits(maxDepth int, maxBytes int64, maxString int) Option {
	return func(o *Options) {
		o.MaxDepth = maxDepth
		o.MaxBytes = maxBytes
		o.MaxString = maxString
	}
}

func WithLogger(l log.Logger) Option        { return func(o *Options) { o.Logger = l } }
func WithMetrics(m *Metrics) Option         { return func(o *Options) { o.Metrics = m } }
func WithWrapper(w ObjectWrapper) Option    { return func(o *Options) { o.Wrapper = w } }
func WithSequences(s SequenceAdapter) Option { return func(o *Options) { o.Sequences = s } }

// Window limits how many elements of one repeating field are kept: elements
// Offset through Offset+Limit-1 are stored (renumbered from 0), the rest are
// read and dropped.
type Window struct {
	// Path names the field: "employees", "company/employees" (root type name
	// first) or with a leading '/'.
	Path   string
	Offset int
	Limit  int
}

func (w Window) matches(rootType, path string) bool {
	p := strings.Trim(w.Path, "/")
	return p == path || p == rootType+"/"+path
}

// keeps reports whether element i falls inside the window.
func (w Window) keeps(i int) bool {
	return i >= w.Offset && (w.Limit <= 0 || i < w.Offset+w.Limit)
}
