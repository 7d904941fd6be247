package engine

// Limits bounds the resources one parse may use.
type Limits struct {
	// MaxDepth caps object and array nesting.
	MaxDepth int
	// MaxBytes caps consumed input; 0 means unbounded.
	MaxBytes int64
	// MaxString caps the length of a string value or stringified object.
	MaxString int
	// LookAhead caps the length of a field name.
	LookAhead int
}

// Defaults applied to zero Limits fields.
const (
	DefaultMaxDepth  = 512
	DefaultMaxString = 10 * 1024 * 1024
	DefaultLookAhead = 4096
)

func (l Limits) withDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxString <= 0 {
		l.MaxString = DefaultMaxString
	}
	if l.LookAhead <= 0 {
		l.LookAhead = DefaultLookAhead
	}
	return l
}

// Enter records one more level of nesting.
func (r *Reader) Enter() error {
	r.depth++
	if r.depth > r.limits.MaxDepth {
		return r.fail(CodeTooDeep, "nesting too deep")
	}
	return nil
}

// Leave undoes Enter.
func (r *Reader) Leave() {
	if r.depth > 0 {
		r.depth--
	}
}

// Depth is the current nesting level.
func (r *Reader) Depth() int { return r.depth }
