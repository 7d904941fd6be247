package jsonbind

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

const nameCacheSize = 4096

// nameNormalizer maps unescaped wire field names onto schema names: URI
// component encoding, stripping of leading '-' and '_', then camel casing.
// Results are memoised per Binding.
type nameNormalizer struct {
	opt   Options
	cache *lru.Cache[string, string]
}

func newNameNormalizer(opt Options) *nameNormalizer {
	c, err := lru.New[string, string](nameCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &nameNormalizer{opt: opt, cache: c}
}

func (n *nameNormalizer) normalize(raw string) string {
	if n.opt.AllowRaw {
		return raw
	}
	if v, ok := n.cache.Get(raw); ok {
		return v
	}
	name := url.PathEscape(raw)
	if n.opt.NormalizeNames {
		name = strings.TrimLeft(name, "-_")
	}
	if n.opt.CamelCaseDashes {
		name = camelCase(name, '-')
	}
	if n.opt.CamelCaseUnderscores {
		name = camelCase(name, '_')
	}
	n.cache.Add(raw, name)
	return name
}

// camelCase drops every sep and upper-cases the rune after it.
func camelCase(name string, sep byte) string {
	if strings.IndexByte(name, sep) < 0 {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	upper := false
	for i := 0; i < len(name); {
		if name[i] == sep {
			upper = b.Len() > 0
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(name[i:])
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}
