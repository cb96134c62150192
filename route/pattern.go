// Package route compiles path patterns into matchers and resolves
// incoming (method, path) pairs against a registry of routes.
package route

import (
	"fmt"
	"regexp"
	"strings"
)

// paramNameRe matches a valid parameter identifier following a leading ':'.
var paramNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pattern is a compiled path expression produced from a registration-time
// path string. Once built it is immutable and safe for concurrent matching.
type Pattern struct {
	Source      string         // normalized source pattern, e.g. "/users/:id"
	ParamNames  []string       // parameter names in source order
	re          *regexp.Regexp // anchored matcher; capture groups align with ParamNames
	strictSlash bool
}

// Options controls normalization and compilation behavior.
type Options struct {
	// CaseSensitive controls whether literal segments match case-sensitively.
	// Default: true (case sensitive).
	CaseSensitive bool
	// StrictSlash preserves a trailing slash instead of trimming it.
	// Default: false.
	StrictSlash bool
}

// DefaultOptions returns the spec-mandated defaults: case-sensitive, slash-trimming.
func DefaultOptions() Options {
	return Options{CaseSensitive: true, StrictSlash: false}
}

// Normalize applies the four normalization rules from the route parser spec:
//  1. empty input becomes "/"
//  2. a leading "/" is prepended if absent
//  3. runs of "/" collapse to a single "/"
//  4. a trailing "/" is stripped unless the path is exactly "/"
func Normalize(path string, opts Options) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if !opts.StrictSlash && len(out) > 1 && strings.HasSuffix(out, "/") {
		out = strings.TrimRight(out, "/")
		if out == "" {
			out = "/"
		}
	}
	return out
}

// Compile parses a normalized path pattern into a Pattern. Each ":name"
// segment becomes a non-empty, non-slash capture group; literal segments are
// regex-escaped. The returned Pattern's regex is anchored at both ends.
func Compile(pattern string, opts Options) (*Pattern, error) {
	norm := Normalize(pattern, opts)
	segments := strings.Split(strings.TrimPrefix(norm, "/"), "/")

	var reBuilder strings.Builder
	reBuilder.WriteString("^")
	var names []string
	for i, seg := range segments {
		reBuilder.WriteString("/")
		if strings.HasPrefix(seg, ":") {
			name := seg[1:]
			if name == "" || !paramNameRe.MatchString(name) {
				return nil, fmt.Errorf("route: invalid parameter name in segment %q of pattern %q", seg, pattern)
			}
			for _, existing := range names {
				if existing == name {
					return nil, fmt.Errorf("route: duplicate parameter name %q in pattern %q", name, pattern)
				}
			}
			names = append(names, name)
			reBuilder.WriteString("([^/]+)")
		} else {
			reBuilder.WriteString(regexp.QuoteMeta(seg))
		}
		if i == len(segments)-1 && norm == "/" {
			// root pattern: segments == [""], handled by the loop producing "/" + "" = "/"
			_ = i
		}
	}
	reBuilder.WriteString("$")

	flags := ""
	if !opts.CaseSensitive {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + reBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("route: compiling pattern %q: %w", pattern, err)
	}
	return &Pattern{Source: norm, ParamNames: names, re: re, strictSlash: opts.StrictSlash}, nil
}

// Match reports whether path (after normalization) matches the pattern.
func (p *Pattern) Match(path string, opts Options) bool {
	return p.re.MatchString(Normalize(path, opts))
}

// Extract attempts to match path against the pattern and, on success, returns
// a map of parameter name to percent-decoded value in source order. Returns
// (nil, false) on no match. Empty captures never occur because each
// parameter's group requires at least one non-slash character.
func (p *Pattern) Extract(path string, opts Options) (map[string]string, bool) {
	norm := Normalize(path, opts)
	m := p.re.FindStringSubmatch(norm)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(p.ParamNames))
	for i, name := range p.ParamNames {
		params[name] = percentDecode(m[i+1])
	}
	return params, true
}

// percentDecode decodes percent-escapes in a matched path segment. Segments
// never contain a literal "/" (the capture group excludes it), so decoding is
// safe without re-splitting the path. Invalid escapes are left verbatim.
func percentDecode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if hi, ok := hexVal(s[i+1]); ok {
				if lo, ok := hexVal(s[i+2]); ok {
					b.WriteByte(hi<<4 | lo)
					i += 2
					continue
				}
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
