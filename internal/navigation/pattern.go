// internal/navigation/pattern.go
package navigation

import (
	"fmt"
	"strings"
)

// Params maps a pattern's parameter names to the segment text captured
// from a matched location.
type Params map[string]string

type segment struct {
	literal string
	param   string // non-empty when the segment is a named capture
}

// Pattern is a compiled path template of literal and named-parameter
// segments, e.g. "/orders/:orderId". Immutable once compiled.
type Pattern struct {
	raw      string
	segments []segment
}

// Compile parses a path template. Segments beginning with ':' become
// named captures of one or more non-separator characters; everything
// else matches literally. Parameter names must be non-empty and unique
// within the pattern.
func Compile(raw string) (*Pattern, error) {
	p := &Pattern{raw: raw}
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, "/") {
		if strings.HasPrefix(part, ":") {
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("pattern %q: empty parameter name", raw)
			}
			if seen[name] {
				return nil, fmt.Errorf("pattern %q: duplicate parameter %q", raw, name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{param: name})
			continue
		}
		p.segments = append(p.segments, segment{literal: part})
	}

	return p, nil
}

// MustCompile is Compile for static route tables.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the original template.
func (p *Pattern) String() string {
	return p.raw
}

// Match checks location against the pattern: anchored at both ends,
// case-sensitive, positional, with no trailing-slash normalization. A
// pattern of N segments never matches a location with a different
// segment count, and captures never match empty text. Any query
// portion of the location is discarded before matching.
func (p *Pattern) Match(location string) (Params, bool) {
	path := SplitQuery(location)
	parts := strings.Split(path, "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}

	params := make(Params)
	for i, seg := range p.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]
			continue
		}
		if parts[i] != seg.literal {
			return nil, false
		}
	}

	return params, true
}

// SplitQuery strips the query portion of a location string; only the
// path portion participates in matching.
func SplitQuery(location string) string {
	if i := strings.IndexByte(location, '?'); i >= 0 {
		return location[:i]
	}
	return location
}
