package routing

import (
	"fmt"
	"net/url"
	"strings"
)

// WildcardParam is the key under which a "*" segment stores the matched
// suffix, with each segment unescaped. The suffix is also stored under
// WildcardIndexParam.
const (
	WildcardParam      = "*"
	WildcardIndexParam = "0"
)

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentParam
	segmentOptional
	segmentWildcard
)

type segment struct {
	kind  segmentKind
	value string
}

type pattern struct {
	raw      string
	segments []segment
}

// compilePattern parses a route path such as "/checkout/:cart?" or "/category/:id/*"
func compilePattern(path string) (*pattern, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("path must start with '/'")
	}

	parts := splitPath(path)
	p := &pattern{raw: path, segments: make([]segment, 0, len(parts))}
	seen := make(map[string]bool)

	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return nil, fmt.Errorf("wildcard must be the last segment")
			}
			p.segments = append(p.segments, segment{kind: segmentWildcard})
		case strings.HasPrefix(part, ":"):
			name := strings.TrimPrefix(part, ":")
			kind := segmentParam
			if strings.HasSuffix(name, "?") {
				name = strings.TrimSuffix(name, "?")
				kind = segmentOptional
			}
			if name == "" {
				return nil, fmt.Errorf("empty parameter name in segment %d", i)
			}
			if seen[name] {
				return nil, fmt.Errorf("duplicate parameter %q", name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{kind: kind, value: name})
		default:
			p.segments = append(p.segments, segment{kind: segmentLiteral, value: part})
		}
	}

	return p, nil
}

// match reports whether the path segments match the pattern. Exact patterns
// must consume every segment; otherwise a segment-aligned prefix is enough.
// It returns the bound params and the number of consumed segments.
func (p *pattern) match(path []string, exact bool) (map[string]string, int, bool) {
	params := make(map[string]string)
	consumed, ok := matchFrom(p.segments, path, 0, exact, params)
	if !ok {
		return nil, 0, false
	}
	return params, consumed, true
}

func matchFrom(segments []segment, path []string, pos int, exact bool, params map[string]string) (int, bool) {
	if len(segments) == 0 {
		if exact && pos != len(path) {
			return 0, false
		}
		return pos, true
	}

	seg := segments[0]
	switch seg.kind {
	case segmentLiteral:
		if pos >= len(path) || !strings.EqualFold(seg.value, path[pos]) {
			return 0, false
		}
		return matchFrom(segments[1:], path, pos+1, exact, params)

	case segmentParam:
		if pos >= len(path) {
			return 0, false
		}
		params[seg.value] = unescapeSegment(path[pos])
		if n, ok := matchFrom(segments[1:], path, pos+1, exact, params); ok {
			return n, true
		}
		delete(params, seg.value)
		return 0, false

	case segmentOptional:
		if pos < len(path) {
			params[seg.value] = unescapeSegment(path[pos])
			if n, ok := matchFrom(segments[1:], path, pos+1, exact, params); ok {
				return n, true
			}
			delete(params, seg.value)
		}
		return matchFrom(segments[1:], path, pos, exact, params)

	case segmentWildcard:
		rest := make([]string, 0, len(path)-pos)
		for _, p := range path[pos:] {
			rest = append(rest, unescapeSegment(p))
		}
		params[WildcardParam] = strings.Join(rest, "/")
		params[WildcardIndexParam] = params[WildcardParam]
		return len(path), true
	}

	return 0, false
}

// splitPath breaks a path into its non-empty segments, so "/a//b/" is ["a", "b"]
func splitPath(path string) []string {
	raw := strings.Split(strings.Trim(path, "/"), "/")
	segments := raw[:0]
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func unescapeSegment(s string) string {
	v, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return v
}
