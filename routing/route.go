package routing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRoute is returned when no descriptor of the root table matches a path
var ErrNoRoute = errors.New("no route matches path")

// PageRef names a page container registered with the dispatcher
type PageRef string

// RouteDescriptor maps a URL path pattern to a page.
// Patterns are made of literal segments, ":name" params, ":name?" optional
// params and a trailing "*" wildcard. A descriptor either names a Page or
// carries a static Render text; Routes nests a further table that is only
// consulted once this descriptor matched.
type RouteDescriptor struct {
	Path   string
	Exact  bool
	Page   PageRef
	Render string
	Routes []RouteDescriptor
}

// Match is one level of a resolved route chain
type Match struct {
	Route  *RouteDescriptor
	Params map[string]string
	// URL is the part of the request path consumed by the pattern
	URL string
	// IsExact reports whether the whole request path was consumed
	IsExact bool
}

// Param returns a route parameter of the match, or "" when absent
func (m Match) Param(name string) string {
	return m.Params[name]
}

// compiledRoute pairs a descriptor with its parsed pattern and children
type compiledRoute struct {
	desc     *RouteDescriptor
	pattern  *pattern
	children []compiledRoute
}

// Table is a validated, compiled route table. It is immutable once built.
type Table struct {
	descriptors []RouteDescriptor
	routes      []compiledRoute
}

// NewTable validates and compiles a route table, keeping declaration order
func NewTable(descriptors []RouteDescriptor) (*Table, error) {
	if err := Validate(descriptors); err != nil {
		return nil, err
	}

	routes, err := compileTable(descriptors)
	if err != nil {
		return nil, err
	}

	return &Table{descriptors: descriptors, routes: routes}, nil
}

// MustNewTable is NewTable for tables declared in code
func MustNewTable(descriptors []RouteDescriptor) *Table {
	t, err := NewTable(descriptors)
	if err != nil {
		panic(err)
	}
	return t
}

func compileTable(descriptors []RouteDescriptor) ([]compiledRoute, error) {
	routes := make([]compiledRoute, 0, len(descriptors))
	for i := range descriptors {
		desc := &descriptors[i]
		p, err := compilePattern(desc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to compile route %q: %w", desc.Path, err)
		}
		children, err := compileTable(desc.Routes)
		if err != nil {
			return nil, err
		}
		routes = append(routes, compiledRoute{desc: desc, pattern: p, children: children})
	}
	return routes, nil
}

// Resolve returns the chain of matches for a request path, outermost first.
// At every level the first descriptor in declaration order whose pattern
// matches is selected; nested tables are matched against the full path.
// The path should be the escaped form (url.URL.EscapedPath) so that encoded
// slashes stay inside a single segment. An empty chain means no route.
func (t *Table) Resolve(path string) []Match {
	segments := splitPath(path)
	return resolveLevel(t.routes, segments, nil)
}

func resolveLevel(routes []compiledRoute, segments []string, chain []Match) []Match {
	for _, route := range routes {
		params, consumed, ok := route.pattern.match(segments, route.desc.Exact)
		if !ok {
			continue
		}

		chain = append(chain, Match{
			Route:   route.desc,
			Params:  params,
			URL:     "/" + strings.Join(segments[:consumed], "/"),
			IsExact: consumed == len(segments),
		})

		if len(route.children) > 0 {
			return resolveLevel(route.children, segments, chain)
		}
		return chain
	}
	return chain
}

// Leaf returns the innermost match of a chain
func Leaf(chain []Match) (Match, error) {
	if len(chain) == 0 {
		return Match{}, ErrNoRoute
	}
	return chain[len(chain)-1], nil
}

// Walk visits every descriptor depth-first in declaration order
func (t *Table) Walk(fn func(depth int, desc RouteDescriptor)) {
	walk(t.descriptors, 0, fn)
}

func walk(descriptors []RouteDescriptor, depth int, fn func(int, RouteDescriptor)) {
	for _, d := range descriptors {
		fn(depth, d)
		walk(d.Routes, depth+1, fn)
	}
}
