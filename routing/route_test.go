package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainPages flattens a chain into page refs (or render texts) for comparison
func chainPages(chain []Match) []string {
	out := make([]string, 0, len(chain))
	for _, m := range chain {
		if m.Route.Page != "" {
			out = append(out, string(m.Route.Page))
		} else {
			out = append(out, "render:"+m.Route.Render)
		}
	}
	return out
}

func TestPatternMatching(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		exact    bool
		path     string
		want     bool
		params   map[string]string
		consumed int
	}{
		{name: "root exact matches root", pattern: "/", exact: true, path: "/", want: true, params: map[string]string{}},
		{name: "root exact rejects deeper path", pattern: "/", exact: true, path: "/mycart", want: false},
		{name: "root prefix matches anything", pattern: "/", path: "/mycart", want: true, params: map[string]string{}},
		{name: "prefix on segment boundary", pattern: "/b2b", path: "/b2b/orders", want: true, params: map[string]string{}, consumed: 1},
		{name: "prefix never splits a segment", pattern: "/b2b", path: "/b2bx", want: false},
		{name: "exact literal", pattern: "/category", exact: true, path: "/category", want: true, params: map[string]string{}, consumed: 1},
		{name: "exact rejects extra segment", pattern: "/category", exact: true, path: "/category/shoes", want: false},
		{name: "trailing slash ignored", pattern: "/category", exact: true, path: "/category/", want: true, params: map[string]string{}, consumed: 1},
		{name: "literal is case-insensitive", pattern: "/signIn", exact: true, path: "/signin", want: true, params: map[string]string{}, consumed: 1},
		{name: "param binds one segment", pattern: "/category/:id", exact: true, path: "/category/Shoes", want: true, params: map[string]string{"id": "Shoes"}, consumed: 2},
		{name: "param requires a segment", pattern: "/category/:id", exact: true, path: "/category", want: false},
		{name: "param is unescaped", pattern: "/itemdetail/:url", path: "/itemdetail/%2Fitems%2Fvestri%2Fabc%3D", want: true, params: map[string]string{"url": "/items/vestri/abc="}, consumed: 2},
		{name: "optional param present", pattern: "/checkout/:cart?", path: "/checkout/default", want: true, params: map[string]string{"cart": "default"}, consumed: 2},
		{name: "optional param absent", pattern: "/checkout/:cart?", path: "/checkout", want: true, params: map[string]string{}, consumed: 1},
		{name: "optional param backtracks", pattern: "/a/:x?/b", exact: true, path: "/a/b", want: true, params: map[string]string{}, consumed: 2},
		{name: "wildcard takes suffix", pattern: "/category/:id/*", exact: true, path: "/category/Shoes/offersearches/vestri/x", want: true, params: map[string]string{"id": "Shoes", "*": "offersearches/vestri/x", "0": "offersearches/vestri/x"}, consumed: 5},
		{name: "wildcard is unescaped per segment", pattern: "/category/:id/*", exact: true, path: "/category/Shoes/offersearches/rain%20coat/a%3D", want: true, params: map[string]string{"id": "Shoes", "*": "offersearches/rain coat/a=", "0": "offersearches/rain coat/a="}, consumed: 5},
		{name: "wildcard takes zero segments", pattern: "/category/:id/*", exact: true, path: "/category/Shoes", want: true, params: map[string]string{"id": "Shoes", "*": "", "0": ""}, consumed: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := compilePattern(tt.pattern)
			require.NoError(t, err)

			params, consumed, ok := p.match(splitPath(tt.path), tt.exact)
			assert.Equal(t, tt.want, ok)
			if !tt.want {
				return
			}
			assert.Equal(t, tt.params, params)
			assert.Equal(t, tt.consumed, consumed)
		})
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	table := MustNewTable([]RouteDescriptor{
		{Path: "/search", Page: "search-index", Exact: true},
		{Path: "/search/:keywords", Page: "search-keywords"},
		{Path: "/search/shoes", Page: "search-shoes"},
	})

	chain := table.Resolve("/search/shoes")
	assert.Equal(t, []string{"search-keywords"}, chainPages(chain))
	assert.Equal(t, "shoes", chain[0].Param("keywords"))

	reordered := MustNewTable([]RouteDescriptor{
		{Path: "/search", Page: "search-index", Exact: true},
		{Path: "/search/shoes", Page: "search-shoes"},
		{Path: "/search/:keywords", Page: "search-keywords"},
	})
	assert.Equal(t, []string{"search-shoes"}, chainPages(reordered.Resolve("/search/shoes")))
}

func TestResolveNestedTables(t *testing.T) {
	table := MustNewTable([]RouteDescriptor{
		{Path: "/b2b/requisition-list-item", Exact: true, Page: "requisition-item"},
		{
			Path: "/b2b",
			Page: "b2b",
			Routes: []RouteDescriptor{
				{Path: "/b2b", Exact: true, Page: "accounts"},
				{Path: "/b2b/orders", Render: "Orders"},
				{Path: "/b2b/requisition-lists", Exact: true, Page: "requisition-lists"},
			},
		},
	})

	tests := []struct {
		path string
		want []string
	}{
		{path: "/b2b", want: []string{"b2b", "accounts"}},
		{path: "/b2b/orders/42", want: []string{"b2b", "render:Orders"}},
		{path: "/b2b/requisition-lists", want: []string{"b2b", "requisition-lists"}},
		{path: "/b2b/requisition-lists/7", want: []string{"b2b"}},
		{path: "/b2b/requisition-list-item", want: []string{"requisition-item"}},
		{path: "/other", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := chainPages(table.Resolve(tt.path))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("chain mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveRecordsMatchedURL(t *testing.T) {
	table := MustNewTable([]RouteDescriptor{
		{Path: "/b2b", Page: "b2b", Routes: []RouteDescriptor{
			{Path: "/b2b/orders", Render: "Orders"},
		}},
	})

	chain := table.Resolve("/b2b/orders/42/")
	require.Len(t, chain, 2)
	assert.Equal(t, "/b2b", chain[0].URL)
	assert.False(t, chain[0].IsExact)
	assert.Equal(t, "/b2b/orders", chain[1].URL)

	leaf, err := Leaf(chain)
	require.NoError(t, err)
	assert.Equal(t, "Orders", leaf.Route.Render)

	_, err = Leaf(nil)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestValidateRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name  string
		table []RouteDescriptor
	}{
		{name: "empty path", table: []RouteDescriptor{{Page: "x"}}},
		{name: "relative path", table: []RouteDescriptor{{Path: "category", Page: "x"}}},
		{name: "wildcard not last", table: []RouteDescriptor{{Path: "/a/*/b", Page: "x"}}},
		{name: "empty param", table: []RouteDescriptor{{Path: "/a/:", Page: "x"}}},
		{name: "duplicate param", table: []RouteDescriptor{{Path: "/a/:id/:id", Page: "x"}}},
		{name: "nothing to mount", table: []RouteDescriptor{{Path: "/a"}}},
		{name: "page and render", table: []RouteDescriptor{{Path: "/a", Page: "x", Render: "y"}}},
		{name: "nested problem", table: []RouteDescriptor{{Path: "/a", Page: "x", Routes: []RouteDescriptor{{Path: "b", Page: "y"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.table)
			assert.Error(t, err)
		})
	}
}

func TestWalkVisitsInDeclarationOrder(t *testing.T) {
	table := MustNewTable([]RouteDescriptor{
		{Path: "/", Exact: true, Page: "home"},
		{Path: "/b2b", Page: "b2b", Routes: []RouteDescriptor{
			{Path: "/b2b", Exact: true, Page: "accounts"},
			{Path: "/b2b/quotes", Render: "Quotes"},
		}},
	})

	var visited []string
	table.Walk(func(depth int, d RouteDescriptor) {
		visited = append(visited, string(rune('0'+depth))+d.Path)
	})

	assert.Equal(t, []string{"0/", "0/b2b", "1/b2b", "1/b2b/quotes"}, visited)
}
