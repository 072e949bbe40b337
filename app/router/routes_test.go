package router

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/routing"
)

// resolvedChain is a comparable summary of one match
type resolvedChain struct {
	Page   string
	Params map[string]string
}

func resolve(t *testing.T, path string) []resolvedChain {
	t.Helper()
	table, err := routing.NewTable(StorefrontRoutes())
	require.NoError(t, err)

	var out []resolvedChain
	for _, m := range table.Resolve(path) {
		name := string(m.Route.Page)
		if name == "" {
			name = "render:" + m.Route.Render
		}
		out = append(out, resolvedChain{Page: name, Params: m.Params})
	}
	return out
}

func TestStorefrontRoutesResolve(t *testing.T) {
	none := map[string]string{}
	tests := []struct {
		path string
		want []resolvedChain
	}{
		{"/", []resolvedChain{{"Home", none}}},
		{"/mycart", []resolvedChain{{"Cart", none}}},
		{"/category", []resolvedChain{{"Category", none}}},
		{"/category/mens", []resolvedChain{{"Category", map[string]string{"id": "mens"}}}},
		{"/category/mens/offersearches/vestri/size=m", []resolvedChain{
			{"Category", map[string]string{"id": "mens", "*": "offersearches/vestri/size=m", "0": "offersearches/vestri/size=m"}},
		}},
		{"/checkout", []resolvedChain{{"Checkout", none}}},
		{"/checkout/default", []resolvedChain{{"Checkout", map[string]string{"cart": "default"}}}},
		{"/itemdetail", []resolvedChain{{"ProductDetail", none}}},
		{"/itemdetail/%2Fitems%2Fvestri%2Fabc", []resolvedChain{{"ProductDetail", map[string]string{"url": "/items/vestri/abc"}}}},
		{"/search/jacket", []resolvedChain{{"Category", map[string]string{"keywords": "jacket"}}}},
		{"/signin", []resolvedChain{{"CheckoutAuth", none}}},
		{"/newpaymentform/paymentdata", []resolvedChain{{"AddPaymentMethod", none}}},
		{"/b2b/account/abc", []resolvedChain{{"AccountMain", map[string]string{"uri": "abc"}}}},
		{"/b2b/requisition-list-item", []resolvedChain{{"RequisitionPageMain", none}}},
		{"/b2b", []resolvedChain{{"B2BMain", none}, {"Accounts", none}}},
		{"/b2b/orders", []resolvedChain{{"B2BMain", none}, {"render:Orders", none}}},
		{"/b2b/requisition-lists", []resolvedChain{{"B2BMain", none}, {"RequisitionList", none}}},
		{"/b2b/requisition-lists/1", []resolvedChain{{"B2BMain", none}}},
		{"/b2bx", nil},
		{"/nowhere", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, resolve(t, tt.path)); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestStorefrontRoutesOrder(t *testing.T) {
	table, err := routing.NewTable(StorefrontRoutes())
	require.NoError(t, err)

	var paths []string
	table.Walk(func(depth int, d routing.RouteDescriptor) {
		if depth == 0 {
			paths = append(paths, d.Path)
		}
	})

	require.Len(t, paths, 36)
	assert.Equal(t, "/", paths[0])
	assert.Equal(t, "/b2b", paths[len(paths)-1])
	assert.Less(t, indexOf(paths, "/b2b/requisition-list-item"), indexOf(paths, "/b2b"))
	assert.Less(t, indexOf(paths, "/itemdetail"), indexOf(paths, "/itemdetail/:url"))
}

func TestEveryPageHasATitleOrContainer(t *testing.T) {
	dedicated := map[routing.PageRef]bool{
		PageHome: true, PageCategory: true, PageProductDetail: true,
		PageAddPaymentMethod: true, PageB2BMain: true,
	}
	for _, d := range StorefrontRoutes() {
		_, titled := ContentTitles[d.Page]
		assert.True(t, titled || dedicated[d.Page], "page %s (%s) has no container", d.Page, d.Path)
	}
}

func indexOf(paths []string, p string) int {
	for i, v := range paths {
		if v == p {
			return i
		}
	}
	return -1
}
