package controller

import (
	"net/http"

	"storefront/routing"
)

// Navigator performs navigation side effects for a page container
type Navigator interface {
	Push(path string)
}

// RouteContext is what the dispatcher hands a page container
type RouteContext struct {
	Chain     []routing.Match
	Params    map[string]string
	SessionID string
	Nav       Navigator
}

// Leaf returns the innermost match of the chain
func (rc RouteContext) Leaf() routing.Match {
	leaf, _ := routing.Leaf(rc.Chain)
	return leaf
}

// Param returns a route parameter of the leaf match
func (rc RouteContext) Param(name string) string {
	return rc.Params[name]
}

// PageContainer serves one routed page
type PageContainer interface {
	Serve(w http.ResponseWriter, r *http.Request, rc RouteContext)
}

// PageContainerFunc adapts a function to PageContainer
type PageContainerFunc func(w http.ResponseWriter, r *http.Request, rc RouteContext)

func (f PageContainerFunc) Serve(w http.ResponseWriter, r *http.Request, rc RouteContext) {
	f(w, r, rc)
}

// HTTPNavigator turns Push into a redirect: 303 after a POST so the browser
// follows with a GET, 302 otherwise. Only the first Push of a request counts.
type HTTPNavigator struct {
	w      http.ResponseWriter
	r      *http.Request
	pushed string
}

// NewHTTPNavigator creates a navigator for one request
func NewHTTPNavigator(w http.ResponseWriter, r *http.Request) *HTTPNavigator {
	return &HTTPNavigator{w: w, r: r}
}

func (n *HTTPNavigator) Push(path string) {
	if n.pushed != "" {
		return
	}
	n.pushed = path

	status := http.StatusFound
	if n.r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(n.w, n.r, path, status)
}

// Pushed returns the path pushed during the request, if any
func (n *HTTPNavigator) Pushed() string {
	return n.pushed
}
