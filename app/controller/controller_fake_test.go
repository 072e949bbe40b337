package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
	"storefront/routing"
	"storefront/service"
	"storefront/web"
)

// stubCortex answers from canned JSON and records posts
type stubCortex struct {
	mu          sync.Mutex
	items       map[string]string
	lists       map[string]*models.CortexItemList
	posts       []stubPost
	postErr     error
	postResp    *service.CortexPostResponse
	navigations []string
	searches    []string
	offers      []string
}

type stubPost struct {
	URI  string
	Body any
}

func newStubCortex() *stubCortex {
	return &stubCortex{
		items: make(map[string]string),
		lists: make(map[string]*models.CortexItemList),
	}
}

func (s *stubCortex) Fetch(_ context.Context, _, uri string, _ []string, out any) error {
	s.mu.Lock()
	body, ok := s.items[uri]
	s.mu.Unlock()
	if !ok {
		return &service.CortexError{Status: http.StatusNotFound, Method: http.MethodGet, URI: uri}
	}
	return json.Unmarshal([]byte(body), out)
}

func (s *stubCortex) Post(_ context.Context, _, uri string, body any) (*service.CortexPostResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, stubPost{URI: uri, Body: body})
	if s.postErr != nil {
		return nil, s.postErr
	}
	if s.postResp != nil {
		return s.postResp, nil
	}
	return &service.CortexPostResponse{Status: http.StatusCreated}, nil
}

func (s *stubCortex) PostFollow(ctx context.Context, sessionID, uri string, body any, _ []string, _ any) error {
	_, err := s.Post(ctx, sessionID, uri, body)
	return err
}

func (s *stubCortex) list(key string) (*models.CortexItemList, error) {
	if l, ok := s.lists[key]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("no list %s", key)
}

func (s *stubCortex) LookupNavigation(_ context.Context, _, code string) (*models.CortexItemList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigations = append(s.navigations, code)
	return s.list("nav:" + code)
}

func (s *stubCortex) SearchKeywords(_ context.Context, _, keywords string) (*models.CortexItemList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, keywords)
	return s.list("search:" + keywords)
}

func (s *stubCortex) FetchOfferSearch(_ context.Context, _, uri string) (*models.CortexItemList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers = append(s.offers, uri)
	return s.list("offer:" + uri)
}

func (s *stubCortex) recordedPosts() []stubPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubPost(nil), s.posts...)
}

func productJSON(uri, code, name, state string) string {
	return fmt.Sprintf(`{
		"self": {"uri": %q},
		"_code": [{"code": %q}],
		"_definition": [{"display-name": %q}],
		"_price": [{"list-price": [{"display": "$20.00"}], "purchase-price": [{"display": "$15.00"}]}],
		"_availability": [{"state": %q}],
		"_addtocartform": [{"self": {"uri": "/carts/vestri/default/lineitems/items/vestri/%s/form"}}]
	}`, uri, code, name, state, code)
}

func itemList(uris ...string) *models.CortexItemList {
	l := &models.CortexItemList{}
	for _, u := range uris {
		l.Element = append(l.Element, models.CortexElement{Self: models.CortexSelf{URI: u}})
	}
	return l
}

type testEnv struct {
	cortex   *stubCortex
	products *service.ProductService
	renderer *web.Renderer
	intl     config.Intl
	logger   *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	intl, err := config.NewIntl("en-CA")
	require.NoError(t, err)

	logger := zap.NewNop()
	renderer, err := web.NewRenderer(intl, logger)
	require.NoError(t, err)

	cortex := newStubCortex()
	images := service.NewImageService(http.DefaultClient, "https://images.example.com/%sku%.jpg", config.ImagesConfig{}, logger)
	products := service.NewProductService(cortex, images, intl, config.CatalogConfig{
		ItemFetchLimit:   4,
		ItemFetchTimeout: config.Duration{Duration: 2 * time.Second},
	}, logger)

	return &testEnv{cortex: cortex, products: products, renderer: renderer, intl: intl, logger: logger}
}

// serve resolves the request path against table and runs page like the dispatcher does
func serve(t *testing.T, table *routing.Table, page PageContainer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	chain := table.Resolve(req.URL.EscapedPath())
	require.NotEmpty(t, chain, "no route for %s", req.URL.Path)

	rec := httptest.NewRecorder()
	rc := RouteContext{Chain: chain, SessionID: "session-1", Nav: NewHTTPNavigator(rec, req)}
	rc.Params = rc.Leaf().Params
	page.Serve(rec, req, rc)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
