package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"storefront/config"
	"storefront/repository"
)

const testToken = "public-token"

// fakeCortex serves the token endpoint and canned item resources
type fakeCortex struct {
	srv           *httptest.Server
	tokenRequests atomic.Int32
	tokenDelay    time.Duration

	mu       sync.Mutex
	items    map[string]string
	posts    []recordedPost
	handlers map[string]http.HandlerFunc
}

type recordedPost struct {
	Path  string
	Query string
	Body  map[string]any
}

func newFakeCortex(t *testing.T) *fakeCortex {
	t.Helper()
	f := &fakeCortex{
		items:    make(map[string]string),
		handlers: make(map[string]http.HandlerFunc),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCortex) api() config.CortexAPIConfig {
	return config.CortexAPIConfig{
		Path:    f.srv.URL + "/cortex",
		Scope:   "vestri",
		Timeout: config.Duration{Duration: 5 * time.Second},
	}
}

func (f *fakeCortex) addItem(uri, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[uri] = body
}

func (f *fakeCortex) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *fakeCortex) recordedPosts() []recordedPost {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedPost(nil), f.posts...)
}

func (f *fakeCortex) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/cortex")

	if path == "/oauth2/tokens" {
		f.tokenRequests.Inc()
		if f.tokenDelay > 0 {
			time.Sleep(f.tokenDelay)
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("role") != "PUBLIC" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": testToken, "token_type": "bearer"})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	h := f.handlers[path]
	body, ok := f.items[path]
	if r.Method == http.MethodPost {
		var decoded map[string]any
		_ = json.NewDecoder(r.Body).Decode(&decoded)
		f.posts = append(f.posts, recordedPost{Path: path, Query: r.URL.RawQuery, Body: decoded})
	}
	f.mu.Unlock()

	if h != nil {
		h(w, r)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

type testServices struct {
	tokens   *repository.MemoryTokenRepository
	auth     *AuthService
	cortex   *CortexService
	images   *ImageService
	products *ProductService
}

func newTestServices(t *testing.T, f *fakeCortex, catalog config.CatalogConfig) *testServices {
	t.Helper()
	logger := zap.NewNop()
	client := f.srv.Client()

	intl, err := config.NewIntl("en-CA")
	require.NoError(t, err)

	tokens := repository.NewMemoryTokenRepository()
	auth := NewAuthService(client, f.api(), tokens, logger)
	cortex := NewCortexService(client, f.api(), auth, logger)
	images := NewImageService(client, "https://cdn.example.com/%sku%.jpg", config.ImagesConfig{CacheDir: t.TempDir()}, logger)

	if catalog.ItemFetchLimit == 0 {
		catalog.ItemFetchLimit = 4
	}
	if catalog.ItemFetchTimeout.Duration == 0 {
		catalog.ItemFetchTimeout = config.Duration{Duration: 5 * time.Second}
	}

	return &testServices{
		tokens:   tokens,
		auth:     auth,
		cortex:   cortex,
		images:   images,
		products: NewProductService(cortex, images, intl, catalog, logger),
	}
}

// productJSON builds an item resource with the array-wrapped zooms Cortex returns
func productJSON(uri, code, name, list, purchase, state string) string {
	return `{
		"self": {"uri": "` + uri + `"},
		"_code": [{"code": "` + code + `"}],
		"_definition": [{"display-name": "` + name + `"}],
		"_price": [{
			"list-price": [{"amount": 0, "currency": "CAD", "display": "` + list + `"}],
			"purchase-price": [{"amount": 0, "currency": "CAD", "display": "` + purchase + `"}]
		}],
		"_availability": [{"state": "` + state + `"}],
		"_addtocartform": [{"self": {"uri": "/carts/items/vestri/` + code + `/form"}, "links": []}]
	}`
}
