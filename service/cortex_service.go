package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
)

// Zoom lists used by the category and search pages
var (
	navigationZoom = []string{"items:element"}
	elementZoom    = []string{"element"}
)

// maxResponseBytes bounds any Cortex response body the storefront reads
const maxResponseBytes = 8 << 20

// CortexError is returned for a non-2xx Cortex response
type CortexError struct {
	Status int
	Method string
	URI    string
}

func (e *CortexError) Error() string {
	return fmt.Sprintf("cortex %s %s: status %d", e.Method, e.URI, e.Status)
}

// ErrInvalidResourceURI is returned for a URI that is not a path under the Cortex root
var ErrInvalidResourceURI = errors.New("cortex resource uri must be an absolute path")

// ValidResourceURI reports whether uri can be appended to the Cortex root
// without leaving its host
func ValidResourceURI(uri string) bool {
	return strings.HasPrefix(uri, "/") && !strings.HasPrefix(uri, "//") && !strings.Contains(uri, "\\")
}

// CortexPostResponse is the outcome of a form submission
type CortexPostResponse struct {
	Status      int
	Location    string
	ContentType string
	Body        []byte
}

// CortexService talks to the Cortex REST API on behalf of a visitor session
type CortexService struct {
	httpClient *http.Client
	api        config.CortexAPIConfig
	auth       AuthServiceInterface
	logger     *zap.Logger
}

// NewCortexService creates a new CortexService
func NewCortexService(httpClient *http.Client, api config.CortexAPIConfig, auth AuthServiceInterface, logger *zap.Logger) *CortexService {
	return &CortexService{
		httpClient: httpClient,
		api:        api,
		auth:       auth,
		logger:     logger,
	}
}

// Ensure CortexService implements CortexServiceInterface
var _ CortexServiceInterface = (*CortexService)(nil)

// ResourceURL returns the absolute URL of uri with the zoom list appended.
// The result always stays on the host of the configured Cortex path.
func (s *CortexService) ResourceURL(uri string, zoom []string) (string, error) {
	if !ValidResourceURI(uri) {
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceURI, uri)
	}

	u := strings.TrimRight(s.api.Path, "/") + uri
	if len(zoom) > 0 {
		sep := "?"
		if strings.Contains(uri, "?") {
			sep = "&"
		}
		u += sep + "zoom=" + strings.Join(zoom, ",")
	}

	base, err := url.Parse(s.api.Path)
	if err != nil {
		return "", fmt.Errorf("invalid cortex path: %w", err)
	}
	resolved, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceURI, uri)
	}
	if resolved.Host != base.Host || resolved.Scheme != base.Scheme {
		return "", fmt.Errorf("%w: %q leaves %s", ErrInvalidResourceURI, uri, base.Host)
	}
	return u, nil
}

// Fetch GETs uri with zoom and decodes the response into out
func (s *CortexService) Fetch(ctx context.Context, sessionID, uri string, zoom []string, out any) error {
	resp, err := s.do(ctx, sessionID, http.MethodGet, uri, zoom, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", uri, err)
	}
	return nil
}

// Post submits body as JSON to the form at uri
func (s *CortexService) Post(ctx context.Context, sessionID, uri string, body any) (*CortexPostResponse, error) {
	resp, err := s.do(ctx, sessionID, http.MethodPost, uri, nil, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", uri, err)
	}

	return &CortexPostResponse{
		Status:      resp.StatusCode,
		Location:    resp.Header.Get("Location"),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// PostFollow submits body to the form at uri, asks Cortex to follow the
// created resource and decodes it with zoom into out
func (s *CortexService) PostFollow(ctx context.Context, sessionID, uri string, body any, zoom []string, out any) error {
	followURI := uri
	if strings.Contains(uri, "?") {
		followURI += "&followlocation"
	} else {
		followURI += "?followlocation"
	}

	resp, err := s.do(ctx, sessionID, http.MethodPost, followURI, zoom, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", uri, err)
	}
	return nil
}

// LookupNavigation resolves a category code to its navigation with the item elements zoomed
func (s *CortexService) LookupNavigation(ctx context.Context, sessionID, code string) (*models.CortexItemList, error) {
	var nav models.CortexItemList
	uri := fmt.Sprintf("/navigations/%s/lookups/form", s.api.Scope)
	if err := s.PostFollow(ctx, sessionID, uri, map[string]string{"code": code}, navigationZoom, &nav); err != nil {
		return nil, fmt.Errorf("failed to look up navigation %s: %w", code, err)
	}
	return &nav, nil
}

// SearchKeywords runs a keyword search and returns the first result page
func (s *CortexService) SearchKeywords(ctx context.Context, sessionID, keywords string) (*models.CortexItemList, error) {
	var result models.CortexItemList
	uri := fmt.Sprintf("/searches/%s/keywords/form", s.api.Scope)
	if err := s.PostFollow(ctx, sessionID, uri, map[string]string{"keywords": keywords}, elementZoom, &result); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", keywords, err)
	}
	return &result, nil
}

// FetchOfferSearch fetches an offer search result produced by a facet selection
func (s *CortexService) FetchOfferSearch(ctx context.Context, sessionID, uri string) (*models.CortexItemList, error) {
	segments := strings.Split(strings.TrimPrefix(uri, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	uri = "/" + strings.Join(segments, "/")

	var result models.CortexItemList
	if err := s.Fetch(ctx, sessionID, uri, elementZoom, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do logs the session in, sends the request and checks the status.
// A 401 drops the stored token.
func (s *CortexService) do(ctx context.Context, sessionID, method, uri string, zoom []string, body any) (*http.Response, error) {
	target, err := s.ResourceURL(uri, zoom)
	if err != nil {
		return nil, err
	}

	if err := s.auth.Login(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	token, _, err := s.auth.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call cortex %s %s: %w", method, uri, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cerr := &CortexError{Status: resp.StatusCode, Method: method, URI: uri}

		if resp.StatusCode == http.StatusUnauthorized {
			s.logger.Warn("⚠️  Cortex rejected the session token", zap.String("uri", uri))
			if err := s.auth.Logout(ctx, sessionID); err != nil {
				s.logger.Error("❌ Failed to drop rejected token", zap.Error(err))
			}
		}
		return nil, cerr
	}

	return resp, nil
}
