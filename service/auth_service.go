package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront/config"
	"storefront/models"
	"storefront/repository"
)

// AuthService obtains public-role Cortex tokens and keeps them per session
type AuthService struct {
	httpClient *http.Client
	api        config.CortexAPIConfig
	tokens     repository.TokenRepositoryInterface
	logins     singleflight.Group
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(httpClient *http.Client, api config.CortexAPIConfig, tokens repository.TokenRepositoryInterface, logger *zap.Logger) *AuthService {
	return &AuthService{
		httpClient: httpClient,
		api:        api,
		tokens:     tokens,
		logger:     logger,
	}
}

// Ensure AuthService implements AuthServiceInterface
var _ AuthServiceInterface = (*AuthService)(nil)

// Login returns once sessionID has a stored token. Concurrent calls for the
// same session share one token request.
func (s *AuthService) Login(ctx context.Context, sessionID string) error {
	if _, ok, err := s.Token(ctx, sessionID); err != nil || ok {
		return err
	}

	_, err, shared := s.logins.Do(sessionID, func() (any, error) {
		// another caller may have finished between the check and Do
		if _, ok, err := s.Token(ctx, sessionID); err != nil || ok {
			return nil, err
		}
		return nil, s.requestToken(ctx, sessionID)
	})
	if shared {
		s.logger.Debug("🔑 Login: shared in-flight token request", zap.String("session", sessionID))
	}
	return err
}

func (s *AuthService) requestToken(ctx context.Context, sessionID string) error {
	form := url.Values{}
	form.Set("username", "")
	form.Set("password", "")
	form.Set("grant_type", "password")
	form.Set("role", "PUBLIC")
	form.Set("scope", s.api.Scope)

	tokenURL := strings.TrimRight(s.api.Path, "/") + "/oauth2/tokens"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	s.logger.Info("🔑 Login: requesting public token", zap.String("scope", s.api.Scope))
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &CortexError{Status: resp.StatusCode, Method: http.MethodPost, URI: "/oauth2/tokens"}
	}

	var token models.CortexTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return errors.New("token response has no access_token")
	}

	if err := s.tokens.Put(ctx, sessionID, s.api.TokenStorageKey(), "Bearer "+token.AccessToken); err != nil {
		return err
	}

	s.logger.Info("✓ Login: public token stored", zap.String("session", sessionID))
	return nil
}

// Token returns the stored authorization value of sessionID
func (s *AuthService) Token(ctx context.Context, sessionID string) (string, bool, error) {
	return s.tokens.Get(ctx, sessionID, s.api.TokenStorageKey())
}

// Logout drops the stored token so the next Login requests a new one
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.tokens.Delete(ctx, sessionID, s.api.TokenStorageKey())
}
