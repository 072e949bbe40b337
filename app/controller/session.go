package controller

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the visitor session id
const SessionCookieName = "ep_session"

// SessionManager issues visitor session ids. Cortex tokens are stored per
// session id on the server; the cookie holds nothing else.
type SessionManager struct {
	secure bool
	logger *zap.Logger
}

// NewSessionManager creates a SessionManager; secure marks cookies HTTPS-only
func NewSessionManager(secure bool, logger *zap.Logger) *SessionManager {
	return &SessionManager{secure: secure, logger: logger}
}

// SessionID returns the session id of the request, issuing a new one when
// the cookie is missing or not a UUID
func (m *SessionManager) SessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	m.logger.Debug("New visitor session", zap.String("session", id))
	return id
}
