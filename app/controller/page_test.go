package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPNavigatorStatus(t *testing.T) {
	tests := []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusFound},
		{http.MethodPost, http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			nav := NewHTTPNavigator(rec, httptest.NewRequest(tt.method, "/category/mens", nil))

			nav.Push("/mycart")
			nav.Push("/ignored")

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "/mycart", rec.Header().Get("Location"))
			assert.Equal(t, "/mycart", nav.Pushed())
		})
	}
}

func TestSessionIDIssuesCookie(t *testing.T) {
	m := NewSessionManager(true, zap.NewNop())

	rec := httptest.NewRecorder()
	id := m.SessionID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestSessionIDReusesValidCookie(t *testing.T) {
	m := NewSessionManager(false, zap.NewNop())
	existing := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: existing})
	rec := httptest.NewRecorder()

	assert.Equal(t, existing, m.SessionID(rec, req))
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})
	rec = httptest.NewRecorder()

	assert.NotEqual(t, "not-a-uuid", m.SessionID(rec, req))
	assert.Len(t, rec.Result().Cookies(), 1)
}
