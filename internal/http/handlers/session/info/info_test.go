package info

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

type SessionServiceMock struct {
	mock.Mock
}

func (m *SessionServiceMock) IsValid(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *SessionServiceMock) SessionInfo(ctx context.Context) *models.SessionInfo {
	info, _ := m.Called(ctx).Get(0).(*models.SessionInfo)
	return info
}

func TestInfoHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid session", func(t *testing.T) {
		svc := new(SessionServiceMock)
		svc.On("IsValid", mock.Anything).Return(true).Once()
		svc.On("SessionInfo", mock.Anything).Return(&models.SessionInfo{
			SessionID:           "sid-1",
			UserID:              1,
			Username:            "admin",
			Email:               "admin@example.com",
			Roles:               []string{"ADMIN", "USER"},
			CreatedTime:         1700000000000,
			LastAccessedTime:    1700000001000,
			MaxInactiveInterval: 1800,
		}).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "sid-1", got["sessionId"])
		assert.Equal(t, 1.0, got["userId"])
		assert.Equal(t, "admin", got["username"])
		assert.Equal(t, "admin@example.com", got["email"])
		assert.Equal(t, []any{"ADMIN", "USER"}, got["roles"])
		assert.Equal(t, 1700000000000.0, got["createdTime"])
		assert.Equal(t, 1700000001000.0, got["lastAccessedTime"])
		assert.Equal(t, 1800.0, got["maxInactiveInterval"])
		assert.Equal(t, false, got["isNew"])
		svc.AssertExpectations(t)
	})

	t.Run("no session", func(t *testing.T) {
		svc := new(SessionServiceMock)
		svc.On("IsValid", mock.Anything).Return(false).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Body.String())
		svc.AssertNotCalled(t, "SessionInfo", mock.Anything)
	})
}

func TestInfoHandler_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := new(SessionServiceMock)
	svc.On("IsValid", mock.Anything).Return(true).Once()
	svc.On("SessionInfo", mock.Anything).Return(&models.SessionInfo{SessionID: "sid-1", Username: "admin"}).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	New(logger, svc).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "op=handlers.session.info")
	assert.Contains(t, buf.String(), "request_id=reqid123")
	assert.Contains(t, buf.String(), "username=admin")
}
