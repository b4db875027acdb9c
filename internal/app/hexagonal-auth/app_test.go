package hexagonalauth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hexagonal-auth/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		HTTPServer: config.HTTPServer{
			AddressHTTP: "127.0.0.1:0",
			TimeoutHTTP: 5 * time.Second,
			IdleTimeout: 5 * time.Second,
		},
		Session: config.Session{
			SessionStore: "memory",
			CookieName:   "JSESSIONID",
			MaxInactive:  30 * time.Minute,
			Namespace:    "test:session",
		},
		Storage: config.Storage{Driver: "memory"},
		CORS: config.CORS{
			AllowedOrigins: []string{"http://localhost:5173"},
			MaxAge:         time.Hour,
		},
		JWTToken: config.JWTToken{TokenTTL: 30 * time.Minute},
		RateLimit: config.RateLimit{
			LoginPerMinute:  600,
			LoginBurst:      100,
			CleanupInterval: time.Minute,
		},
	}
}

type client struct {
	t    *testing.T
	http *http.Client
	base string
}

func newClient(t *testing.T, cfg *config.Config) *client {
	t.Helper()
	app, err := New(context.Background(), cfg, newNoopLogger())
	require.NoError(t, err)
	t.Cleanup(app.close)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, http: &http.Client{Jar: jar}, base: srv.URL}
}

func (c *client) do(method, path, body string) (*http.Response, string) {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(data)
}

func (c *client) json(method, path, body string) (int, map[string]any) {
	c.t.Helper()
	resp, data := c.do(method, path, body)
	var got map[string]any
	if data != "" {
		require.NoError(c.t, json.Unmarshal([]byte(data), &got), data)
	}
	return resp.StatusCode, got
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "JSESSIONID" {
			return c
		}
	}
	return nil
}

func runSessionFlow(t *testing.T, c *client) {
	resp, body := c.do(http.MethodGet, "/api/session/validate", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Session is invalid or expired", body)

	code, got := c.json(http.MethodGet, "/api/currency/convert?amount=38", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication required", got["message"])

	code, got = c.json(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, map[string]any{"success": false, "message": "Invalid username or password"}, got)

	resp, body = c.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1800, cookie.MaxAge)

	code, got = c.json(http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, cookie.Value, got["sessionId"])
	assert.Equal(t, "admin", got["username"])
	assert.Equal(t, float64(1800), got["maxInactiveInterval"])

	resp, body = c.do(http.MethodGet, "/api/session/validate", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Session is valid", body)

	code, got = c.json(http.MethodGet, "/api/session/user", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", got["username"])
	assert.Equal(t, []any{"ADMIN", "USER"}, got["roles"])

	code, got = c.json(http.MethodGet, "/api/currency/convert?amount=38", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(10), got["convertedAmount"])
	assert.Equal(t, "PEN", got["originalCurrency"])
	assert.Equal(t, "USD", got["targetCurrency"])

	code, got = c.json(http.MethodGet, "/api/currency/convert?amount=-5", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Amount cannot be negative", got["error"])

	code, got = c.json(http.MethodPost, "/api/session/logout", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"message": "Logout successful", "status": "success"}, got)

	resp, _ = c.do(http.MethodGet, "/api/session/validate", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestApp_SessionFlow(t *testing.T) {
	runSessionFlow(t, newClient(t, testConfig()))
}

func TestApp_SessionFlowWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig()
	cfg.SessionStore = "redis"
	cfg.AddressRedis = mr.Addr()
	c := newClient(t, cfg)

	runSessionFlow(t, c)

	resp, _ := c.do(http.MethodPost, "/api/auth/login", `{"username":"user","password":"user123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, mr.Exists("test:session:session:"+cookie.Value))
	assert.True(t, mr.Exists("test:session:principal:user"))

	resp, body := c.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
}

func TestApp_LoginIssuesTokenWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecretKey = "secret"
	c := newClient(t, cfg)

	code, got := c.json(http.MethodPost, "/api/auth/login", `{"username":"user","password":"user123"}`)
	require.Equal(t, http.StatusOK, code)
	token, ok := got["token"].(string)
	require.True(t, ok)

	// Сессия определяется по токену без cookie.
	req, err := http.NewRequest(http.MethodGet, c.base+"/api/session/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_PublicEndpoints(t *testing.T) {
	c := newClient(t, testConfig())

	tests := []struct {
		name     string
		path     string
		wantCode int
		contains string
	}{
		{name: "health", path: "/api/health", wantCode: http.StatusOK, contains: "OK"},
		{name: "auth health", path: "/api/auth/health", wantCode: http.StatusOK, contains: "Authentication service is running"},
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK, contains: "go_goroutines"},
		{name: "docs", path: "/docs/doc.json", wantCode: http.StatusOK, contains: "/api/auth/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := c.do(http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Contains(t, body, tt.contains)
		})
	}
}

func TestApp_MetricsCountLogins(t *testing.T) {
	c := newClient(t, testConfig())

	c.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"bad"}`)
	c.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`)

	_, body := c.do(http.MethodGet, "/metrics", "")
	assert.Contains(t, body, `hexauth_login_attempts_total{result="failure"} 1`)
	assert.Contains(t, body, `hexauth_login_attempts_total{result="success"} 1`)
	assert.Contains(t, body, `hexauth_sessions_created_total 1`)
}

func TestApp_CORSPreflight(t *testing.T) {
	c := newClient(t, testConfig())

	req, err := http.NewRequest(http.MethodOptions, c.base+"/api/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := c.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestApp_LoginOverlongCredentials(t *testing.T) {
	c := newClient(t, testConfig())
	long := strings.Repeat("a", 300)

	for _, body := range []string{
		`{"username":"` + long + `","password":"admin123"}`,
		`{"username":"admin","password":"` + long + `"}`,
	} {
		code, got := c.json(http.MethodPost, "/api/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, map[string]any{"success": false, "message": "Invalid username or password"}, got)
	}
}

func TestApp_LoginRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.LoginPerMinute = 1
	cfg.LoginBurst = 1
	c := newClient(t, cfg)

	code, _ := c.json(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	resp, _ := c.do(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"bad"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestNew_InvalidRedis(t *testing.T) {
	cfg := testConfig()
	cfg.SessionStore = "redis"
	cfg.AddressRedis = "127.0.0.1:1"
	cfg.DialTimeout = 200 * time.Millisecond

	app, err := New(context.Background(), cfg, newNoopLogger())
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.AddressGRPC = "127.0.0.1:0"
	app, err := New(context.Background(), cfg, newNoopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
