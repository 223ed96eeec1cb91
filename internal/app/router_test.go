package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/coin-users/internal/app"
	"github.com/linemk/coin-users/internal/lib/validation"
	"github.com/linemk/coin-users/internal/service"
	"github.com/linemk/coin-users/internal/storage/storagetest"
)

const testSecret = "routersecret"

type pinger struct{ err error }

func (p pinger) PingContext(ctx context.Context) error { return p.err }

func newServer(t *testing.T, db app.Pinger) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := storagetest.NewMemoryRepo()
	v := validation.New()

	router := app.NewRouter(log, app.RouterDeps{
		AuthService: service.NewAuthService(log, repo, v, testSecret, time.Hour),
		UserService: service.NewUserService(log, repo, v),
		JWTSecret:   testSecret,
		DB:          db,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func doList(t *testing.T, srv *httptest.Server, token string) (int, []map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/users", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out []map[string]any
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

// registerAndLogin регистрирует пользователя и возвращает токен
func registerAndLogin(t *testing.T, srv *httptest.Server, email, username string) string {
	t.Helper()
	status, _ := do(t, srv, http.MethodPost, "/auth/register", "", map[string]any{
		"email": email, "username": username, "password": "123456",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := do(t, srv, http.MethodPost, "/auth/login", "", map[string]any{
		"email": email, "password": "123456",
	})
	require.Equal(t, http.StatusCreated, status)
	token, ok := body["accessToken"].(string)
	require.True(t, ok)
	return token
}

func TestRegister(t *testing.T) {
	srv := newServer(t, nil)

	status, body := do(t, srv, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "a@x.com", "username": "alice", "password": "123456", "coinBalance": 999,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "alice", body["username"])
	assert.EqualValues(t, 0, body["coinBalance"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passHash")
	assert.NotContains(t, body, "PassHash")

	tests := []struct {
		name string
		body map[string]any
		msg  string
	}{
		{"email taken", map[string]any{"email": "a@x.com", "username": "bob", "password": "123456"}, "Email already in use"},
		{"username taken", map[string]any{"email": "b@x.com", "username": "alice", "password": "123456"}, "Username already in use"},
		{"short password", map[string]any{"email": "b@x.com", "username": "bob", "password": "12345"}, "Password must be at least 6 characters"},
		{"bad cin", map[string]any{"email": "b@x.com", "username": "bob", "password": "123456", "cin": "12AB5678"}, "CIN must be exactly 8 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	srv := newServer(t, nil)
	token := registerAndLogin(t, srv, "a@x.com", "alice")
	assert.NotEmpty(t, token)

	for _, creds := range []map[string]any{
		{"email": "a@x.com", "password": "wrong!"},
		{"email": "nobody@x.com", "password": "123456"},
		{"email": "a@x.com", "password": ""},
	} {
		status, body := do(t, srv, http.MethodPost, "/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid email or password", body["message"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newServer(t, nil)

	status, _ := do(t, srv, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodGet, "/users/1", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodPatch, "/users/1", "", map[string]any{"firstName": "X"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodDelete, "/users/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUsersCRUD(t *testing.T) {
	srv := newServer(t, nil)
	token := registerAndLogin(t, srv, "a@x.com", "alice")

	// POST /users открыт и принимает баланс
	status, created := do(t, srv, http.MethodPost, "/users", "", map[string]any{
		"email": "b@x.com", "username": "bob", "password": "123456", "coinBalance": 100,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 100, created["coinBalance"])

	status, noBalance := do(t, srv, http.MethodPost, "/users", "", map[string]any{
		"email": "c@x.com", "username": "carol", "password": "123456",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 0, noBalance["coinBalance"])

	status, list := doList(t, srv, token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 3)

	status, got := do(t, srv, http.MethodGet, "/users/2", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bob", got["username"])

	status, updated := do(t, srv, http.MethodPatch, "/users/2", token, map[string]any{
		"firstName": "Bob", "coinBalance": 500,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bob", updated["firstName"])
	assert.EqualValues(t, 500, updated["coinBalance"])
	assert.Equal(t, "b@x.com", updated["email"])

	status, body := do(t, srv, http.MethodPatch, "/users/2", token, map[string]any{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already in use", body["message"])

	status, deleted := do(t, srv, http.MethodDelete, "/users/2", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bob", deleted["username"])

	status, body = do(t, srv, http.MethodGet, "/users/2", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])

	status, _ = do(t, srv, http.MethodDelete, "/users/2", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUsers_BadID(t *testing.T) {
	srv := newServer(t, nil)
	token := registerAndLogin(t, srv, "a@x.com", "alice")

	status, body := do(t, srv, http.MethodGet, "/users/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed (numeric string is expected)", body["message"])
}

func TestHealth(t *testing.T) {
	status, body := do(t, newServer(t, pinger{}), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = do(t, newServer(t, pinger{err: errors.New("down")}), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
}
