package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"notesapp/internal/auth"
	"notesapp/internal/notes/notestest"
	"notesapp/internal/users/userstest"
)

func newTestRouter(t *testing.T, ping func(context.Context) error) http.Handler {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", "notesapp", 24*time.Hour)
	require.NoError(t, err)

	srv, err := New(Deps{
		Users:      userstest.NewMemStore(),
		Notes:      notestest.NewMemStore(),
		Tokens:     tokens,
		HashCost:   bcrypt.MinCost,
		CORSOrigin: "http://localhost:5173",
		Ping:       ping,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return srv.Router()
}

func send(t *testing.T, h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	}
	return rec, out
}

func TestRootAndHealth(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, body := send(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World", body["data"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec, body = send(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthReportsStoreFailure(t *testing.T) {
	h := newTestRouter(t, func(context.Context) error { return errors.New("no primary") })

	rec, body := send(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, path := range []string{"/get-user", "/get-all-notes"} {
		rec, body := send(t, h, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.NotEmpty(t, body["msg"], path)
	}

	rec, _ := send(t, h, http.MethodPost, "/mcp", `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownPathIsNotFoundWithOrWithoutToken(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, _ := send(t, h, http.MethodGet, "/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := send(t, h, http.MethodPost, "/create-account",
		`{"name":"Amy","email":"amy@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["accessToken"].(string)

	rec, _ = send(t, h, http.MethodGet, "/unknown", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflightOnProtectedRoute(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/get-all-notes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNoteLifecycle(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, body := send(t, h, http.MethodPost, "/create-account",
		`{"name":"Amy","email":"amy@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)

	rec, body = send(t, h, http.MethodPost, "/create-account",
		`{"name":"Amy","email":"amy@x.com","password":"other"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User with the email already exists", body["msg"])

	rec, body = send(t, h, http.MethodPost, "/login", `{"email":"amy@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "amy@x.com", body["email"])

	rec, body = send(t, h, http.MethodGet, "/get-user", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Amy", user["Name"])
	assert.NotContains(t, user, "Password")

	rec, body = send(t, h, http.MethodPost, "/add-note", `{"title":"Hi","content":"World"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	note := body["note"].(map[string]any)
	id := note["_id"].(string)

	rec, _ = send(t, h, http.MethodPut, "/update-note-pinned/"+id, `{"isPinned":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = send(t, h, http.MethodGet, "/get-all-notes", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["notes"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, id, first["_id"])
	assert.Equal(t, true, first["isPinned"])

	rec, _ = send(t, h, http.MethodGet, "/view-note/"+id, "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = send(t, h, http.MethodDelete, "/delete-note/"+id, "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = send(t, h, http.MethodGet, "/get-all-notes", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["notes"])
}
