package Controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndLogout(t *testing.T) {
	app := setupTestApp(t)

	w, env := app.do(t, http.MethodPost, "/admin/login", map[string]string{"username": testAdminUser, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Status)

	token := app.login(t)

	w, _ = app.do(t, http.MethodGet, "/admin/orders", nil, withToken(token))
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodPost, "/admin/logout", nil, withToken(token))
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodGet, "/admin/orders", nil, withToken(token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	app := setupTestApp(t)

	var last int
	for i := 0; i < 6; i++ {
		w, _ := app.do(t, http.MethodPost, "/admin/login", map[string]string{"username": "x", "password": "y"})
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLandingAndNotFound(t *testing.T) {
	app := setupTestApp(t)

	w, _ := app.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cardapio", w.Header().Get("Location"))

	w, env := app.do(t, http.MethodGet, "/nao-existe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Status)
	assert.Equal(t, "not found", env.Message)

	w, env = app.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", env.Message)
}

func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("foto", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	app := setupTestApp(t)
	token := app.login(t)

	body, contentType := multipartImage(t, "bolo.png", []byte("\x89PNG fake"))
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "http://localhost:8080/uploads/")

	entries, err := os.ReadDir(app.uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".png"))

	served := httptest.NewRecorder()
	app.router.ServeHTTP(served, httptest.NewRequest(http.MethodGet, "/uploads/"+entries[0].Name(), nil))
	assert.Equal(t, http.StatusOK, served.Code)

	require.NoError(t, os.WriteFile(filepath.Join(app.uploadDir, "notes.txt"), []byte("x"), 0644))
	forbidden := httptest.NewRecorder()
	app.router.ServeHTTP(forbidden, httptest.NewRequest(http.MethodGet, "/uploads/notes.txt", nil))
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	body, contentType = multipartImage(t, "script.sh", []byte("echo"))
	req = httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
