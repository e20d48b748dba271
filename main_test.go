package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	blobmem "meme-studio/blob/memory"
	"meme-studio/editor"
	"meme-studio/handlers/auth"
	storemem "meme-studio/stores/memory"

	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	auth.InitAuth()

	return setupRouter(storemem.NewStore(), blobmem.NewStore(), editor.NewHTTPFetcher())
}

func loginToken(t *testing.T, router http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username": "admin", "password": "hunter2"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed: %d %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	return resp["token"]
}

const createBody = `{
	"name": "guarded",
	"type": "photo",
	"layout_definition": {
		"canvas": {"width": 100, "height": 100, "backgroundColor": "#ffffff"},
		"elements": []
	}
}`

func TestCreateTemplateRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/templates", strings.NewReader(createBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Missing token: expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v2/templates", strings.NewReader(createBody))
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Garbage token: expected 401, got %d", w.Code)
	}
}

func TestCreateTemplateWithToken(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/templates", strings.NewReader(createBody))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReadRoutesArePublic(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/templates?type=photo", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("List without token: expected 200, got %d", w.Code)
	}
}
