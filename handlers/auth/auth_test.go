package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func setupAuth(t *testing.T, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USERNAME", username)
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	InitAuth()
}

func postLogin(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	HandleLogin(w, req)
	return w
}

func TestLogin(t *testing.T) {
	setupAuth(t, "admin", "hunter2")

	w := postLogin(t, `{"username": "admin", "password": "hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	token := resp["token"]
	if token == "" {
		t.Fatal("Login should return a session token")
	}

	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("Issued token does not validate: %v", err)
	}
	if claims.Subject != "admin:admin" || claims.Name != "admin" {
		t.Errorf("Claims mismatch: %+v", claims)
	}
}

func TestLogin_Rejections(t *testing.T) {
	setupAuth(t, "admin", "hunter2")

	testCases := []struct {
		name string
		body string
		code int
	}{
		{"wrong password", `{"username": "admin", "password": "wrong"}`, http.StatusUnauthorized},
		{"wrong username", `{"username": "root", "password": "hunter2"}`, http.StatusUnauthorized},
		{"empty credentials", `{}`, http.StatusUnauthorized},
		{"invalid body", `no json`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postLogin(t, tc.body); w.Code != tc.code {
				t.Errorf("Expected %d, got %d: %s", tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogin_Unconfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	InitAuth()

	if w := postLogin(t, `{"username": "admin", "password": "x"}`); w.Code != http.StatusInternalServerError {
		t.Errorf("Unconfigured auth must refuse logins, got %d", w.Code)
	}
}

func TestParseJWT_RejectsForgedToken(t *testing.T) {
	setupAuth(t, "admin", "hunter2")

	if _, err := ParseJWT("eyJhbGciOiJIUzI1NiJ9.e30.forged"); err == nil {
		t.Error("ParseJWT should reject a forged token")
	}
}
