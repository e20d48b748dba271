package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"meme-studio/core"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret         []byte
	adminUsername     string
	adminPasswordHash []byte
)

// AppClaims represents the custom claims for the JWT.
type AppClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// InitAuth reads the credential and token configuration. The credential is
// verified server-side against a bcrypt hash; the plaintext password is
// never stored.
func InitAuth() {
	jwtSecret = []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logrus.Warn("JWT_SECRET is not set. Authentication will not work.")
	}

	adminUsername = os.Getenv("ADMIN_USERNAME")
	adminPasswordHash = []byte(os.Getenv("ADMIN_PASSWORD_HASH"))
	if adminUsername == "" || len(adminPasswordHash) == 0 {
		logrus.Warn("ADMIN_USERNAME or ADMIN_PASSWORD_HASH is not set. Login will be rejected.")
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies the admin credential and issues a session token.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid request body"})
		return
	}

	if adminUsername == "" || len(adminPasswordHash) == 0 {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Authentication not configured"})
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(adminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		logrus.WithField("username", req.Username).Warn("Rejected login attempt")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "Invalid credentials"})
		return
	}

	token, err := createJWT(&core.User{
		Subject: "admin:" + adminUsername,
		Name:    adminUsername,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create session token")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to create session token"})
		return
	}

	render.JSON(w, r, map[string]string{"token": token})
}

func createJWT(user *core.User) (string, error) {
	claims := AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * 7)), // 1 week
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Name: user.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates a session token and returns its claims.
func ParseJWT(tokenString string) (*AppClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AppClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
