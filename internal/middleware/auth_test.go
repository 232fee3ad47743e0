package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mafia_web/internal/models"
	"mafia_web/internal/service"
)

type stubAuthenticator struct {
	users map[string]*models.User
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, service.CredentialsError("could not validate credentials")
}

func setupRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(auth, DefaultPublicPaths, zap.NewNop()))

	ok := func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"user": user.Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
	}
	r.GET("/", ok)
	r.GET("/health", ok)
	r.POST("/users", ok)
	r.POST("/token", ok)
	r.GET("/users/me", ok)
	r.GET("/rooms", ok)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuthenticator{users: map[string]*models.User{"good": {ID: 1, Username: "alice"}}}
	r := setupRouter(auth)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
	}{
		{"public root", http.MethodGet, "/", "", http.StatusOK},
		{"public health", http.MethodGet, "/health", "", http.StatusOK},
		{"public register", http.MethodPost, "/users", "", http.StatusOK},
		{"public token", http.MethodPost, "/token", "", http.StatusOK},
		{"missing header", http.MethodGet, "/rooms", "", http.StatusUnauthorized},
		{"subpath of public path", http.MethodGet, "/users/me", "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "/rooms", "Basic good", http.StatusUnauthorized},
		{"empty token", http.MethodGet, "/rooms", "Bearer ", http.StatusUnauthorized},
		{"invalid token", http.MethodGet, "/rooms", "Bearer bad", http.StatusUnauthorized},
		{"valid token", http.MethodGet, "/users/me", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.status == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Fatalf("expected WWW-Authenticate header")
			}
		})
	}
}

func TestAuthMiddlewareInternalError(t *testing.T) {
	r := setupRouter(stubAuthenticator{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
