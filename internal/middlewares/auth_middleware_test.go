package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func setupRouter(t *testing.T, adminOnly bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	os.Setenv("JWT_SECRET", testSecret)
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware()}
	if adminOnly {
		handlers = append(handlers, AdminMiddleware())
	}
	handlers = append(handlers, func(c *gin.Context) {
		uid, _ := c.Get("userID")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": role})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := setupRouter(t, false)
	w := doGet(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want 401", w.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := setupRouter(t, false)
	w := doGet(r, "Token abc")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want 401", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := setupRouter(t, false)
	token := signToken(t, jwt.MapClaims{
		"user_id": 7,
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r := setupRouter(t, false)
	token := signToken(t, jwt.MapClaims{
		"user_id": 7,
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}, testSecret)

	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := setupRouter(t, false)
	token := signToken(t, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, "another-secret")

	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want 401", w.Code)
	}
}

func TestAuthMiddleware_MissingUserIDClaim(t *testing.T) {
	r := setupRouter(t, false)
	token := signToken(t, jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code=%d want 401", w.Code)
	}
}

func TestAdminMiddleware_RejectsUserRole(t *testing.T) {
	r := setupRouter(t, true)
	token := signToken(t, jwt.MapClaims{
		"user_id": 7,
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("code=%d want 403", w.Code)
	}
}

func TestAdminMiddleware_AllowsAdminRole(t *testing.T) {
	r := setupRouter(t, true)
	token := signToken(t, jwt.MapClaims{
		"user_id": 1,
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := doGet(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}
