package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authRouter(seen *rbac.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(secret), func(c *gin.Context) {
		*seen = middleware.Principal(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	employeeID := uuid.New()

	t.Run("bearer token yields principal", func(t *testing.T) {
		var seen rbac.Principal
		token := signToken(t, jwt.MapClaims{
			"user_id":     userID.String(),
			"employee_id": employeeID.String(),
			"role":        "admin",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		authRouter(&seen).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, seen.UserID)
		require.NotNil(t, seen.EmployeeID)
		assert.Equal(t, employeeID, *seen.EmployeeID)
		assert.Equal(t, rbac.RoleAdmin, seen.Role)
	})

	t.Run("cookie token without profile", func(t *testing.T) {
		var seen rbac.Principal
		token := signToken(t, jwt.MapClaims{
			"user_id": userID.String(),
			"role":    "employee",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		authRouter(&seen).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, seen.EmployeeID)
		assert.Equal(t, rbac.RoleEmployee, seen.Role)
	})

	t.Run("missing token", func(t *testing.T) {
		var seen rbac.Principal
		w := httptest.NewRecorder()
		authRouter(&seen).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		var seen rbac.Principal
		token := signToken(t, jwt.MapClaims{
			"user_id": userID.String(),
			"exp":     time.Now().Add(-time.Minute).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		authRouter(&seen).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("wrong secret", func(t *testing.T) {
		var seen rbac.Principal
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID.String()}).
			SignedString([]byte("other"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		authRouter(&seen).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	build := func(role rbac.Role) *gin.Engine {
		r := gin.New()
		r.GET("/x",
			func(c *gin.Context) { middleware.SetPrincipal(c, rbac.Principal{UserID: uuid.New(), Role: role}) },
			middleware.RequireRole(rbac.RoleAdmin),
			func(c *gin.Context) { c.Status(http.StatusNoContent) },
		)
		return r
	}

	w := httptest.NewRecorder()
	build(rbac.RoleAdmin).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	build(rbac.RoleEmployee).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
