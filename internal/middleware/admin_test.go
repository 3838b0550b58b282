package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreesteel/backend/internal/auth"
)

func setupAdminRouter(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := auth.NewService([]byte("test-secret"), "admin", "s3cret", "", time.Hour)

	router := gin.New()
	router.GET("/admin/ping", RequireAdmin(authService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("admin_username")})
	})
	return router, authService
}

func TestRequireAdminMissingToken(t *testing.T) {
	router, _ := setupAdminRouter(t)

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminInvalidToken(t *testing.T) {
	router, _ := setupAdminRouter(t)

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireAdminValidToken(t *testing.T) {
	router, authService := setupAdminRouter(t)

	resp, err := authService.Login("admin", "s3cret")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}
