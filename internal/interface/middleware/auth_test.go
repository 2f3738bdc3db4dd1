package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalnorte/noticias-backend/pkg/helpers"
)

func newAuthTestRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(CtxEmailKey)})
	})
	r.GET("/admin", Auth(jwt), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	r := newAuthTestRouter(helpers.NewJWTManager("secret", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "").Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	r := newAuthTestRouter(helpers.NewJWTManager("secret", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "Bearer").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "Bearer not-a-token").Code)
}

func TestAuthValidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newAuthTestRouter(jwt)

	token, _, err := jwt.Generate("user-1", "ana@example.com", false)
	require.NoError(t, err)

	w := doGet(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@example.com")
}

func TestAuthExpiredToken(t *testing.T) {
	expired := helpers.NewJWTManager("secret", -time.Minute)
	r := newAuthTestRouter(helpers.NewJWTManager("secret", time.Hour))

	token, _, err := expired.Generate("user-1", "ana@example.com", false)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/me", "Bearer "+token).Code)
}

func TestRequireAdminRejectsStandardRole(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newAuthTestRouter(jwt)

	token, _, err := jwt.Generate("user-1", "ana@example.com", false)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin", "Bearer "+token).Code)
}

func TestRequireAdminAllowsAdminRole(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newAuthTestRouter(jwt)

	token, _, err := jwt.Generate("admin-1", "admin@example.com", true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "/admin", "Bearer "+token).Code)
}
