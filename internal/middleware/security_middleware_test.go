package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vivero-api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api", AuthMiddleware())
	if len(roles) > 0 {
		group = group.Group("", RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rut": c.GetString("rut")})
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protectedRouter()

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.GenerateToken("12345678-9", "Ana", "Trabajador")
	require.NoError(t, err)
	w = get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "12345678-9")
}

func TestRequireRole(t *testing.T) {
	staffOnly := protectedRouter("Administrador", "Trabajador")

	worker, err := auth.GenerateToken("12345678-9", "Ana", "Trabajador")
	require.NoError(t, err)
	w := get(staffOnly, "Bearer "+worker)
	assert.Equal(t, http.StatusOK, w.Code)

	client, err := auth.GenerateToken("11111111-1", "Cliente Uno", "Cliente")
	require.NoError(t, err)
	w = get(staffOnly, "Bearer "+client)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminOnly := protectedRouter("Administrador")
	w = get(adminOnly, "Bearer "+worker)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
