package handlers

import (
	"net/http"
	"testing"

	"vivero-api/internal/database"
	"vivero-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRouter() *gin.Engine {
	r := newRouter("11111111-1")
	r.GET("/api/users", GetUsers)
	r.GET("/api/users/:rut", GetUser)
	r.POST("/api/users", CreateUser)
	r.PUT("/api/users/:rut", UpdateUser)
	r.DELETE("/api/users/:rut", DeleteUser)
	r.GET("/api/activity-log", GetActivityLog)
	return r
}

func TestCreateUser(t *testing.T) {
	setupTestDB(t)
	sent := stubMailer(t)
	r := userRouter()

	w := doJSON(t, r, http.MethodPost, "/api/users", CreateUserRequest{
		Rut:      "12345678-9",
		Name:     "María Pérez",
		Email:    "maria@vivero.cl",
		Password: "Abcdefg1",
		Role:     "Trabajador",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, database.DB.First(&user, "rut = ?", "12345678-9").Error)
	assert.Equal(t, "Trabajador", user.Role)

	var audit models.ActivityLog
	require.NoError(t, database.DB.Where("action = ?", "Crear Usuario").First(&audit).Error)

	require.Len(t, *sent, 1)
	assert.Equal(t, "maria@vivero.cl", (*sent)[0].To)
}

func TestCreateUserValidations(t *testing.T) {
	setupTestDB(t)
	stubMailer(t)
	r := userRouter()

	// Malformed RUT
	w := doJSON(t, r, http.MethodPost, "/api/users", CreateUserRequest{
		Rut: "12-3", Name: "María Pérez", Email: "maria@vivero.cl",
		Password: "Abcdefg1", Role: "Trabajador",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Single-word name
	w = doJSON(t, r, http.MethodPost, "/api/users", CreateUserRequest{
		Rut: "12345678-9", Name: "María", Email: "maria@vivero.cl",
		Password: "Abcdefg1", Role: "Trabajador",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Clients are not created here
	w = doJSON(t, r, http.MethodPost, "/api/users", CreateUserRequest{
		Rut: "12345678-9", Name: "María Pérez", Email: "maria@vivero.cl",
		Password: "Abcdefg1", Role: "Cliente",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Weak password
	w = doJSON(t, r, http.MethodPost, "/api/users", CreateUserRequest{
		Rut: "12345678-9", Name: "María Pérez", Email: "maria@vivero.cl",
		Password: "abcdefgh", Role: "Trabajador",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Débil", body["strength"])
}

func TestCreateUserDuplicateRut(t *testing.T) {
	setupTestDB(t)
	stubMailer(t)
	seedUser(t, "12345678-9", "ana@vivero.cl", "Contraseña1", "Trabajador")
	r := userRouter()

	w := doJSON(t, r, http.MethodPost, "/api/users", CreateUserRequest{
		Rut: "12345678-9", Name: "María Pérez", Email: "maria@vivero.cl",
		Password: "Abcdefg1", Role: "Trabajador",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "El RUT ya está en uso.", body["error"])
}

func TestUpdateUserBlocksAccount(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "12345678-9", "ana@vivero.cl", "Contraseña1", "Trabajador")
	r := userRouter()

	blocked := true
	w := doJSON(t, r, http.MethodPut, "/api/users/12345678-9", UpdateUserRequest{Blocked: &blocked})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, database.DB.First(&user, "rut = ?", "12345678-9").Error)
	assert.True(t, user.Blocked)

	// Invalid role is rejected
	w = doJSON(t, r, http.MethodPut, "/api/users/12345678-9", UpdateUserRequest{Role: "Gerente"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUser(t *testing.T) {
	setupTestDB(t)
	seedUser(t, "12345678-9", "ana@vivero.cl", "Contraseña1", "Trabajador")
	r := userRouter()

	w := doJSON(t, r, http.MethodDelete, "/api/users/12345678-9", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetActivityLogNewestFirst(t *testing.T) {
	setupTestDB(t)
	database.LogActivity("11111111-1", "Crear Producto", "primero")
	database.LogActivity("11111111-1", "Crear Proveedor", "segundo")
	r := userRouter()

	w := doJSON(t, r, http.MethodGet, "/api/activity-log", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Crear Producto")
	assert.Contains(t, w.Body.String(), "Crear Proveedor")
}
