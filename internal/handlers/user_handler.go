package handlers

import (
	"fmt"
	"log"
	"net/http"
	"regexp"

	"vivero-api/internal/auth"
	"vivero-api/internal/database"
	"vivero-api/internal/mailer"
	"vivero-api/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	rutPattern  = regexp.MustCompile(`^\d{7,8}-[0-9kK]$`)
	namePattern = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ]+( [a-zA-ZáéíóúÁÉÍÓÚñÑ]+)+$`)
)

// --- GET: List all users ---
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// --- GET: One user by RUT ---
func GetUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "rut = ?", c.Param("rut")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type CreateUserRequest struct {
	Rut      string `json:"rut" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// --- POST: Create a staff account (admin only) ---
func CreateUser(c *gin.Context) {
	var input CreateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !rutPattern.MatchString(input.Rut) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El RUT debe tener entre 8 y 9 caracteres con guion. Ejemplo: 12345678-9"})
		return
	}
	if !namePattern.MatchString(input.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Debe ingresar un nombre completo válido, sin números."})
		return
	}
	if input.Role != "Trabajador" && input.Role != "Administrador" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El rol seleccionado no es válido."})
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("rut = ?", input.Rut).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El RUT ya está en uso."})
		return
	}
	database.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El correo electrónico ya está en uso."})
		return
	}

	strength := auth.PasswordStrength(input.Password)
	if len(input.Password) < 8 || strength == auth.StrengthWeak {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "La contraseña es demasiado débil.",
			"strength": strength,
		})
		return
	}

	hash, salt, err := auth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Rut:          input.Rut,
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	database.LogActivity(c.GetString("rut"), "Crear Usuario", fmt.Sprintf("Usuario creado: %s", user.Name))

	if err := mailer.Send(user.Email, "Registro exitoso",
		fmt.Sprintf("Hola %s, te has registrado exitosamente en nuestro sistema.", user.Name)); err != nil {
		log.Println("Welcome mail failed:", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "User created successfully",
		"strength": strength,
		"user":     user,
	})
}

type UpdateUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Blocked *bool  `json:"blocked"`
}

// --- PUT: Update name/email/role/block flag. Passwords change only
// through the reset flow. ---
func UpdateUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "rut = ?", c.Param("rut")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Role != "" {
		if input.Role != "Trabajador" && input.Role != "Administrador" && input.Role != "Cliente" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El rol seleccionado no es válido."})
			return
		}
		user.Role = input.Role
	}
	if input.Blocked != nil {
		user.Blocked = *input.Blocked
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// --- DELETE: Remove a user ---
func DeleteUser(c *gin.Context) {
	rut := c.Param("rut")
	if err := database.DB.Delete(&models.User{}, "rut = ?", rut).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// --- GET: Audit trail, newest first ---
func GetActivityLog(c *gin.Context) {
	var entries []models.ActivityLog
	if err := database.DB.Order("logged_at desc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
