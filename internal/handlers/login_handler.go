package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"vivero-api/internal/auth"
	"vivero-api/internal/database"
	"vivero-api/internal/mailer"
	"vivero-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.Blocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
		return
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash, user.PasswordSalt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.Rut, user.Name, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  user.Role,
		"name":  user.Name,
		"rut":   user.Rut,
	})
}

type RegisterClientRequest struct {
	Rut      string `json:"rut" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterClient is the public signup for nursery customers. Staff
// accounts are created by an administrator through /api/users.
func RegisterClient(c *gin.Context) {
	var input RegisterClientRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El correo electrónico ya está en uso."})
		return
	}

	database.DB.Model(&models.User{}).Where("rut = ?", input.Rut).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El Rut es obligatorio y debe ser único."})
		return
	}

	if !hasUpper(input.Password) || len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña debe tener al menos 8 caracteres y una letra mayúscula."})
		return
	}

	hash, salt, err := auth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	client := models.User{
		Rut:          input.Rut,
		Name:         input.Name,
		Email:        input.Email,
		Role:         "Cliente",
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	if err := database.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User likely already exists"})
		return
	}

	if err := mailer.Send(client.Email, "Registro exitoso",
		fmt.Sprintf("Hola %s, te has registrado exitosamente en nuestro sistema.", client.Name)); err != nil {
		log.Println("Welcome mail failed:", err)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Cuenta creada exitosamente. Ahora puedes iniciar sesión."})
}

func hasUpper(s string) bool {
	for _, ch := range s {
		if ch >= 'A' && ch <= 'Z' {
			return true
		}
	}
	return false
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a single-use reset token valid for 24 hours and
// mails the reset link.
func ForgotPassword(c *gin.Context) {
	var input ForgotPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No se encontró una cuenta asociada a este correo."})
		return
	}

	request := models.PasswordResetRequest{
		Email:       input.Email,
		Token:       uuid.NewString(),
		RequestedAt: time.Now().UTC(),
	}
	if err := database.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset request"})
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", baseURL(), request.Token)
	if err := mailer.Send(input.Email, "Restablecimiento de Contraseña",
		"Haz clic en el siguiente enlace para restablecer tu contraseña: "+resetLink); err != nil {
		log.Println("Reset mail failed:", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Se ha enviado un correo con las instrucciones para recuperar tu contraseña."})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPassword consumes a reset token: it must be unused and younger
// than 24 hours. A consumed token cannot be replayed.
func ResetPassword(c *gin.Context) {
	var input ResetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var request models.PasswordResetRequest
	err := database.DB.Where("token = ? AND used = ?", input.Token, false).First(&request).Error
	if err != nil || time.Now().UTC().After(request.RequestedAt.Add(24*time.Hour)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El enlace de restablecimiento es inválido o ha expirado."})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", request.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El usuario asociado no se encontró."})
		return
	}

	hash, salt, err := auth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user.PasswordHash = hash
	user.PasswordSalt = salt
	request.Used = true

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	if err := database.DB.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to consume reset token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tu contraseña ha sido restablecida exitosamente."})
}

// EnsureAdmin seeds a default administrator on first boot so the system
// is never left without one.
func EnsureAdmin() {
	var count int64
	database.DB.Model(&models.User{}).Where("role = ?", "Administrador").Count(&count)
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
	}

	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		log.Println("Failed to seed admin:", err)
		return
	}

	admin := models.User{
		Rut:          "admin",
		Name:         "Admin",
		Email:        "admin@admin.cl",
		Role:         "Administrador",
		PasswordHash: hash,
		PasswordSalt: salt,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Println("Failed to seed admin:", err)
		return
	}
	log.Println("⚠️ Default administrator created (admin@admin.cl). Change its password!")
}

func baseURL() string {
	if base := os.Getenv("BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:8080"
}
