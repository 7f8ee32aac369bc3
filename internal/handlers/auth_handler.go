package handlers

import (
	"errors"
	"net/http"

	"github.com/ByteToHex/vrf-lottery-backend/internal/models"
	"github.com/ByteToHex/vrf-lottery-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, expiresIn, err := h.authService.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, ExpiresIn: expiresIn})
}
