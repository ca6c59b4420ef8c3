package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/compra-app/compra-go/config"
	"github.com/compra-app/compra-go/models"
)

// HandleLogin exchanges the admin password for a bearer token.
func (s *Server) HandleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Password is required")
		return
	}

	if config.AdminPasswordHash == "" {
		respondError(c, http.StatusConflict, "Admin password is not configured")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(config.AdminPasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := generateToken()
	if err != nil {
		s.internalError(c, "Token generation failed", err)
		return
	}

	c.SetCookie("admin_auth", token, int(config.TokenLifetime.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "token": token})
}

func generateToken() (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"type": "admin_auth",
		"iat":  now.Unix(),
		"exp":  now.Add(config.TokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}
