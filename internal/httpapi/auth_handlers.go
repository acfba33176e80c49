package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"task-manager/internal/service"
)

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Username             string `json:"username"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	// A missing or malformed body reads as absent fields and falls through
	// to the validation response.
	if err := c.ShouldBindJSON(&req); err != nil {
		req = registerRequest{}
	}

	user, accessToken, expiresIn, err := s.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Username:             req.Username,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokenEnvelope(accessToken, expiresIn, user))
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = loginRequest{}
	}

	user, accessToken, expiresIn, err := s.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenEnvelope(accessToken, expiresIn, user))
}

// handleLogout acknowledges the logout. Tokens are stateless, so the server
// keeps no session to destroy; the client discards its copy.
func (s *Server) handleLogout(c *gin.Context) {
	if err := s.tokens.Invalidate(c.GetString(ctxTokenKey)); err != nil {
		// The gate already verified the token, so this should not happen.
		log.Printf("logout: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada exitosamente"})
}

// handleRefresh runs outside the auth gate: Refresh itself decides whether
// the presented token is still exchangeable, which includes expired tokens
// inside the configured grace window that the gate would turn away.
func (s *Server) handleRefresh(c *gin.Context) {
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Token de autorización no encontrado"})
		return
	}

	newToken, expiresIn, err := s.tokens.Refresh(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no puede ser actualizado"})
		return
	}

	userID, err := s.tokens.Verify(newToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no puede ser actualizado"})
		return
	}

	user, err := s.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "Usuario no encontrado"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenEnvelope(newToken, expiresIn, user))
}

func (s *Server) handleProfile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
