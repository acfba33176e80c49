package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"task-manager/internal/model"
	"task-manager/internal/token"
)

const (
	ctxUserKey  = "currentUser"
	ctxTokenKey = "accessToken"
)

// authRequired is the single authentication gate for protected routes. It
// resolves the bearer token to a stored user and puts both on the context;
// handlers never re-check the header themselves.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Token de autorización no encontrado",
			})
			return
		}

		userID, err := s.tokens.Verify(raw)
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, token.ErrExpiredToken) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": message,
			})
			return
		}

		user, err := s.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			// A cryptographically valid token whose subject no longer exists
			// is distinguished from a bad credential.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"status": "Usuario no encontrado",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Error interno del servidor",
			})
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, raw)
		c.Next()
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme keyword is case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

// currentUser returns the identity resolved by authRequired.
func currentUser(c *gin.Context) *model.User {
	v, _ := c.Get(ctxUserKey)
	user, _ := v.(*model.User)
	return user
}
