package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/model"
	"task-manager/internal/service"
)

// tokenEnvelope is the success payload for register, login and refresh.
func tokenEnvelope(accessToken string, expiresIn int64, user *model.User) gin.H {
	return gin.H{
		"status":       "success",
		"access_token": accessToken,
		"token_type":   "bearer",
		"expires_in":   expiresIn,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"username": user.Username,
		},
	}
}

// respondError maps service failures onto the wire taxonomy. Validation
// errors carry the field map; everything unexpected becomes an opaque 500.
func respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": "error",
			"errors": vErr.Fields,
		})
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Tarea no encontrada",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Credenciales inválidas",
		})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Error interno del servidor",
		})
	}
}

// respondAuthError is respondError for login/register, whose validation
// responses additionally carry a top-level message.
func respondAuthError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Error de validación",
			"errors":  vErr.Fields,
		})
		return
	}
	respondError(c, err)
}
