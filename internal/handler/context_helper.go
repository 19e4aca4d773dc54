package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/derece-app/derece-api/internal/middleware"
	"github.com/derece-app/derece-api/internal/models"
)

// currentUserID extracts the authenticated user from the gin context.
func currentUserID(c *gin.Context) (string, bool) {
	claims, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return "", false
	}
	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok || jwtClaims.UserID == "" {
		return "", false
	}
	return jwtClaims.UserID, true
}
