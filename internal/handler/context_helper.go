package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/models"
)

// middlewareUser pulls the authenticated user placed by the auth middleware.
func middlewareUser(c *gin.Context) (models.UserInfo, bool) {
	return middleware.CurrentUser(c)
}
