package controllers

import (
	"io"
	"net/http"

	"contactly-be/internal/middleware"
	"contactly-be/internal/service"

	"github.com/gin-gonic/gin"
)

// Avatars above this size are rejected before touching the image host
const maxAvatarSize = 5 << 20 // 5 MiB

type UserController struct {
	authService service.AuthService
}

func NewUserController(authService service.AuthService) *UserController {
	return &UserController{
		authService: authService,
	}
}

// Me handles GET /api/v1/users/me
func (uc *UserController) Me(c *gin.Context) {
	user, err := uc.authService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateAvatar handles PATCH /api/v1/users/avatar
func (uc *UserController) UpdateAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Avatar file is required",
		})
		return
	}
	if fileHeader.Size > maxAvatarSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Avatar file is too large",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read avatar file",
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read avatar file",
		})
		return
	}

	user, err := uc.authService.UpdateAvatar(c.Request.Context(), middleware.UserEmail(c), fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}
