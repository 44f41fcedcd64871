package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/service"
)

// UserHandler handles public profile requests
type UserHandler struct {
	authService   service.AuthService
	socialService service.SocialService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService service.AuthService, socialService service.SocialService) *UserHandler {
	return &UserHandler{authService: authService, socialService: socialService}
}

// GetProfile returns a user's profile by username, honoring its visibility.
// Works with or without a token; owners always see their own profile.
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/{username} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.authService.GetPublicProfile(c.Request.Context(), currentUserUUID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", profile))
}

// GetFollowCounts returns follower/following totals for a user
// @Summary Get follow counts
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/{username}/follow-counts [get]
func (h *UserHandler) GetFollowCounts(c *gin.Context) {
	followers, following, err := h.socialService.FollowCounts(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", gin.H{
		"followers": followers,
		"following": following,
	}))
}
