package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/service"
)

// AuthHandler handles authentication and account requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("registered", response))
}

// Login handles email/username + password login
// @Summary Login with email or username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("logged in", response))
}

// SocialLogin handles Google/Apple ID token login
// @Summary Login with a social provider
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SocialLoginRequest true "Social login request"
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/social [post]
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req dto.SocialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.authService.SocialLogin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("logged in", response))
}

// GetMe returns the authenticated user's own profile
// @Summary Get current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.GetCurrentUser(c.Request.Context(), currentUserUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", user))
}

// UpdateProfile applies a partial profile update
// @Summary Update profile
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile update"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /auth/me [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), currentUserUUID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("profile updated", user))
}

// ChangePassword replaces the user's password
// @Summary Change password
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Password change"
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), currentUserUUID(c), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("password changed", nil))
}

// DeleteAccount soft-deletes the account and revokes the session token
// @Summary Delete account
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/me [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	token := c.GetString(ContextToken)
	if err := h.authService.DeleteAccount(c.Request.Context(), currentUserUUID(c), token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("account deleted", nil))
}

// CheckEmail answers an email availability probe
// @Summary Check email availability
// @Tags auth
// @Produce json
// @Param email query string true "Email to check"
// @Success 200 {object} dto.Response
// @Router /auth/check-email [get]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, dto.Fail("email query parameter is required"))
		return
	}

	taken, err := h.authService.IsEmailTaken(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", dto.AvailabilityResponse{Available: !taken}))
}

// CheckUsername answers a username availability probe
// @Summary Check username availability
// @Tags auth
// @Produce json
// @Param username query string true "Username to check"
// @Success 200 {object} dto.Response
// @Router /auth/check-username [get]
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, dto.Fail("username query parameter is required"))
		return
	}

	taken, err := h.authService.IsUsernameTaken(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", dto.AvailabilityResponse{Available: !taken}))
}
