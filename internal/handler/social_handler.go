package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/service"
)

// SocialHandler handles follow, engagement and feed requests
type SocialHandler struct {
	socialService service.SocialService
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(socialService service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// Follow makes the authenticated user follow the named user
// @Summary Follow a user
// @Tags social
// @Security BearerAuth
// @Produce json
// @Param username path string true "Username to follow"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/{username}/follow [post]
func (h *SocialHandler) Follow(c *gin.Context) {
	if err := h.socialService.Follow(c.Request.Context(), currentUserUUID(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("following", nil))
}

// Unfollow removes the follow edge toward the named user
// @Summary Unfollow a user
// @Tags social
// @Security BearerAuth
// @Produce json
// @Param username path string true "Username to unfollow"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/{username}/follow [delete]
func (h *SocialHandler) Unfollow(c *gin.Context) {
	if err := h.socialService.Unfollow(c.Request.Context(), currentUserUUID(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("unfollowed", nil))
}

// Like records a like on an activity; liking twice is a no-op
// @Summary Like an activity
// @Tags social
// @Security BearerAuth
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /activities/{id}/like [post]
func (h *SocialHandler) Like(c *gin.Context) {
	activityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.Like(c.Request.Context(), currentUserUUID(c), activityID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("liked", nil))
}

// Unlike removes the user's like from an activity
// @Summary Unlike an activity
// @Tags social
// @Security BearerAuth
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /activities/{id}/like [delete]
func (h *SocialHandler) Unlike(c *gin.Context) {
	activityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.Unlike(c.Request.Context(), currentUserUUID(c), activityID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("unliked", nil))
}

// Comment adds a comment or reply to an activity
// @Summary Comment on an activity
// @Tags social
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 201 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /activities/{id}/comments [post]
func (h *SocialHandler) Comment(c *gin.Context) {
	activityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.socialService.Comment(c.Request.Context(), currentUserUUID(c), activityID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("comment added", comment))
}

// ListComments returns the non-deleted comments of an activity
// @Summary List comments
// @Tags social
// @Security BearerAuth
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /activities/{id}/comments [get]
func (h *SocialHandler) ListComments(c *gin.Context) {
	activityID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.socialService.ListComments(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", comments))
}

// DeleteComment soft-deletes the user's own comment
// @Summary Delete a comment
// @Tags social
// @Security BearerAuth
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /comments/{id} [delete]
func (h *SocialHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.DeleteComment(c.Request.Context(), currentUserUUID(c), commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("comment deleted", nil))
}

// Feed returns a page of the authenticated user's feed
// @Summary Get feed
// @Tags social
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.Response
// @Router /feed [get]
func (h *SocialHandler) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.socialService.Feed(c.Request.Context(), currentUserUUID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("", items))
}

// MarkFeedSeen flags feed entries as seen
// @Summary Mark feed entries seen
// @Tags social
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkFeedSeenRequest true "Activity IDs"
// @Success 200 {object} dto.Response
// @Router /feed/seen [post]
func (h *SocialHandler) MarkFeedSeen(c *gin.Context) {
	var req dto.MarkFeedSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.socialService.MarkFeedSeen(c.Request.Context(), currentUserUUID(c), req.ActivityIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK("marked seen", nil))
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid "+name+" path parameter"))
		return 0, false
	}
	return id, true
}
