package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/service"
	"github.com/pintrail/pintrail/internal/utils"
)

// ContextUserUUID is the gin context key holding the authenticated user's
// external UUID.
const ContextUserUUID = "user_uuid"

// ContextToken holds the raw bearer token of the current request.
const ContextToken = "token"

// statusFor maps service sentinels to HTTP statuses. Anything unmapped is an
// internal error and its message is not echoed to the client.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrNoPassword),
		errors.Is(err, service.ErrUnknownProvider):
		return http.StatusBadRequest, true

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrAccountDeleted),
		errors.Is(err, utils.ErrInvalidToken):
		return http.StatusUnauthorized, true

	case errors.Is(err, service.ErrProfilePrivate):
		return http.StatusForbidden, true

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPinNotFound),
		errors.Is(err, service.ErrActivityNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrLikeNotFound),
		errors.Is(err, service.ErrNotFollowing):
		return http.StatusNotFound, true

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, true
	}

	return http.StatusInternalServerError, false
}

func respondError(c *gin.Context, err error) {
	status, known := statusFor(err)
	if !known {
		c.JSON(status, dto.Fail("internal server error"))
		return
	}
	c.JSON(status, dto.Fail(err.Error()))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
}

// currentUserUUID reads the UUID set by AuthMiddleware. An empty result on a
// protected route means the middleware was not applied.
func currentUserUUID(c *gin.Context) string {
	return c.GetString(ContextUserUUID)
}
