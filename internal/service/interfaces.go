package service

import (
	"context"
	"time"

	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/internal/dto"
)

// TokenBlacklist revokes session tokens and answers revocation checks.
type TokenBlacklist interface {
	AddToken(ctx context.Context, token string, expiry time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuthService defines account and session operations.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	SocialLogin(ctx context.Context, req *dto.SocialLoginRequest) (*dto.AuthResponse, error)
	GetCurrentUser(ctx context.Context, userUUID string) (*dto.UserResponse, error)
	GetPublicProfile(ctx context.Context, viewerUUID, username string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userUUID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userUUID string, req *dto.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userUUID, token string) error
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	ValidateToken(ctx context.Context, token string) (string, error)
}

// PinService defines pin CRUD operations for the authenticated owner.
type PinService interface {
	List(ctx context.Context, userUUID string) ([]*domain.Pin, error)
	Create(ctx context.Context, userUUID string, req *dto.PinCreateRequest) (*domain.Pin, error)
	Update(ctx context.Context, userUUID, pinUUID string, req *dto.PinUpdateRequest) (*domain.Pin, error)
	Delete(ctx context.Context, userUUID, pinUUID string) error
}

// SocialService defines the social graph, engagement and feed operations.
type SocialService interface {
	Follow(ctx context.Context, followerUUID, username string) error
	Unfollow(ctx context.Context, followerUUID, username string) error
	FollowCounts(ctx context.Context, username string) (followers, following int, err error)
	Like(ctx context.Context, userUUID string, activityID int64) error
	Unlike(ctx context.Context, userUUID string, activityID int64) error
	Comment(ctx context.Context, userUUID string, activityID int64, req *dto.CommentRequest) (*domain.ActivityComment, error)
	DeleteComment(ctx context.Context, userUUID string, commentID int64) error
	ListComments(ctx context.Context, activityID int64) ([]*domain.ActivityComment, error)
	Feed(ctx context.Context, userUUID string, limit, offset int) ([]*domain.FeedItem, error)
	MarkFeedSeen(ctx context.Context, userUUID string, activityIDs []int64) error
}
