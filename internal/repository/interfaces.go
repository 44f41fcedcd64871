package repository

import (
	"context"

	"github.com/pintrail/pintrail/internal/domain"
)

// UserRepository defines methods for user persistence. "Active" variants
// exclude soft-deleted rows; the plain variants see every row.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUUID(ctx context.Context, uuid string) (*domain.User, error)
	GetActiveByUUID(ctx context.Context, uuid string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByProviderID(ctx context.Context, provider domain.SocialProvider, providerID string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	LinkProvider(ctx context.Context, userID int64, provider domain.SocialProvider, providerID string) error
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SoftDelete(ctx context.Context, userID int64) error
}

// PinRepository defines methods for pin persistence. Create and Delete run
// inside a transaction that also refreshes the owner's denormalized travel
// stats.
type PinRepository interface {
	Create(ctx context.Context, pin *domain.Pin, media []*domain.PinMedia) error
	GetByUUID(ctx context.Context, uuid string) (*domain.Pin, error)
	ListByUserID(ctx context.Context, userID int64) ([]*domain.Pin, error)
	Update(ctx context.Context, pin *domain.Pin) error
	Delete(ctx context.Context, pinID, userID int64) error
}

// ActivityRepository defines methods for activities, likes and comments.
// Counter adjustments happen in the same transaction as the row change.
type ActivityRepository interface {
	CreateWithFanOut(ctx context.Context, activity *domain.Activity, recipientIDs []int64) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	AddLike(ctx context.Context, activityID, userID int64) error
	RemoveLike(ctx context.Context, activityID, userID int64) error
	AddComment(ctx context.Context, comment *domain.ActivityComment) error
	SoftDeleteComment(ctx context.Context, commentID, userID int64) error
	ListComments(ctx context.Context, activityID int64) ([]*domain.ActivityComment, error)
}

// FollowRepository defines methods for the directed follow graph.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID int64) error
	Delete(ctx context.Context, followerID, followingID int64) error
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
	ListFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
	Counts(ctx context.Context, userID int64) (followers, following int, err error)
}

// FeedRepository defines methods for reading per-user fan-out feeds.
type FeedRepository interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.FeedItem, error)
	MarkSeen(ctx context.Context, userID int64, activityIDs []int64) error
}
