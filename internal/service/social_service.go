package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/repository"
)

// Feed paging bounds.
const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// socialService implements SocialService interface
type socialService struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	followRepo   repository.FollowRepository
	feedRepo     repository.FeedRepository
	logger       *zap.Logger
}

// NewSocialService creates a new social service
func NewSocialService(
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	followRepo repository.FollowRepository,
	feedRepo repository.FeedRepository,
	logger *zap.Logger,
) SocialService {
	return &socialService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		followRepo:   followRepo,
		feedRepo:     feedRepo,
		logger:       logger,
	}
}

// Follow creates a follow edge toward the named user and announces it to the
// follower's own followers. Following someone twice is a no-op.
func (s *socialService) Follow(ctx context.Context, followerUUID, username string) error {
	follower, err := s.activeUser(ctx, followerUUID)
	if err != nil {
		return err
	}

	target, err := s.activeUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if follower.ID == target.ID {
		return ErrSelfFollow
	}

	if err := s.followRepo.Create(ctx, follower.ID, target.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicateFollow) {
			return nil
		}
		return fmt.Errorf("failed to follow: %w", err)
	}

	s.publishFollowActivity(ctx, follower, target)

	return nil
}

// Unfollow removes a follow edge toward the named user.
func (s *socialService) Unfollow(ctx context.Context, followerUUID, username string) error {
	follower, err := s.activeUser(ctx, followerUUID)
	if err != nil {
		return err
	}

	target, err := s.activeUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.followRepo.Delete(ctx, follower.ID, target.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFollowing
		}
		return fmt.Errorf("failed to unfollow: %w", err)
	}

	return nil
}

// FollowCounts returns follower and following totals for the named user.
func (s *socialService) FollowCounts(ctx context.Context, username string) (int, int, error) {
	target, err := s.activeUserByUsername(ctx, username)
	if err != nil {
		return 0, 0, err
	}

	followers, following, err := s.followRepo.Counts(ctx, target.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count follows: %w", err)
	}

	return followers, following, nil
}

// Like records a like on an activity. Liking twice is a no-op and leaves the
// counter untouched.
func (s *socialService) Like(ctx context.Context, userUUID string, activityID int64) error {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return err
	}

	if _, err := s.activityRepo.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("failed to get activity: %w", err)
	}

	if err := s.activityRepo.AddLike(ctx, activityID, user.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicateLike) {
			return nil
		}
		return fmt.Errorf("failed to like activity: %w", err)
	}

	return nil
}

// Unlike removes the user's like from an activity.
func (s *socialService) Unlike(ctx context.Context, userUUID string, activityID int64) error {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return err
	}

	if err := s.activityRepo.RemoveLike(ctx, activityID, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLikeNotFound
		}
		return fmt.Errorf("failed to unlike activity: %w", err)
	}

	return nil
}

// Comment adds a comment, or a reply when parent_comment_id is set.
func (s *socialService) Comment(ctx context.Context, userUUID string, activityID int64, req *dto.CommentRequest) (*domain.ActivityComment, error) {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	if _, err := s.activityRepo.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	comment := &domain.ActivityComment{
		ActivityID:      activityID,
		UserID:          user.ID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}

	if err := s.activityRepo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// DeleteComment soft-deletes the user's own comment; replies stay attached.
func (s *socialService) DeleteComment(ctx context.Context, userUUID string, commentID int64) error {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return err
	}

	if err := s.activityRepo.SoftDeleteComment(ctx, commentID, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// ListComments returns the non-deleted comments of an activity, oldest first.
func (s *socialService) ListComments(ctx context.Context, activityID int64) ([]*domain.ActivityComment, error) {
	if _, err := s.activityRepo.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	comments, err := s.activityRepo.ListComments(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// Feed returns a page of the user's fan-out feed, newest first.
func (s *socialService) Feed(ctx context.Context, userUUID string, limit, offset int) ([]*domain.FeedItem, error) {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.feedRepo.ListByUser(ctx, user.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	return items, nil
}

// MarkFeedSeen flags the given feed entries as seen.
func (s *socialService) MarkFeedSeen(ctx context.Context, userUUID string, activityIDs []int64) error {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return err
	}

	if err := s.feedRepo.MarkSeen(ctx, user.ID, activityIDs); err != nil {
		return fmt.Errorf("failed to mark feed seen: %w", err)
	}

	return nil
}

func (s *socialService) activeUser(ctx context.Context, userUUID string) (*domain.User, error) {
	user, err := s.userRepo.GetActiveByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *socialService) activeUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// publishFollowActivity announces the new follow to the follower's own
// followers. Best-effort: the edge is already committed.
func (s *socialService) publishFollowActivity(ctx context.Context, follower, target *domain.User) {
	recipients, err := s.followRepo.ListFollowerIDs(ctx, follower.ID)
	if err != nil {
		s.logger.Warn("failed to list followers for fan-out",
			zap.String("user_uuid", follower.UUID), zap.Error(err))
		return
	}

	objectType := domain.ObjectUser
	activity := &domain.Activity{
		ActorID:      follower.ID,
		ActivityType: domain.ActivityNewFollow,
		ObjectID:     &target.ID,
		ObjectType:   &objectType,
		Metadata:     map[string]any{"username": target.Username},
	}

	if err := s.activityRepo.CreateWithFanOut(ctx, activity, recipients); err != nil {
		s.logger.Warn("failed to publish follow activity",
			zap.String("user_uuid", follower.UUID), zap.Error(err))
	}
}
