package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/pkg/database"
)

// activityRepository implements ActivityRepository interface
type activityRepository struct {
	db *database.Postgres
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.Postgres) ActivityRepository {
	return &activityRepository{db: db}
}

// CreateWithFanOut inserts an activity and a user_feeds row for every
// recipient in one transaction (fan-out-on-write).
func (r *activityRepository) CreateWithFanOut(ctx context.Context, activity *domain.Activity, recipientIDs []int64) error {
	metadata, err := json.Marshal(activity.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal activity metadata: %w", err)
	}

	now := time.Now()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = now
	}
	if activity.UpdatedAt.IsZero() {
		activity.UpdatedAt = now
	}

	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO activities (actor_id, activity_type, object_id, object_type, metadata, caption,
				likes_count, comments_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7, $8)
			RETURNING id
		`,
			activity.ActorID,
			activity.ActivityType,
			activity.ObjectID,
			activity.ObjectType,
			metadata,
			activity.Caption,
			activity.CreatedAt,
			activity.UpdatedAt,
		).Scan(&activity.ID)
		if err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}

		if len(recipientIDs) == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_feeds (user_id, activity_id, feed_timestamp, is_seen)
			SELECT unnest($1::bigint[]), $2, $3, false
			ON CONFLICT (user_id, activity_id) DO NOTHING
		`, pq.Array(recipientIDs), activity.ID, now)
		if err != nil {
			return fmt.Errorf("failed to fan out activity to feeds: %w", err)
		}

		return nil
	})
}

// GetByID retrieves an activity by its id.
func (r *activityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	activity := &domain.Activity{}
	var metadata []byte

	err := r.db.DB.QueryRowContext(ctx, `
		SELECT id, actor_id, activity_type, object_id, object_type, metadata, caption,
			likes_count, comments_count, created_at, updated_at
		FROM activities
		WHERE id = $1
	`, id).Scan(
		&activity.ID,
		&activity.ActorID,
		&activity.ActivityType,
		&activity.ObjectID,
		&activity.ObjectType,
		&metadata,
		&activity.Caption,
		&activity.LikesCount,
		&activity.CommentsCount,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("activity with id %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &activity.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity metadata: %w", err)
		}
	}

	return activity, nil
}

// AddLike inserts a like and increments the denormalized counter in the same
// transaction. A duplicate pair returns ErrDuplicateLike with nothing changed.
func (r *activityRepository) AddLike(ctx context.Context, activityID, userID int64) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activity_likes (activity_id, user_id, created_at)
			VALUES ($1, $2, $3)
		`, activityID, userID, time.Now())
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return fmt.Errorf("like already exists: %w", ErrDuplicateLike)
			}
			return fmt.Errorf("failed to create like: %w", err)
		}

		return bumpCounter(ctx, tx, activityID, "likes_count", +1)
	})
}

// RemoveLike deletes a like and decrements the counter only when a row was
// actually removed.
func (r *activityRepository) RemoveLike(ctx context.Context, activityID, userID int64) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			DELETE FROM activity_likes WHERE activity_id = $1 AND user_id = $2
		`, activityID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("like not found: %w", ErrNotFound)
		}

		return bumpCounter(ctx, tx, activityID, "likes_count", -1)
	})
}

// AddComment inserts a comment and increments comments_count in the same
// transaction.
func (r *activityRepository) AddComment(ctx context.Context, comment *domain.ActivityComment) error {
	now := time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	if comment.UpdatedAt.IsZero() {
		comment.UpdatedAt = now
	}

	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO activity_comments (activity_id, user_id, content, parent_comment_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`,
			comment.ActivityID,
			comment.UserID,
			comment.Content,
			comment.ParentCommentID,
			comment.CreatedAt,
			comment.UpdatedAt,
		).Scan(&comment.ID)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		return bumpCounter(ctx, tx, comment.ActivityID, "comments_count", +1)
	})
}

// SoftDeleteComment marks a comment deleted (replies stay attached) and
// decrements comments_count. Only the author may delete.
func (r *activityRepository) SoftDeleteComment(ctx context.Context, commentID, userID int64) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var activityID int64
		err := tx.QueryRowContext(ctx, `
			UPDATE activity_comments
			SET deleted_at = $3, updated_at = $3
			WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
			RETURNING activity_id
		`, commentID, userID, time.Now()).Scan(&activityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("comment with id %d not found: %w", commentID, ErrNotFound)
			}
			return fmt.Errorf("failed to soft delete comment: %w", err)
		}

		return bumpCounter(ctx, tx, activityID, "comments_count", -1)
	})
}

// ListComments retrieves the non-deleted comments of an activity, oldest
// first.
func (r *activityRepository) ListComments(ctx context.Context, activityID int64) ([]*domain.ActivityComment, error) {
	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT id, activity_id, user_id, content, parent_comment_id, deleted_at, created_at, updated_at
		FROM activity_comments
		WHERE activity_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.ActivityComment
	for rows.Next() {
		comment := &domain.ActivityComment{}
		err := rows.Scan(
			&comment.ID,
			&comment.ActivityID,
			&comment.UserID,
			&comment.Content,
			&comment.ParentCommentID,
			&comment.DeletedAt,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// bumpCounter adjusts a denormalized activity counter within the caller's
// transaction, clamping decrements at zero.
func bumpCounter(ctx context.Context, tx *sql.Tx, activityID int64, column string, delta int) error {
	query := fmt.Sprintf(`
		UPDATE activities
		SET %[1]s = GREATEST(%[1]s + $2, 0), updated_at = now()
		WHERE id = $1
	`, column)

	result, err := tx.ExecContext(ctx, query, activityID, delta)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	return requireRowAffected(result, fmt.Sprintf("activity with id %d", activityID))
}
