package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pintrail/pintrail/pkg/database"
)

// followRepository implements FollowRepository interface
type followRepository struct {
	db *database.Postgres
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *database.Postgres) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts a follower -> following edge. The pair is the primary key,
// so a repeat follow surfaces as ErrDuplicateFollow.
func (r *followRepository) Create(ctx context.Context, followerID, followingID int64) error {
	_, err := r.db.DB.ExecContext(ctx, `
		INSERT INTO follow_relationships (follower_id, following_id, created_at)
		VALUES ($1, $2, $3)
	`, followerID, followingID, time.Now())

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("already following: %w", ErrDuplicateFollow)
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}

	return nil
}

// Delete removes a follow edge.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	result, err := r.db.DB.ExecContext(ctx, `
		DELETE FROM follow_relationships WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	return requireRowAffected(result, "follow relationship")
}

// Exists reports whether follower follows following.
func (r *followRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM follow_relationships WHERE follower_id = $1 AND following_id = $2)
	`, followerID, followingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// ListFollowerIDs returns the internal ids of every user following userID,
// used as fan-out recipients.
func (r *followRepository) ListFollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT follower_id FROM follow_relationships WHERE following_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follower ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan follower id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate follower ids: %w", err)
	}

	return ids, nil
}

// Counts returns follower and following totals for a user.
func (r *followRepository) Counts(ctx context.Context, userID int64) (int, int, error) {
	var followers, following int
	err := r.db.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follow_relationships WHERE following_id = $1),
			(SELECT COUNT(*) FROM follow_relationships WHERE follower_id = $1)
	`, userID).Scan(&followers, &following)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count follows: %w", err)
	}

	return followers, following, nil
}
