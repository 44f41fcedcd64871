package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/pkg/database"
)

// feedRepository implements FeedRepository interface
type feedRepository struct {
	db *database.Postgres
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *database.Postgres) FeedRepository {
	return &feedRepository{db: db}
}

// ListByUser retrieves a page of the user's feed, newest first, with the
// referenced activity joined in.
func (r *feedRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.FeedItem, error) {
	rows, err := r.db.DB.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.activity_id, f.feed_timestamp, f.is_seen,
			a.id, a.actor_id, a.activity_type, a.object_id, a.object_type, a.metadata, a.caption,
			a.likes_count, a.comments_count, a.created_at, a.updated_at
		FROM user_feeds f
		JOIN activities a ON a.id = f.activity_id
		WHERE f.user_id = $1
		ORDER BY f.feed_timestamp DESC, f.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	defer rows.Close()

	var items []*domain.FeedItem
	for rows.Next() {
		item := &domain.FeedItem{}
		var metadata []byte

		err := rows.Scan(
			&item.Entry.ID,
			&item.Entry.UserID,
			&item.Entry.ActivityID,
			&item.Entry.FeedTimestamp,
			&item.Entry.IsSeen,
			&item.Activity.ID,
			&item.Activity.ActorID,
			&item.Activity.ActivityType,
			&item.Activity.ObjectID,
			&item.Activity.ObjectType,
			&metadata,
			&item.Activity.Caption,
			&item.Activity.LikesCount,
			&item.Activity.CommentsCount,
			&item.Activity.CreatedAt,
			&item.Activity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &item.Activity.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal activity metadata: %w", err)
			}
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feed items: %w", err)
	}

	return items, nil
}

// MarkSeen flags the given activities as seen in the user's feed.
func (r *feedRepository) MarkSeen(ctx context.Context, userID int64, activityIDs []int64) error {
	if len(activityIDs) == 0 {
		return nil
	}

	_, err := r.db.DB.ExecContext(ctx, `
		UPDATE user_feeds
		SET is_seen = true
		WHERE user_id = $1 AND activity_id = ANY($2::bigint[])
	`, userID, pq.Array(activityIDs))
	if err != nil {
		return fmt.Errorf("failed to mark feed entries seen: %w", err)
	}

	return nil
}
