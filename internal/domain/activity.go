package domain

import "time"

// ActivityType classifies an event a user performed.
type ActivityType string

const (
	ActivityNewPinVisited        ActivityType = "new_pin_visited"
	ActivityNewPinWantToGo       ActivityType = "new_pin_want_to_go"
	ActivityNewFollow            ActivityType = "new_follow"
	ActivityUpdatePin            ActivityType = "update_pin"
	ActivityAchievementCountries ActivityType = "achievement_countries"
	ActivityAchievementCities    ActivityType = "achievement_cities"
	ActivityAchievementPins      ActivityType = "achievement_pins"
	ActivityEarnedBadge          ActivityType = "earned_badge"
)

// Object type strings for Activity.ObjectType.
const (
	ObjectPin   = "pin"
	ObjectUser  = "user"
	ObjectBadge = "badge"
)

// Activity is an event performed by an actor, referencing a polymorphic
// object. LikesCount and CommentsCount are denormalized: they must equal the
// live count of likes and of non-deleted comments, and every write path that
// touches those tables adjusts the counter in the same transaction.
type Activity struct {
	ID           int64          `json:"id" db:"id"`
	ActorID      int64          `json:"-" db:"actor_id"`
	ActivityType ActivityType   `json:"activity_type" db:"activity_type"`
	ObjectID     *int64         `json:"object_id" db:"object_id"`
	ObjectType   *string        `json:"object_type" db:"object_type"`
	Metadata     map[string]any `json:"metadata" db:"metadata"`
	Caption      *string        `json:"caption" db:"caption"`

	LikesCount    int `json:"likes_count" db:"likes_count"`
	CommentsCount int `json:"comments_count" db:"comments_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ActivityLike records that a user liked an activity. The (activity, user)
// pair is unique at the storage layer.
type ActivityLike struct {
	ID         int64     `json:"-" db:"id"`
	ActivityID int64     `json:"activity_id" db:"activity_id"`
	UserID     int64     `json:"-" db:"user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ActivityComment is a threaded comment on an activity. Deletion is soft so
// replies to a deleted comment remain attached.
type ActivityComment struct {
	ID              int64      `json:"id" db:"id"`
	ActivityID      int64      `json:"activity_id" db:"activity_id"`
	UserID          int64      `json:"-" db:"user_id"`
	Content         string     `json:"content" db:"content"`
	ParentCommentID *int64     `json:"parent_comment_id" db:"parent_comment_id"`
	DeletedAt       *time.Time `json:"-" db:"deleted_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the comment has been soft-deleted.
func (c *ActivityComment) IsDeleted() bool {
	return c.DeletedAt != nil
}

// FollowRelationship is a directed edge follower -> following, composite-keyed
// by the pair.
type FollowRelationship struct {
	FollowerID  int64     `json:"-" db:"follower_id"`
	FollowingID int64     `json:"-" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FeedItem pairs a feed entry with the activity it references.
type FeedItem struct {
	Entry    UserFeed `json:"entry"`
	Activity Activity `json:"activity"`
}

// UserFeed is a fan-out-on-write record making an activity visible in a
// recipient's feed. Unique per (user, activity).
type UserFeed struct {
	ID            int64     `json:"-" db:"id"`
	UserID        int64     `json:"-" db:"user_id"`
	ActivityID    int64     `json:"activity_id" db:"activity_id"`
	FeedTimestamp time.Time `json:"feed_timestamp" db:"feed_timestamp"`
	IsSeen        bool      `json:"is_seen" db:"is_seen"`
}
