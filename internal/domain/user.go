package domain

import "time"

// ProfileVisibility controls who can see a user's profile page.
type ProfileVisibility string

const (
	ProfilePublic  ProfileVisibility = "public"
	ProfilePrivate ProfileVisibility = "private"
)

// Valid reports whether the value is one of the allowed profile settings.
func (v ProfileVisibility) Valid() bool {
	return v == ProfilePublic || v == ProfilePrivate
}

// ContentVisibility controls who can see a user's notes or bucketlist.
type ContentVisibility string

const (
	ContentPrivate   ContentVisibility = "private"
	ContentFollowers ContentVisibility = "followers"
	ContentPublic    ContentVisibility = "public"
)

// Valid reports whether the value is one of the allowed content settings.
func (v ContentVisibility) Valid() bool {
	return v == ContentPrivate || v == ContentFollowers || v == ContentPublic
}

// SubscriptionStatus is the user's paid-plan state.
type SubscriptionStatus string

const (
	SubscriptionFree    SubscriptionStatus = "free"
	SubscriptionPremium SubscriptionStatus = "premium"
)

// User represents an account. ID is the internal surrogate key used for
// foreign keys; UUID is the stable external identifier exposed to clients
// and embedded in tokens. A user with a nil PasswordHash must hold at least
// one provider id (social-login-only account).
type User struct {
	ID           int64      `json:"-" db:"id"`
	UUID         string     `json:"uuid" db:"uuid"`
	Email        *string    `json:"email" db:"email"`
	PasswordHash *string    `json:"-" db:"hashed_password"`
	GoogleID     *string    `json:"-" db:"google_id"`
	AppleID      *string    `json:"-" db:"apple_id"`
	Username     string     `json:"username" db:"username"`
	DisplayName  *string    `json:"display_name" db:"display_name"`
	Bio          *string    `json:"bio" db:"bio"`
	AvatarURL    *string    `json:"avatar_url" db:"avatar_url"`
	CoverURL     *string    `json:"cover_url" db:"cover_url"`

	// Denormalized travel stats, refreshed in the same transaction as the
	// pin write that changes them.
	VisitedCountriesCount int `json:"visited_countries_count" db:"visited_countries_count"`
	VisitedCitiesCount    int `json:"visited_cities_count" db:"visited_cities_count"`
	TotalPinsCount        int `json:"total_pins_count" db:"total_pins_count"`

	ProfileVisibility    ProfileVisibility `json:"profile_visibility" db:"profile_visibility"`
	NotesVisibility      ContentVisibility `json:"notes_visibility" db:"notes_visibility"`
	BucketlistVisibility ContentVisibility `json:"bucketlist_visibility" db:"bucketlist_visibility"`

	SubscriptionStatus    SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	SubscriptionExpiresAt *time.Time         `json:"subscription_expires_at" db:"subscription_expires_at"`

	DeletedAt *time.Time `json:"-" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the account has been soft-deleted. Every query
// path that excludes deleted accounts shares this predicate semantics.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// SocialProvider identifies an external identity provider.
type SocialProvider string

const (
	ProviderGoogle SocialProvider = "GOOGLE"
	ProviderApple  SocialProvider = "APPLE"
)

// Valid reports whether the provider is supported.
func (p SocialProvider) Valid() bool {
	return p == ProviderGoogle || p == ProviderApple
}
