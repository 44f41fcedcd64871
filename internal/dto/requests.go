package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Username    string  `json:"username" binding:"required,min=3,max=50"`
	Password    string  `json:"password" binding:"required,min=8"`
	DisplayName *string `json:"display_name"`
}

// LoginRequest represents a password login request. The identifier is an
// email when it contains "@", a username otherwise.
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// SocialLoginRequest represents a Google/Apple login request
type SocialLoginRequest struct {
	Provider    string  `json:"provider" binding:"required"`
	IDToken     string  `json:"id_token" binding:"required"`
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// UpdateProfileRequest carries partial profile updates; absent fields are
// left untouched.
type UpdateProfileRequest struct {
	DisplayName          *string `json:"display_name" binding:"omitempty,max=100"`
	Bio                  *string `json:"bio" binding:"omitempty,max=1000"`
	AvatarURL            *string `json:"avatar_url"`
	CoverURL             *string `json:"cover_url"`
	ProfileVisibility    *string `json:"profile_visibility"`
	NotesVisibility      *string `json:"notes_visibility"`
	BucketlistVisibility *string `json:"bucketlist_visibility"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// PinLocationAddress is the decomposed address from the client-side geocoder.
type PinLocationAddress struct {
	City        *string `json:"city"`
	Country     *string `json:"country"`
	CountryCode *string `json:"country_code"`
}

// PinLocationRequest describes where a pin goes. Lat and Lon are pointers:
// 0 is a legal coordinate (equator, prime meridian), so a plain float64 with
// a required binding would reject it as missing.
type PinLocationRequest struct {
	Name        string             `json:"name" binding:"required"`
	PlaceID     *string            `json:"place_id"`
	Lat         *float64           `json:"lat" binding:"required"`
	Lon         *float64           `json:"lon" binding:"required"`
	DisplayName *string            `json:"display_name"`
	Address     PinLocationAddress `json:"address"`
}

// PinMediaRequest is attachment metadata for a pin; the binary lives in
// external storage and only its URLs are recorded.
type PinMediaRequest struct {
	MediaType    string  `json:"media_type" binding:"required"`
	StorageURL   string  `json:"storage_url" binding:"required"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

// PinCreateRequest represents a save-pin request
type PinCreateRequest struct {
	Notes     *string            `json:"notes"`
	Rating    *int16             `json:"rating"`
	Status    string             `json:"status" binding:"required"`
	VisitDate *string            `json:"visit_date"`
	Location  PinLocationRequest `json:"location" binding:"required"`
	Media     []PinMediaRequest  `json:"media"`
}

// PinUpdateRequest carries partial pin updates; absent fields are left
// untouched.
type PinUpdateRequest struct {
	Notes      *string             `json:"notes"`
	Rating     *int16              `json:"rating"`
	Status     *string             `json:"status"`
	VisitDate  *string             `json:"visit_date"`
	IsFavorite *bool               `json:"is_favorite"`
	Location   *PinLocationRequest `json:"location"`
}

// CommentRequest represents a comment on an activity
type CommentRequest struct {
	Content         string `json:"content" binding:"required,max=2000"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// MarkFeedSeenRequest flags feed entries as seen
type MarkFeedSeenRequest struct {
	ActivityIDs []int64 `json:"activity_ids" binding:"required"`
}
