package dto

import "github.com/pintrail/pintrail/internal/domain"

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds an error envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// UserResponse represents the profile fields exposed to clients.
type UserResponse struct {
	UUID                  string  `json:"uuid"`
	Email                 *string `json:"email,omitempty"`
	Username              string  `json:"username"`
	DisplayName           *string `json:"display_name"`
	Bio                   *string `json:"bio"`
	AvatarURL             *string `json:"avatar_url"`
	CoverURL              *string `json:"cover_url"`
	ProfileVisibility     string  `json:"profile_visibility"`
	NotesVisibility       string  `json:"notes_visibility"`
	BucketlistVisibility  string  `json:"bucketlist_visibility"`
	SubscriptionStatus    string  `json:"subscription_status"`
	VisitedCountriesCount int     `json:"visited_countries_count"`
	VisitedCitiesCount    int     `json:"visited_cities_count"`
	TotalPinsCount        int     `json:"total_pins_count"`
}

// NewUserResponse maps a domain user to its client representation.
func NewUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		UUID:                  user.UUID,
		Email:                 user.Email,
		Username:              user.Username,
		DisplayName:           user.DisplayName,
		Bio:                   user.Bio,
		AvatarURL:             user.AvatarURL,
		CoverURL:              user.CoverURL,
		ProfileVisibility:     string(user.ProfileVisibility),
		NotesVisibility:       string(user.NotesVisibility),
		BucketlistVisibility:  string(user.BucketlistVisibility),
		SubscriptionStatus:    string(user.SubscriptionStatus),
		VisitedCountriesCount: user.VisitedCountriesCount,
		VisitedCitiesCount:    user.VisitedCitiesCount,
		TotalPinsCount:        user.TotalPinsCount,
	}
}

// PublicUserResponse strips private fields from a profile for unauthenticated
// or third-party viewers.
func PublicUserResponse(user *domain.User) *UserResponse {
	resp := NewUserResponse(user)
	resp.Email = nil
	return resp
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

// AvailabilityResponse answers a check-email / check-username probe.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}
