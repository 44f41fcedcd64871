package domain

import (
	"time"

	"github.com/pintrail/pintrail/pkg/geo"
)

// PinStatus is the lifecycle state of a place record.
type PinStatus string

const (
	PinVisited  PinStatus = "visited"
	PinWantToGo PinStatus = "want_to_go"
)

// Valid reports whether the status is one of the allowed values.
func (s PinStatus) Valid() bool {
	return s == PinVisited || s == PinWantToGo
}

// Pin is a place-visit record owned by exactly one user. Location is stored
// as geography(Point, 4326); the address fields are denormalized from the
// client-side geocoder response.
type Pin struct {
	ID       int64  `json:"-" db:"id"`
	UUID     string `json:"uuid" db:"uuid"`
	UserID   int64  `json:"-" db:"user_id"`

	PlaceName     string  `json:"place_name" db:"place_name"`
	PlaceIDGoogle *string `json:"place_id_google" db:"place_id_google"`

	Location geo.Point `json:"location" db:"location"`

	AddressFormatted   *string `json:"address_formatted" db:"address_formatted"`
	AddressCity        *string `json:"address_city" db:"address_city"`
	AddressCountry     *string `json:"address_country" db:"address_country"`
	AddressCountryCode *string `json:"address_country_code" db:"address_country_code"`

	Status      PinStatus  `json:"status" db:"status"`
	Notes       *string    `json:"notes" db:"notes"`
	VisitedDate *time.Time `json:"visited_date" db:"visited_date"`
	Rating      *int16     `json:"rating" db:"rating"`
	IsFavorite  bool       `json:"is_favorite" db:"is_favorite"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MediaType distinguishes pin attachments.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// PinMedia is an attachment record for a pin. The binary itself lives in
// external storage; only metadata is persisted here.
type PinMedia struct {
	ID           int64     `json:"-" db:"id"`
	UUID         string    `json:"uuid" db:"uuid"`
	PinID        int64     `json:"-" db:"pin_id"`
	UserID       int64     `json:"-" db:"user_id"`
	MediaType    MediaType `json:"media_type" db:"media_type"`
	StorageURL   string    `json:"storage_url" db:"storage_url"`
	ThumbnailURL *string   `json:"thumbnail_url" db:"thumbnail_url"`
	UploadOrder  int16     `json:"upload_order" db:"upload_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
