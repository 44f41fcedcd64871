package repository

import (
	"github.com/pintrail/pintrail/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Pin      PinRepository
	Activity ActivityRepository
	Follow   FollowRepository
	Feed     FeedRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Pin:      NewPinRepository(db),
		Activity: NewActivityRepository(db),
		Follow:   NewFollowRepository(db),
		Feed:     NewFeedRepository(db),
	}
}
