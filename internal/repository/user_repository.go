package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/pkg/database"
)

const userColumns = `id, uuid, email, hashed_password, google_id, apple_id, username,
		display_name, bio, avatar_url, cover_url,
		visited_countries_count, visited_cities_count, total_pins_count,
		profile_visibility, notes_visibility, bucketlist_visibility,
		subscription_status, subscription_expires_at,
		deleted_at, created_at, updated_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user. Uniqueness of email, username and provider ids
// is enforced by constraints, not check-then-insert, so two concurrent
// registrations for the same identity cannot both succeed.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (uuid, email, hashed_password, google_id, apple_id, username,
			display_name, bio, avatar_url, cover_url,
			visited_countries_count, visited_cities_count, total_pins_count,
			profile_visibility, notes_visibility, bucketlist_visibility,
			subscription_status, subscription_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`

	if user.UUID == "" {
		user.UUID = uuid.New().String()
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		user.UUID,
		user.Email,
		user.PasswordHash,
		user.GoogleID,
		user.AppleID,
		user.Username,
		user.DisplayName,
		user.Bio,
		user.AvatarURL,
		user.CoverURL,
		user.VisitedCountriesCount,
		user.VisitedCitiesCount,
		user.TotalPinsCount,
		user.ProfileVisibility,
		user.NotesVisibility,
		user.BucketlistVisibility,
		user.SubscriptionStatus,
		user.SubscriptionExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if dup := mapUserUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// mapUserUniqueViolation translates a 23505 on the users table into the
// field-specific sentinel, dispatching on the violated constraint name.
func mapUserUniqueViolation(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return nil
	}

	switch {
	case strings.Contains(pqErr.Constraint, "email"):
		return fmt.Errorf("email already registered: %w", ErrDuplicateEmail)
	case strings.Contains(pqErr.Constraint, "username"):
		return fmt.Errorf("username already taken: %w", ErrDuplicateUsername)
	case strings.Contains(pqErr.Constraint, "google_id"), strings.Contains(pqErr.Constraint, "apple_id"):
		return fmt.Errorf("provider id already bound: %w", ErrDuplicateProviderID)
	default:
		return fmt.Errorf("unique constraint %s violated: %w", pqErr.Constraint, ErrDuplicateUsername)
	}
}

func (r *userRepository) getBy(ctx context.Context, predicate string, arg any) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, predicate)

	user := &domain.User{}
	err := r.db.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.UUID,
		&user.Email,
		&user.PasswordHash,
		&user.GoogleID,
		&user.AppleID,
		&user.Username,
		&user.DisplayName,
		&user.Bio,
		&user.AvatarURL,
		&user.CoverURL,
		&user.VisitedCountriesCount,
		&user.VisitedCitiesCount,
		&user.TotalPinsCount,
		&user.ProfileVisibility,
		&user.NotesVisibility,
		&user.BucketlistVisibility,
		&user.SubscriptionStatus,
		&user.SubscriptionExpiresAt,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user (%s = %v) not found: %w", predicate, arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByUUID retrieves a user by external UUID regardless of deletion state.
func (r *userRepository) GetByUUID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "uuid = $1", id)
}

// GetActiveByUUID retrieves a non-deleted user by external UUID.
func (r *userRepository) GetActiveByUUID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "uuid = $1 AND deleted_at IS NULL", id)
}

// GetByEmail retrieves a user by email regardless of deletion state.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

// GetActiveByEmail retrieves a non-deleted user by email.
func (r *userRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = $1 AND deleted_at IS NULL", email)
}

// GetByUsername retrieves a user by username regardless of deletion state.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = $1", username)
}

// GetActiveByUsername retrieves a non-deleted user by username.
func (r *userRepository) GetActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = $1 AND deleted_at IS NULL", username)
}

// GetByProviderID retrieves a user holding the given provider subject id,
// regardless of deletion state (the service decides how deleted accounts
// behave on social login).
func (r *userRepository) GetByProviderID(ctx context.Context, provider domain.SocialProvider, providerID string) (*domain.User, error) {
	switch provider {
	case domain.ProviderGoogle:
		return r.getBy(ctx, "google_id = $1", providerID)
	case domain.ProviderApple:
		return r.getBy(ctx, "apple_id = $1", providerID)
	default:
		return nil, fmt.Errorf("unknown provider %q: %w", provider, ErrNotFound)
	}
}

// ExistsByEmail reports whether any row, deleted or not, holds the email.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// ExistsByUsername reports whether any row, deleted or not, holds the username.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// LinkProvider binds a provider subject id to an existing account, so a
// social login with a known email attaches to that account instead of
// creating a second one.
func (r *userRepository) LinkProvider(ctx context.Context, userID int64, provider domain.SocialProvider, providerID string) error {
	var column string
	switch provider {
	case domain.ProviderGoogle:
		column = "google_id"
	case domain.ProviderApple:
		column = "apple_id"
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}

	result, err := r.db.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s = $2, updated_at = $3 WHERE id = $1`, column),
		userID, providerID, time.Now())
	if err != nil {
		if dup := mapUserUniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to link %s provider: %w", provider, err)
	}

	return requireRowAffected(result, fmt.Sprintf("user with id %d", userID))
}

// UpdateProfile persists the mutable profile fields of an existing user.
func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET display_name = $2, bio = $3, avatar_url = $4, cover_url = $5,
			profile_visibility = $6, notes_visibility = $7, bucketlist_visibility = $8,
			updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.DisplayName,
		user.Bio,
		user.AvatarURL,
		user.CoverURL,
		user.ProfileVisibility,
		user.NotesVisibility,
		user.BucketlistVisibility,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	return requireRowAffected(result, fmt.Sprintf("user with id %d", user.ID))
}

// UpdatePassword replaces the stored password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE users SET hashed_password = $2, updated_at = $3 WHERE id = $1`,
		userID, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRowAffected(result, fmt.Sprintf("user with id %d", userID))
}

// SoftDelete marks the account deleted; the row persists and plain lookups
// keep returning it.
func (r *userRepository) SoftDelete(ctx context.Context, userID int64) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE users SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}

	return requireRowAffected(result, fmt.Sprintf("active user with id %d", userID))
}

func requireRowAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}

	return nil
}
