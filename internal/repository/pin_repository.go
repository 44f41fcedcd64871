package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/pkg/database"
)

// Pins are selected with the point split back into coordinates; the
// longitude-first ordering PostGIS expects never leaves the SQL.
const pinColumns = `id, uuid, user_id, place_name, place_id_google,
		ST_Y(location::geometry), ST_X(location::geometry),
		address_formatted, address_city, address_country, address_country_code,
		status, notes, visited_date, rating, is_favorite, created_at, updated_at`

// pinRepository implements PinRepository interface
type pinRepository struct {
	db *database.Postgres
}

// NewPinRepository creates a new pin repository
func NewPinRepository(db *database.Postgres) PinRepository {
	return &pinRepository{db: db}
}

// Create inserts a pin together with its media metadata and refreshes the
// owner's denormalized travel stats, all in one transaction.
func (r *pinRepository) Create(ctx context.Context, pin *domain.Pin, media []*domain.PinMedia) error {
	if pin.UUID == "" {
		pin.UUID = uuid.New().String()
	}

	now := time.Now()
	if pin.CreatedAt.IsZero() {
		pin.CreatedAt = now
	}
	if pin.UpdatedAt.IsZero() {
		pin.UpdatedAt = now
	}

	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO pins (uuid, user_id, place_name, place_id_google, location,
				address_formatted, address_city, address_country, address_country_code,
				status, notes, visited_date, rating, is_favorite, created_at, updated_at)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
				$7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			RETURNING id
		`

		err := tx.QueryRowContext(ctx, query,
			pin.UUID,
			pin.UserID,
			pin.PlaceName,
			pin.PlaceIDGoogle,
			pin.Location.Lon,
			pin.Location.Lat,
			pin.AddressFormatted,
			pin.AddressCity,
			pin.AddressCountry,
			pin.AddressCountryCode,
			pin.Status,
			pin.Notes,
			pin.VisitedDate,
			pin.Rating,
			pin.IsFavorite,
			pin.CreatedAt,
			pin.UpdatedAt,
		).Scan(&pin.ID)
		if err != nil {
			return fmt.Errorf("failed to create pin: %w", err)
		}

		for i, m := range media {
			if m.UUID == "" {
				m.UUID = uuid.New().String()
			}
			m.PinID = pin.ID
			m.UserID = pin.UserID
			m.UploadOrder = int16(i)
			if m.CreatedAt.IsZero() {
				m.CreatedAt = now
			}

			err := tx.QueryRowContext(ctx, `
				INSERT INTO pin_media (uuid, pin_id, user_id, media_type, storage_url, thumbnail_url, upload_order, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id
			`, m.UUID, m.PinID, m.UserID, m.MediaType, m.StorageURL, m.ThumbnailURL, m.UploadOrder, m.CreatedAt).Scan(&m.ID)
			if err != nil {
				return fmt.Errorf("failed to create pin media: %w", err)
			}
		}

		return refreshUserPinStats(ctx, tx, pin.UserID)
	})
}

// refreshUserPinStats recomputes the owner's denormalized counters from the
// pins table within the caller's transaction.
func refreshUserPinStats(ctx context.Context, tx *sql.Tx, userID int64) error {
	query := `
		UPDATE users SET
			total_pins_count = stats.total,
			visited_countries_count = stats.countries,
			visited_cities_count = stats.cities,
			updated_at = now()
		FROM (
			SELECT
				COUNT(*) AS total,
				COUNT(DISTINCT address_country_code) FILTER (WHERE status = 'visited' AND address_country_code IS NOT NULL) AS countries,
				COUNT(DISTINCT (address_city, address_country)) FILTER (WHERE status = 'visited' AND address_city IS NOT NULL) AS cities
			FROM pins
			WHERE user_id = $1
		) AS stats
		WHERE users.id = $1
	`

	if _, err := tx.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to refresh user pin stats: %w", err)
	}

	return nil
}

func scanPin(scanner interface{ Scan(...any) error }) (*domain.Pin, error) {
	pin := &domain.Pin{}
	err := scanner.Scan(
		&pin.ID,
		&pin.UUID,
		&pin.UserID,
		&pin.PlaceName,
		&pin.PlaceIDGoogle,
		&pin.Location.Lat,
		&pin.Location.Lon,
		&pin.AddressFormatted,
		&pin.AddressCity,
		&pin.AddressCountry,
		&pin.AddressCountryCode,
		&pin.Status,
		&pin.Notes,
		&pin.VisitedDate,
		&pin.Rating,
		&pin.IsFavorite,
		&pin.CreatedAt,
		&pin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pin, nil
}

// GetByUUID retrieves a pin by its external identifier.
func (r *pinRepository) GetByUUID(ctx context.Context, id string) (*domain.Pin, error) {
	query := fmt.Sprintf(`SELECT %s FROM pins WHERE uuid = $1`, pinColumns)

	pin, err := scanPin(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pin with uuid %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pin by uuid: %w", err)
	}

	return pin, nil
}

// ListByUserID retrieves all pins owned by a user, newest first.
func (r *pinRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Pin, error) {
	query := fmt.Sprintf(`SELECT %s FROM pins WHERE user_id = $1 ORDER BY created_at DESC`, pinColumns)

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins by user id: %w", err)
	}
	defer rows.Close()

	var pins []*domain.Pin
	for rows.Next() {
		pin, err := scanPin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		pins = append(pins, pin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pins: %w", err)
	}

	return pins, nil
}

// Update persists the mutable fields of a pin and refreshes the owner's
// stats (a status flip changes the visited counters).
func (r *pinRepository) Update(ctx context.Context, pin *domain.Pin) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE pins
			SET place_name = $3, place_id_google = $4,
				location = ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
				address_formatted = $7, address_city = $8, address_country = $9, address_country_code = $10,
				status = $11, notes = $12, visited_date = $13, rating = $14, is_favorite = $15,
				updated_at = $16
			WHERE id = $1 AND user_id = $2
		`

		result, err := tx.ExecContext(ctx, query,
			pin.ID,
			pin.UserID,
			pin.PlaceName,
			pin.PlaceIDGoogle,
			pin.Location.Lon,
			pin.Location.Lat,
			pin.AddressFormatted,
			pin.AddressCity,
			pin.AddressCountry,
			pin.AddressCountryCode,
			pin.Status,
			pin.Notes,
			pin.VisitedDate,
			pin.Rating,
			pin.IsFavorite,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to update pin: %w", err)
		}

		if err := requireRowAffected(result, fmt.Sprintf("pin with id %d", pin.ID)); err != nil {
			return err
		}

		return refreshUserPinStats(ctx, tx, pin.UserID)
	})
}

// Delete removes a pin (and its media via FK cascade) and refreshes the
// owner's stats in the same transaction.
func (r *pinRepository) Delete(ctx context.Context, pinID, userID int64) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM pins WHERE id = $1 AND user_id = $2`, pinID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete pin: %w", err)
		}

		if err := requireRowAffected(result, fmt.Sprintf("pin with id %d", pinID)); err != nil {
			return err
		}

		return refreshUserPinStats(ctx, tx, userID)
	})
}
