package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/repository"
	"github.com/pintrail/pintrail/pkg/geo"
)

// visitDateLayout is the calendar-date format accepted for visit dates.
const visitDateLayout = "2006-01-02"

// Stat counts at which an achievement activity is published.
var achievementMilestones = []int{5, 10, 25, 50, 100}

// pinService implements PinService interface
type pinService struct {
	userRepo     repository.UserRepository
	pinRepo      repository.PinRepository
	activityRepo repository.ActivityRepository
	followRepo   repository.FollowRepository
	visitLoc     *time.Location
	logger       *zap.Logger
}

// NewPinService creates a new pin service
func NewPinService(
	userRepo repository.UserRepository,
	pinRepo repository.PinRepository,
	activityRepo repository.ActivityRepository,
	followRepo repository.FollowRepository,
	visitLoc *time.Location,
	logger *zap.Logger,
) PinService {
	return &pinService{
		userRepo:     userRepo,
		pinRepo:      pinRepo,
		activityRepo: activityRepo,
		followRepo:   followRepo,
		visitLoc:     visitLoc,
		logger:       logger,
	}
}

// List returns every pin of the user, newest first.
func (s *pinService) List(ctx context.Context, userUUID string) ([]*domain.Pin, error) {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	pins, err := s.pinRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}

	return pins, nil
}

// Create saves a pin for the user and publishes the matching activity to the
// feeds of the user's followers. The pin write succeeds even when publishing
// fails; the feed is best-effort, the pin is not.
func (s *pinService) Create(ctx context.Context, userUUID string, req *dto.PinCreateRequest) (*domain.Pin, error) {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	status := domain.PinStatus(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("invalid pin status %q: %w", req.Status, ErrValidation)
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	point, err := resolvePoint(&req.Location)
	if err != nil {
		return nil, err
	}

	visitedDate, err := s.resolveVisitDate(req.VisitDate, status)
	if err != nil {
		return nil, err
	}

	pin := &domain.Pin{
		UserID:             user.ID,
		PlaceName:          req.Location.Name,
		PlaceIDGoogle:      req.Location.PlaceID,
		Location:           point,
		AddressFormatted:   req.Location.DisplayName,
		AddressCity:        req.Location.Address.City,
		AddressCountry:     req.Location.Address.Country,
		AddressCountryCode: req.Location.Address.CountryCode,
		Status:             status,
		Notes:              req.Notes,
		VisitedDate:        visitedDate,
		Rating:             req.Rating,
	}

	media, err := buildMedia(user.ID, req.Media)
	if err != nil {
		return nil, err
	}

	if err := s.pinRepo.Create(ctx, pin, media); err != nil {
		return nil, fmt.Errorf("failed to create pin: %w", err)
	}

	s.publishPinActivities(ctx, user, pin, pinActivityType(status))

	return pin, nil
}

// Update applies a partial update to a pin owned by the user. A pin owned by
// someone else is indistinguishable from a missing one.
func (s *pinService) Update(ctx context.Context, userUUID, pinUUID string, req *dto.PinUpdateRequest) (*domain.Pin, error) {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	pin, err := s.ownedPin(ctx, user.ID, pinUUID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status := domain.PinStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("invalid pin status %q: %w", *req.Status, ErrValidation)
		}
		pin.Status = status
	}
	if req.Rating != nil {
		if err := validateRating(req.Rating); err != nil {
			return nil, err
		}
		pin.Rating = req.Rating
	}
	if req.Notes != nil {
		pin.Notes = req.Notes
	}
	if req.IsFavorite != nil {
		pin.IsFavorite = *req.IsFavorite
	}
	if req.VisitDate != nil {
		visited, err := s.parseVisitDate(*req.VisitDate)
		if err != nil {
			return nil, err
		}
		pin.VisitedDate = visited
	}
	if req.Location != nil {
		point, err := resolvePoint(req.Location)
		if err != nil {
			return nil, err
		}
		pin.Location = point
		pin.PlaceName = req.Location.Name
		pin.PlaceIDGoogle = req.Location.PlaceID
		pin.AddressFormatted = req.Location.DisplayName
		pin.AddressCity = req.Location.Address.City
		pin.AddressCountry = req.Location.Address.Country
		pin.AddressCountryCode = req.Location.Address.CountryCode
	}

	if pin.Status == domain.PinVisited && pin.VisitedDate == nil {
		today := s.today()
		pin.VisitedDate = &today
	}

	if err := s.pinRepo.Update(ctx, pin); err != nil {
		return nil, fmt.Errorf("failed to update pin: %w", err)
	}

	s.publishPinActivities(ctx, user, pin, domain.ActivityUpdatePin)

	return pin, nil
}

// Delete removes a pin owned by the user.
func (s *pinService) Delete(ctx context.Context, userUUID, pinUUID string) error {
	user, err := s.activeUser(ctx, userUUID)
	if err != nil {
		return err
	}

	pin, err := s.ownedPin(ctx, user.ID, pinUUID)
	if err != nil {
		return err
	}

	if err := s.pinRepo.Delete(ctx, pin.ID, user.ID); err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}

	return nil
}

func (s *pinService) activeUser(ctx context.Context, userUUID string) (*domain.User, error) {
	user, err := s.userRepo.GetActiveByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *pinService) ownedPin(ctx context.Context, userID int64, pinUUID string) (*domain.Pin, error) {
	pin, err := s.pinRepo.GetByUUID(ctx, pinUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, fmt.Errorf("failed to get pin: %w", err)
	}
	if pin.UserID != userID {
		return nil, ErrPinNotFound
	}
	return pin, nil
}

// resolveVisitDate parses the supplied calendar date, defaulting a visited
// pin with no date to today in the configured zone.
func (s *pinService) resolveVisitDate(raw *string, status domain.PinStatus) (*time.Time, error) {
	if raw != nil {
		return s.parseVisitDate(*raw)
	}
	if status == domain.PinVisited {
		today := s.today()
		return &today, nil
	}
	return nil, nil
}

// resolvePoint turns request coordinates into a validated point. The multipart
// path bypasses gin's binding validation, so the nil check lives here rather
// than relying on the required tags.
func resolvePoint(loc *dto.PinLocationRequest) (geo.Point, error) {
	if loc.Lat == nil || loc.Lon == nil {
		return geo.Point{}, fmt.Errorf("location lat and lon are required: %w", ErrValidation)
	}

	point, err := geo.NewPoint(*loc.Lat, *loc.Lon)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%v: %w", err, ErrInvalidLocation)
	}
	return point, nil
}

// parseVisitDate accepts either a plain calendar date or an RFC 3339 instant;
// an instant is collapsed to its calendar date in the configured zone, so the
// stored date does not depend on where the process runs.
func (s *pinService) parseVisitDate(raw string) (*time.Time, error) {
	if instant, err := time.Parse(time.RFC3339, raw); err == nil {
		year, month, day := instant.In(s.visitLoc).Date()
		date := time.Date(year, month, day, 0, 0, 0, 0, s.visitLoc)
		return &date, nil
	}

	parsed, err := time.ParseInLocation(visitDateLayout, raw, s.visitLoc)
	if err != nil {
		return nil, fmt.Errorf("invalid visit_date %q, expected YYYY-MM-DD or RFC 3339: %w", raw, ErrValidation)
	}
	return &parsed, nil
}

func (s *pinService) today() time.Time {
	year, month, day := time.Now().In(s.visitLoc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, s.visitLoc)
}

// publishPinActivities fans the pin event out to the owner's followers and
// publishes any achievement the pin just unlocked. Failures are logged, not
// returned: the pin write has already committed.
func (s *pinService) publishPinActivities(ctx context.Context, user *domain.User, pin *domain.Pin, activityType domain.ActivityType) {
	followers, err := s.followRepo.ListFollowerIDs(ctx, user.ID)
	if err != nil {
		s.logger.Warn("failed to list followers for fan-out",
			zap.String("user_uuid", user.UUID), zap.Error(err))
		return
	}

	objectType := domain.ObjectPin
	activity := &domain.Activity{
		ActorID:      user.ID,
		ActivityType: activityType,
		ObjectID:     &pin.ID,
		ObjectType:   &objectType,
		Metadata:     pinMetadata(pin),
		Caption:      pin.Notes,
	}

	if err := s.activityRepo.CreateWithFanOut(ctx, activity, followers); err != nil {
		s.logger.Warn("failed to publish pin activity",
			zap.String("pin_uuid", pin.UUID), zap.Error(err))
	}

	s.publishAchievements(ctx, user, followers)
}

// publishAchievements re-reads the owner's refreshed travel stats and emits
// an achievement activity for every milestone hit exactly.
func (s *pinService) publishAchievements(ctx context.Context, user *domain.User, followers []int64) {
	refreshed, err := s.userRepo.GetActiveByUUID(ctx, user.UUID)
	if err != nil {
		s.logger.Warn("failed to reload user stats", zap.String("user_uuid", user.UUID), zap.Error(err))
		return
	}

	checks := []struct {
		activityType domain.ActivityType
		count        int
	}{
		{domain.ActivityAchievementCountries, refreshed.VisitedCountriesCount},
		{domain.ActivityAchievementCities, refreshed.VisitedCitiesCount},
		{domain.ActivityAchievementPins, refreshed.TotalPinsCount},
	}

	objectType := domain.ObjectUser
	for _, check := range checks {
		if !isMilestone(check.count) {
			continue
		}

		activity := &domain.Activity{
			ActorID:      user.ID,
			ActivityType: check.activityType,
			ObjectID:     &refreshed.ID,
			ObjectType:   &objectType,
			Metadata:     map[string]any{"count": check.count},
		}
		if err := s.activityRepo.CreateWithFanOut(ctx, activity, followers); err != nil {
			s.logger.Warn("failed to publish achievement activity",
				zap.String("user_uuid", user.UUID),
				zap.String("activity_type", string(check.activityType)),
				zap.Error(err))
		}
	}
}

func isMilestone(count int) bool {
	for _, m := range achievementMilestones {
		if count == m {
			return true
		}
	}
	return false
}

func pinActivityType(status domain.PinStatus) domain.ActivityType {
	if status == domain.PinWantToGo {
		return domain.ActivityNewPinWantToGo
	}
	return domain.ActivityNewPinVisited
}

func pinMetadata(pin *domain.Pin) map[string]any {
	metadata := map[string]any{
		"place_name": pin.PlaceName,
		"lat":        pin.Location.Lat,
		"lon":        pin.Location.Lon,
	}
	if pin.AddressCity != nil {
		metadata["city"] = *pin.AddressCity
	}
	if pin.AddressCountryCode != nil {
		metadata["country_code"] = *pin.AddressCountryCode
	}
	return metadata
}

func validateRating(rating *int16) error {
	if rating == nil {
		return nil
	}
	if *rating < 1 || *rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}
	return nil
}

func buildMedia(userID int64, reqs []dto.PinMediaRequest) ([]*domain.PinMedia, error) {
	media := make([]*domain.PinMedia, 0, len(reqs))
	for _, m := range reqs {
		mediaType := domain.MediaType(m.MediaType)
		if mediaType != domain.MediaImage && mediaType != domain.MediaVideo {
			return nil, fmt.Errorf("invalid media_type %q: %w", m.MediaType, ErrValidation)
		}
		media = append(media, &domain.PinMedia{
			UserID:       userID,
			MediaType:    mediaType,
			StorageURL:   m.StorageURL,
			ThumbnailURL: m.ThumbnailURL,
		})
	}
	return media, nil
}
