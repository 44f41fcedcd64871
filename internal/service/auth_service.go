package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pintrail/pintrail/internal/domain"
	"github.com/pintrail/pintrail/internal/dto"
	"github.com/pintrail/pintrail/internal/repository"
	"github.com/pintrail/pintrail/internal/utils"
)

// How many numeric suffixes to try before giving up on a derived username.
const usernameSuffixAttempts = 50

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	tokens     *utils.TokenProvider
	blacklist  TokenBlacklist
	verifier   ProviderVerifier
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *utils.TokenProvider,
	blacklist TokenBlacklist,
	verifier ProviderVerifier,
	bcryptCost int,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		blacklist:  blacklist,
		verifier:   verifier,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates an email/password account. Uniqueness is left to the
// storage constraints, so concurrent registrations for the same email or
// username produce exactly one account.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := utils.SanitizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("invalid email format: %w", ErrValidation)
	}
	if !utils.ValidateUsername(req.Username) {
		return nil, fmt.Errorf("username must be 3-50 characters of letters, numbers and underscores: %w", ErrValidation)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("password must be at least 8 characters with uppercase, lowercase and a number: %w", ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:                &email,
		PasswordHash:         &passwordHash,
		Username:             req.Username,
		DisplayName:          req.DisplayName,
		ProfileVisibility:    domain.ProfilePublic,
		NotesVisibility:      domain.ContentPrivate,
		BucketlistVisibility: domain.ContentPublic,
		SubscriptionStatus:   domain.SubscriptionFree,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		default:
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return s.authResponse(user)
}

// Login authenticates with email or username plus password. Every failure
// collapses to ErrInvalidCredentials so callers cannot probe which accounts
// exist or have been deleted.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.EmailOrUsername)

	var user *domain.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetActiveByEmail(ctx, utils.SanitizeEmail(identifier))
	} else {
		user, err = s.userRepo.GetActiveByUsername(ctx, identifier)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.PasswordHash == nil || !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// SocialLogin authenticates with a Google or Apple ID token. The provider
// subject is the stable key: a known subject logs in, an unknown subject with
// a known email attaches to that account, otherwise a fresh account is
// created with a username derived from the email.
func (s *authService) SocialLogin(ctx context.Context, req *dto.SocialLoginRequest) (*dto.AuthResponse, error) {
	provider := domain.SocialProvider(strings.ToUpper(strings.TrimSpace(req.Provider)))
	if !provider.Valid() {
		return nil, fmt.Errorf("provider %q: %w", req.Provider, ErrUnknownProvider)
	}

	identity, err := s.verifier.Verify(ctx, provider, req.IDToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByProviderID(ctx, provider, identity.ProviderID)
	if err == nil {
		if user.IsDeleted() {
			return nil, ErrAccountDeleted
		}
		return s.authResponse(user)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up provider id: %w", err)
	}

	email := identity.Email
	if email == nil {
		email = req.Email
	}
	if email != nil {
		sanitized := utils.SanitizeEmail(*email)
		email = &sanitized
	}

	// Unknown subject but known email: bind the provider to that account.
	if email != nil {
		existing, err := s.userRepo.GetByEmail(ctx, *email)
		if err == nil {
			if existing.IsDeleted() {
				return nil, ErrAccountDeleted
			}
			if err := s.userRepo.LinkProvider(ctx, existing.ID, provider, identity.ProviderID); err != nil {
				return nil, fmt.Errorf("failed to link provider: %w", err)
			}
			return s.authResponse(existing)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
	}

	user, err = s.createSocialUser(ctx, provider, identity.ProviderID, email, req)
	if err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

func (s *authService) createSocialUser(ctx context.Context, provider domain.SocialProvider, providerID string, email *string, req *dto.SocialLoginRequest) (*domain.User, error) {
	var base string
	if email != nil {
		base = utils.DeriveUsername(*email)
	} else {
		base = utils.DeriveUsername("")
	}

	username, err := s.pickFreeUsername(ctx, base)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:                email,
		Username:             username,
		DisplayName:          req.DisplayName,
		AvatarURL:            req.AvatarURL,
		ProfileVisibility:    domain.ProfilePublic,
		NotesVisibility:      domain.ContentPrivate,
		BucketlistVisibility: domain.ContentPublic,
		SubscriptionStatus:   domain.SubscriptionFree,
	}
	switch provider {
	case domain.ProviderGoogle:
		user.GoogleID = &providerID
	case domain.ProviderApple:
		user.AppleID = &providerID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two first logins with the same token can race; the loser picks up
		// the winner's account.
		if errors.Is(err, repository.ErrDuplicateProviderID) {
			existing, getErr := s.userRepo.GetByProviderID(ctx, provider, providerID)
			if getErr == nil && !existing.IsDeleted() {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to create social user: %w", err)
	}

	return user, nil
}

// pickFreeUsername appends an increasing numeric suffix until the candidate
// is unused.
func (s *authService) pickFreeUsername(ctx context.Context, base string) (string, error) {
	if !utils.ValidateUsername(base) {
		base = utils.DeriveUsername("")
	}

	candidate := base
	for i := 1; i <= usernameSuffixAttempts; i++ {
		taken, err := s.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}

	return "", fmt.Errorf("could not find a free username for %q", base)
}

// GetCurrentUser returns the authenticated user's own profile.
func (s *authService) GetCurrentUser(ctx context.Context, userUUID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetActiveByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return dto.NewUserResponse(user), nil
}

// GetPublicProfile returns a user's profile as seen by viewerUUID (empty for
// unauthenticated viewers). Private profiles are visible only to their owner.
func (s *authService) GetPublicProfile(ctx context.Context, viewerUUID, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.UUID == viewerUUID {
		return dto.NewUserResponse(user), nil
	}

	if user.ProfileVisibility == domain.ProfilePrivate {
		return nil, ErrProfilePrivate
	}

	return dto.PublicUserResponse(user), nil
}

// UpdateProfile applies a partial profile update; fields absent from the
// request keep their current value. An invalid visibility value rejects the
// whole request with nothing changed.
func (s *authService) UpdateProfile(ctx context.Context, userUUID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetActiveByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.ProfileVisibility != nil {
		v := domain.ProfileVisibility(*req.ProfileVisibility)
		if !v.Valid() {
			return nil, fmt.Errorf("invalid profile_visibility %q: %w", *req.ProfileVisibility, ErrValidation)
		}
		user.ProfileVisibility = v
	}
	if req.NotesVisibility != nil {
		v := domain.ContentVisibility(*req.NotesVisibility)
		if !v.Valid() {
			return nil, fmt.Errorf("invalid notes_visibility %q: %w", *req.NotesVisibility, ErrValidation)
		}
		user.NotesVisibility = v
	}
	if req.BucketlistVisibility != nil {
		v := domain.ContentVisibility(*req.BucketlistVisibility)
		if !v.Valid() {
			return nil, fmt.Errorf("invalid bucketlist_visibility %q: %w", *req.BucketlistVisibility, ErrValidation)
		}
		user.BucketlistVisibility = v
	}

	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.CoverURL != nil {
		user.CoverURL = req.CoverURL
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return dto.NewUserResponse(user), nil
}

// ChangePassword verifies the current password before storing a new hash.
// Social-only accounts have no password to change.
func (s *authService) ChangePassword(ctx context.Context, userUUID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetActiveByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.PasswordHash == nil {
		return ErrNoPassword
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, *user.PasswordHash) {
		return ErrWrongPassword
	}
	if !utils.ValidatePassword(req.NewPassword) {
		return fmt.Errorf("password must be at least 8 characters with uppercase, lowercase and a number: %w", ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteAccount soft-deletes the account and revokes the presented session
// token so it stops working immediately.
func (s *authService) DeleteAccount(ctx context.Context, userUUID, token string) error {
	user, err := s.userRepo.GetActiveByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.userRepo.SoftDelete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if token != "" {
		expiry := time.Duration(s.tokens.Expiry()) * time.Second
		if err := s.blacklist.AddToken(ctx, token, expiry); err != nil {
			s.logger.Warn("failed to blacklist token on account deletion",
				zap.String("user_uuid", userUUID), zap.Error(err))
		}
	}

	return nil
}

// IsEmailTaken reports whether any account, deleted or not, holds the email.
func (s *authService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return s.userRepo.ExistsByEmail(ctx, utils.SanitizeEmail(email))
}

// IsUsernameTaken reports whether any account, deleted or not, holds the
// username.
func (s *authService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.userRepo.ExistsByUsername(ctx, username)
}

// ValidateToken checks the blacklist, verifies the token and returns the
// subject UUID.
func (s *authService) ValidateToken(ctx context.Context, token string) (string, error) {
	blacklisted, err := s.blacklist.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return "", utils.ErrInvalidToken
	}

	return s.tokens.Validate(token)
}

func (s *authService) authResponse(user *domain.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.tokens.Expiry(),
		User:        dto.NewUserResponse(user),
	}, nil
}
