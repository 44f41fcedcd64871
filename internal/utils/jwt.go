package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Fixed issuer/audience claims, checked on every validation to guard against
// tokens minted by or for another service.
const (
	TokenIssuer   = "pintrail-api"
	TokenAudience = "pintrail-app"
)

// ErrInvalidToken is the single outcome callers see for any validation
// failure: expiry, malformed payload, bad signature, wrong issuer or
// audience. The distinct cause is logged, never returned.
var ErrInvalidToken = errors.New("invalid token")

// TokenProvider issues and validates signed session tokens bound to a user's
// external UUID. Validation is pure and safe for concurrent use.
type TokenProvider struct {
	secret []byte
	expiry time.Duration
	logger *zap.Logger
}

// NewTokenProvider creates a token provider. The secret length is validated
// at config load time (minimum 32 bytes for HS256).
func NewTokenProvider(secret string, expiry time.Duration, logger *zap.Logger) *TokenProvider {
	return &TokenProvider{
		secret: []byte(secret),
		expiry: expiry,
		logger: logger,
	}
}

// Issue generates a signed token whose subject is the user's external UUID.
func (p *TokenProvider) Issue(userUUID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userUUID,
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate verifies signature, issuer, audience and expiry, returning the
// subject UUID. Any failure collapses to ErrInvalidToken.
func (p *TokenProvider) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return p.secret, nil
		},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			p.logger.Warn("token expired", zap.Error(err))
		case errors.Is(err, jwt.ErrTokenMalformed):
			p.logger.Error("malformed token", zap.Error(err))
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			p.logger.Error("invalid token signature", zap.Error(err))
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			p.logger.Error("token issuer/audience mismatch", zap.Error(err))
		default:
			p.logger.Error("token validation failed", zap.Error(err))
		}
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		p.logger.Error("token missing subject claim")
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// Expiry returns the configured token lifetime in seconds.
func (p *TokenProvider) Expiry() int {
	return int(p.expiry.Seconds())
}
