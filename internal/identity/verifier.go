// Package identity verifies caller credentials and resolves author profiles.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"dailyverse/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a verified credential says about its caller.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Profile is the subset of provider data used for author fallbacks.
func (i *Identity) Profile() Profile {
	return Profile{
		DisplayName: i.DisplayName,
		Email:       i.Email,
		PhotoURL:    i.PhotoURL,
	}
}

// Verifier maps a bearer credential to a stable user id.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims are the provider token claims we read. The profile claim names follow
// the OpenID Connect standard claims.
type Claims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HMAC-signed tokens issued by the identity provider.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

// NewJWTVerifier returns a verifier bound to a shared secret, issuer and audience.
func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		leeway:   30 * time.Second,
	}
}

// Verify parses token and returns the caller identity. Every failure is an
// UNAUTHORIZED AppError.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, models.NewUnauthorizedError("Authorization required")
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !parsed.Valid {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.NewUnauthorizedError("Token has expired")
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, models.NewUnauthorizedError("Invalid token issuer")
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, models.NewUnauthorizedError("Invalid token audience")
		default:
			return nil, models.NewUnauthorizedError("Invalid or expired token")
		}
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}

	return &Identity{
		UID:         claims.Subject,
		DisplayName: strings.TrimSpace(claims.Name),
		Email:       strings.TrimSpace(claims.Email),
		PhotoURL:    strings.TrimSpace(claims.Picture),
	}, nil
}

// Issue signs a token for id. Used by tests and local tooling.
func (v *JWTVerifier) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:    id.DisplayName,
		Email:   id.Email,
		Picture: id.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			Issuer:    v.issuer,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
