package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vivo/salesops-backend/internal/domain/identity"
	"github.com/vivo/salesops-backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUsername  = errors.New("missing username in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims carries the resolved identity inside the session token. The
// region and outlet codes scope every ERP list query, so they travel in
// the token rather than being refetched per request.
type Claims struct {
	jwt.RegisteredClaims
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	RegionCode string `json:"region_code"`
	RegionName string `json:"region_name"`
	OutletCode string `json:"outlet_code"`
	OutletName string `json:"outlet_name"`
}

// Session converts the claims back into the domain session.
func (c *Claims) Session() *identity.Session {
	return &identity.Session{
		Username:   c.Username,
		Name:       c.Name,
		Role:       c.Role,
		Region:     c.RegionName,
		RegionCode: c.RegionCode,
		Outlet:     c.OutletName,
		OutletCode: c.OutletCode,
	}
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TokenService issues and validates session tokens. A single HS256 token
// per login; logout revokes its jti until natural expiry.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.SessionConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// Issue creates a signed session token for the given user.
func (s *TokenService) Issue(user *identity.User) (string, *Claims, error) {
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   user.Username,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username:   user.Username,
		Name:       user.Name,
		Role:       user.RoleName,
		RegionCode: user.RegionCode,
		RegionName: user.RegionName,
		OutletCode: user.OutletCode,
		OutletName: user.OutletName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}

	return signed, claims, nil
}

// Validate parses and verifies a session token.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.Username == "" {
		return nil, ErrMissingUsername
	}

	return claims, nil
}

// GetExpiration returns the configured token lifetime
func (s *TokenService) GetExpiration() time.Duration {
	return s.expiration
}
