package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/vivo/salesops-backend/internal/domain/identity"
	"github.com/vivo/salesops-backend/internal/infrastructure/auth"
	"github.com/vivo/salesops-backend/internal/infrastructure/erp"
	"github.com/vivo/salesops-backend/internal/infrastructure/logger"
)

// SessionService handles login against the ERP's user table and resolves
// the current session on every authenticated request. The ERP stores the
// password in the clear and the comparison happens here; that contract is
// inherited from the user table's owners.
type SessionService struct {
	users      identity.UserRepository
	tokens     *auth.TokenService
	revocation auth.RevocationStore
	logger     *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	users identity.UserRepository,
	tokens *auth.TokenService,
	revocation auth.RevocationStore,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		users:      users,
		tokens:     tokens,
		revocation: revocation,
		logger:     logger,
	}
}

// log prefers the request-scoped logger so lines carry the request ID.
func (s *SessionService) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

// Login authenticates a user and returns a session carrying the token.
// Unknown users and wrong passwords answer identically so usernames
// cannot be probed.
func (s *SessionService) Login(ctx context.Context, username, password string) (*identity.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == identity.ErrUserNotFound {
			s.log(ctx).Warn("Login attempt for unknown user", zap.String("username", username))
			return nil, identity.ErrInvalidCredentials
		}
		s.log(ctx).Error("User lookup failed during login", zap.String("username", username), zap.Error(err))
		return nil, erp.DomainError(err)
	}

	if !user.Enabled {
		s.log(ctx).Warn("Login attempt for disabled user", zap.String("username", username))
		return nil, identity.ErrUserDisabled
	}

	if password == "" || password != user.Password {
		s.log(ctx).Warn("Invalid password attempt", zap.String("username", username))
		return nil, identity.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		s.log(ctx).Error("Failed to issue session token", zap.Error(err))
		return nil, err
	}

	s.log(ctx).Info("User logged in",
		zap.String("username", username),
		zap.String("region_code", user.RegionCode),
		zap.String("outlet_code", user.OutletCode),
	)

	session := claims.Session()
	session.Token = token
	return session, nil
}

// CurrentUser resolves the session behind a presented token. A missing,
// malformed, expired or revoked token yields no session; callers answer
// 401 without ever issuing a scoped ERP query.
func (s *SessionService) CurrentUser(ctx context.Context, tokenString string) (*identity.Session, error) {
	if tokenString == "" {
		return nil, identity.ErrNoSession
	}

	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, identity.ErrNoSession
	}

	revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.log(ctx).Error("Revocation check failed", zap.Error(err))
		return nil, identity.ErrNoSession
	}
	if revoked {
		return nil, identity.ErrNoSession
	}

	return claims.Session(), nil
}

// Logout revokes the presented token until its natural expiry. Revoking
// an already-invalid token is a no-op, not an error.
func (s *SessionService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil
	}

	// A token can expire between Validate and here; a zero TTL would turn
	// the revocation key permanent, and an expired token needs none.
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}

	if err := s.revocation.Revoke(ctx, claims.ID, ttl); err != nil {
		s.log(ctx).Error("Failed to revoke session", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}

	s.log(ctx).Info("User logged out", zap.String("username", claims.Username))
	return nil
}
