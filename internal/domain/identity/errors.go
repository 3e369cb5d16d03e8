package identity

import "github.com/vivo/salesops-backend/internal/domain/shared"

// Identity-specific domain errors
var (
	ErrUserNotFound       = shared.NewDomainError("NOT_FOUND", "User not found")
	ErrInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")
	ErrUserDisabled       = shared.NewDomainError("FORBIDDEN", "User account is disabled")
	ErrNoSession          = shared.NewDomainError("UNAUTHORIZED", "No active session")
)
