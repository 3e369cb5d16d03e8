package erp

import (
	"context"

	"github.com/vivo/salesops-backend/internal/domain/identity"
)

// UserRepository looks up users in the ERP's Vivousers table by username.
type UserRepository struct {
	client *Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// GetByUsername fetches the user record matching the exact username.
// Zero rows means the user does not exist.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	body, err := r.client.Fetch(ctx, listPath(endpointUsers, eqFilter("Bitsn_UserName", username)))
	if err != nil {
		return nil, err
	}

	users, err := collection[identity.User](body)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, identity.ErrUserNotFound
	}
	return &users[0], nil
}

// Ensure UserRepository implements the domain interface
var _ identity.UserRepository = (*UserRepository)(nil)
