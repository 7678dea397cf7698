package auth

import (
	"context"

	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*ProfileResponse, error)
}

// Identity is the result of a successful credential check upstream
type Identity struct {
	Token string
	User  user.User
}

// IdentityProvider checks credentials against the external identity provider
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}
