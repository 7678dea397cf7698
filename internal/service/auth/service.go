package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/schoolroll/attendance-backend-go/internal/domain/auth"
	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	identityProvider auth.IdentityProvider
	jwtService       jwt.Service
}

func NewAuthService(identityProvider auth.IdentityProvider, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		identityProvider: identityProvider,
		jwtService:       jwtService,
	}
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (*auth.SessionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	identity, err := s.identityProvider.Authenticate(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrIdentityProviderFailed, err)
	}

	role, ok := user.ParseRole(string(identity.User.Role))
	if !ok {
		slog.Warn("Login rejected for unsupported role", "email", email, "role", identity.User.Role)
		return nil, user.ErrUnsupportedRole
	}

	profileEmail := identity.User.Email
	if profileEmail == "" {
		profileEmail = email
	}

	claims := jwt.SessionClaims{
		UserID:        identity.User.ID,
		Email:         profileEmail,
		Name:          identity.User.Name,
		Role:          role,
		DistrictCode:  strings.TrimSpace(identity.User.DistrictCode),
		SchoolCode:    strings.TrimSpace(identity.User.SchoolCode),
		UpstreamToken: identity.Token,
	}

	token, expiresAt, err := s.jwtService.GenerateSessionToken(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &auth.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      profileFromClaims(claims),
	}, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return auth.ErrInvalidToken
	}
	if session.TokenID == "" {
		return auth.ErrInvalidToken
	}
	s.jwtService.RevokeToken(session.TokenID, session.ExpiresAt.Unix())
	return nil
}

// Me implements auth.AuthService.
func (s *AuthServiceImpl) Me(ctx context.Context) (*auth.ProfileResponse, error) {
	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	profile := profileFromClaims(session.SessionClaims)
	return &profile, nil
}

func profileFromClaims(claims jwt.SessionClaims) auth.ProfileResponse {
	return auth.ProfileResponse{
		ID:           claims.UserID,
		Email:        claims.Email,
		Name:         claims.Name,
		Role:         string(claims.Role),
		DistrictCode: claims.DistrictCode,
		SchoolCode:   claims.SchoolCode,
	}
}
