package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolroll/attendance-backend-go/internal/domain/auth"
	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSessionExp = "1h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeIdentityProvider struct {
	identity  *auth.Identity
	err       error
	lastEmail string
}

func (f *fakeIdentityProvider) Authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	f.lastEmail = email
	return f.identity, f.err
}

func adminIdentity() *auth.Identity {
	return &auth.Identity{
		Token: "up-token",
		User: user.User{
			ID:           "17",
			Email:        "admin@school.edu",
			Name:         "Pat Admin",
			Role:         "Admin",
			DistrictCode: "D01",
			SchoolCode:   "S042",
		},
	}
}

func sessionContext(t *testing.T, jwtSvc jwt.Service, token string) context.Context {
	verified, err := jwtauth.VerifyToken(jwtSvc.JWTAuth(), token)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), verified, nil)
}

// Test Login with valid credentials
func TestAuthService_Login_Success(t *testing.T) {
	idp := &fakeIdentityProvider{identity: adminIdentity()}
	jwtSvc := jwt.NewJWTService(testSecret, testSessionExp, false)
	authService := NewAuthService(idp, jwtSvc)

	resp, err := authService.Login(context.Background(), auth.LoginRequest{Email: " Admin@School.edu ", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "admin@school.edu", idp.lastEmail)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, auth.ProfileResponse{
		ID:           "17",
		Email:        "admin@school.edu",
		Name:         "Pat Admin",
		Role:         "admin",
		DistrictCode: "D01",
		SchoolCode:   "S042",
	}, resp.User)

	session, err := jwt.SessionFromContext(sessionContext(t, jwtSvc, resp.Token))
	require.NoError(t, err)
	assert.Equal(t, "up-token", session.UpstreamToken)
	assert.Equal(t, user.RoleAdmin, session.Role)
}

// Test Login with invalid credentials
func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	idp := &fakeIdentityProvider{err: auth.ErrInvalidCredentials}
	authService := NewAuthService(idp, jwt.NewJWTService(testSecret, testSessionExp, false))

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "a@b.cd", Password: "x"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, auth.ErrIdentityProviderFailed)
}

// Test Login when the identity provider is down
func TestAuthService_Login_ProviderFailure(t *testing.T) {
	cause := errors.New("connection refused")
	idp := &fakeIdentityProvider{err: cause}
	authService := NewAuthService(idp, jwt.NewJWTService(testSecret, testSessionExp, false))

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "a@b.cd", Password: "x"})
	assert.ErrorIs(t, err, auth.ErrIdentityProviderFailed)
	assert.ErrorIs(t, err, cause)
}

// Test Login with a role this application does not serve
func TestAuthService_Login_UnsupportedRole(t *testing.T) {
	identity := adminIdentity()
	identity.User.Role = "superintendent"
	authService := NewAuthService(&fakeIdentityProvider{identity: identity}, jwt.NewJWTService(testSecret, testSessionExp, false))

	_, err := authService.Login(context.Background(), auth.LoginRequest{Email: "a@b.cd", Password: "x"})
	assert.ErrorIs(t, err, user.ErrUnsupportedRole)
}

// Test Logout revokes the session id
func TestAuthService_Logout(t *testing.T) {
	jwtSvc := jwt.NewJWTService(testSecret, testSessionExp, false)
	authService := NewAuthService(&fakeIdentityProvider{identity: adminIdentity()}, jwtSvc)

	resp, err := authService.Login(context.Background(), auth.LoginRequest{Email: "admin@school.edu", Password: "x"})
	require.NoError(t, err)

	ctx := sessionContext(t, jwtSvc, resp.Token)
	require.NoError(t, authService.Logout(ctx))

	session, err := jwt.SessionFromContext(ctx)
	require.NoError(t, err)
	assert.True(t, jwtSvc.IsTokenRevoked(session.TokenID))
}

// Test Logout without a session
func TestAuthService_Logout_NoSession(t *testing.T) {
	authService := NewAuthService(&fakeIdentityProvider{}, jwt.NewJWTService(testSecret, testSessionExp, false))

	assert.ErrorIs(t, authService.Logout(context.Background()), auth.ErrInvalidToken)
}

// Test Me returns the profile stored in the session
func TestAuthService_Me(t *testing.T) {
	jwtSvc := jwt.NewJWTService(testSecret, testSessionExp, false)
	authService := NewAuthService(&fakeIdentityProvider{identity: adminIdentity()}, jwtSvc)

	resp, err := authService.Login(context.Background(), auth.LoginRequest{Email: "admin@school.edu", Password: "x"})
	require.NoError(t, err)

	profile, err := authService.Me(sessionContext(t, jwtSvc, resp.Token))
	require.NoError(t, err)
	assert.Equal(t, resp.User, *profile)
}
