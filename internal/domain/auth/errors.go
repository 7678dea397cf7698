package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrSessionRevoked         = errors.New("session has been revoked")
	ErrIdentityProviderFailed = errors.New("identity provider unavailable")
)
