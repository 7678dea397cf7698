package jwt

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/schoolroll/attendance-backend-go/internal/domain/auth"
	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
)

// SessionCookieName is the cookie jwtauth.TokenFromCookie reads.
const SessionCookieName = "jwt"

// TokenTypeSession marks tokens issued by GenerateSessionToken
const TokenTypeSession = "session"

// SessionClaims are the attributes established at login and carried by
// every request of the session.
type SessionClaims struct {
	UserID        string
	Email         string
	Name          string
	Role          user.Role
	DistrictCode  string
	SchoolCode    string
	UpstreamToken string
}

// Session is a verified session token
type Session struct {
	SessionClaims
	TokenID   string
	ExpiresAt time.Time
}

// User returns the profile the session was issued for
func (s *Session) User() user.User {
	return user.User{
		ID:           s.UserID,
		Email:        s.Email,
		Name:         s.Name,
		Role:         s.Role,
		DistrictCode: s.DistrictCode,
		SchoolCode:   s.SchoolCode,
	}
}

type Service interface {
	GenerateSessionToken(claims SessionClaims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	SessionCookie(token string, expiresAt int64) *http.Cookie
	ClearSessionCookie() *http.Cookie
	RevokeToken(tokenID string, expiresAt int64)
	IsTokenRevoked(tokenID string) bool
	PurgeRevoked(now time.Time) int
}

type JWTService struct {
	secretKey                  string
	sessionTokenExpirationTime string
	secureCookies              bool
	tokenAuth                  *jwtauth.JWTAuth
	revokedTokens              map[string]int64
	mu                         sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, sessionTokenExpirationTime string, secureCookies bool) Service {
	return &JWTService{
		secretKey:                  secretKey,
		sessionTokenExpirationTime: sessionTokenExpirationTime,
		secureCookies:              secureCookies,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              make(map[string]int64),
	}
}

func (j *JWTService) GenerateSessionToken(claims SessionClaims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.sessionTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	now := time.Now()
	expiresAt = now.Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"jti":            uuid.NewString(),
		"user_id":        claims.UserID,
		"email":          claims.Email,
		"name":           claims.Name,
		"role":           string(claims.Role),
		"district_code":  claims.DistrictCode,
		"school_code":    claims.SchoolCode,
		"upstream_token": claims.UpstreamToken,
		"type":           TokenTypeSession,
		"iat":            now.Unix(),
		"exp":            expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) SessionCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// RevokeToken remembers a token id until its expiry
func (j *JWTService) RevokeToken(tokenID string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[tokenID] = expiresAt
}

func (j *JWTService) IsTokenRevoked(tokenID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[tokenID]
	return revoked
}

// PurgeRevoked forgets revoked ids whose tokens have expired anyway
func (j *JWTService) PurgeRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	purged := 0
	for id, expiresAt := range j.revokedTokens {
		if expiresAt <= now.Unix() {
			delete(j.revokedTokens, id)
			purged++
		}
	}
	return purged
}

// SessionFromContext returns the session verified by jwtauth.Verifier
func SessionFromContext(ctx context.Context) (*Session, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, auth.ErrInvalidToken
	}

	return &Session{
		SessionClaims: SessionClaims{
			UserID:        stringClaim(claims, "user_id"),
			Email:         stringClaim(claims, "email"),
			Name:          stringClaim(claims, "name"),
			Role:          user.Role(stringClaim(claims, "role")),
			DistrictCode:  stringClaim(claims, "district_code"),
			SchoolCode:    stringClaim(claims, "school_code"),
			UpstreamToken: stringClaim(claims, "upstream_token"),
		},
		TokenID:   token.JwtID(),
		ExpiresAt: token.Expiration(),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
