package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolroll/attendance-backend-go/internal/domain/auth"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/response"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
)

// AuthRequired accepts only verified, unrevoked session tokens. It must run
// after jwtauth.Verify.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeSession || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(token.JwtID()) {
				response.HandleError(w, auth.ErrSessionRevoked)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
