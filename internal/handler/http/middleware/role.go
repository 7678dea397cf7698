package middleware

import (
	"fmt"
	"net/http"

	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/response"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
)

// RequirePermission checks if the session role grants a specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := jwt.SessionFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasPermission(session.Role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but user role is '%s'",
					user.ErrInsufficientPermissions, permission, session.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
