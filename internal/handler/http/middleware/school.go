package middleware

import (
	"net/http"

	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/response"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
)

// RequireSchool rejects sessions that are not bound to a district and school
func RequireSchool(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := jwt.SessionFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		u := session.User()
		if !u.HasSchool() {
			response.HandleError(w, user.ErrSchoolRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
