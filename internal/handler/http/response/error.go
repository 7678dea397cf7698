package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
	"github.com/schoolroll/attendance-backend-go/internal/domain/auth"
	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, jwtauth.ErrNoTokenFound),
		errors.Is(err, jwtauth.ErrExpired),
		errors.Is(err, jwtauth.ErrUnauthorized):
		Unauthorized(w, "Invalid or expired session")
	case errors.Is(err, auth.ErrSessionRevoked):
		Unauthorized(w, "Session has been revoked")
	case errors.Is(err, auth.ErrIdentityProviderFailed):
		slog.Error("Identity provider error", "error", err)
		BadGateway(w, "Login service unavailable")

	// User domain errors
	case errors.Is(err, user.ErrUnsupportedRole):
		Forbidden(w, "Role is not allowed to use this application")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrSchoolRequired):
		Forbidden(w, "Session is not bound to a district and school")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrScopeRequired):
		Forbidden(w, "Session is not bound to a district and school")
	case errors.Is(err, attendance.ErrInvalidScope):
		BadRequest(w, "Invalid district or school code", nil)
	case errors.Is(err, attendance.ErrAttendanceFetchFailed),
		errors.Is(err, attendance.ErrSubstitutesFetchFailed):
		slog.Error("Upstream fetch error", "error", err)
		BadGateway(w, "Failed to fetch data")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
