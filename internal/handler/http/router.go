package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolroll/attendance-backend-go/internal/config"
	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/middleware"
	"github.com/schoolroll/attendance-backend-go/internal/handler/http/response"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg config.AppConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	authHandler AuthHandler,
	dashboardHandler DashboardHandler,
	attendanceHandler AttendanceHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromCookie, jwtauth.TokenFromHeader))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// Requires a session bound to a school
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromCookie, jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.RequireSchool)

			r.With(middleware.RequirePermission(user.PermissionDashboardView)).
				Get("/dashboard/live", dashboardHandler.GetLiveDashboard)

			r.With(middleware.RequirePermission(user.PermissionAttendanceExport)).
				Get("/attendance/export", attendanceHandler.Export)

			r.With(middleware.RequirePermission(user.PermissionSubstitutesView)).
				Get("/substitutes", attendanceHandler.ListSubstitutes)
		})
	})
	return r
}

// NewLogger builds the JSON ECS logger used for request and application logs
func NewLogger(cfg config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)
}
