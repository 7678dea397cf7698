package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schoolroll/attendance-backend-go/internal/config"
	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/schoolroll/attendance-backend-go/internal/handler/http"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/cron"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
	"github.com/schoolroll/attendance-backend-go/internal/repository/upstream"
	attendanceService "github.com/schoolroll/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/schoolroll/attendance-backend-go/internal/service/auth"
	dashboardService "github.com/schoolroll/attendance-backend-go/internal/service/dashboard"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionExpiration, cfg.App.IsProduction())

	upstreamClient := upstream.NewClient(cfg.Upstream, nil)
	attendanceRepo := upstream.NewAttendanceRepository(upstreamClient)
	identityProvider := upstream.NewIdentityProvider(upstreamClient)
	endpoints := attendance.Endpoints{
		Attendance:  upstreamClient.AttendanceExportURL(),
		Substitutes: upstreamClient.SubstitutesURL(),
	}

	authService := serviceAuth.NewAuthService(identityProvider, JWTService)
	dashboardSvc := dashboardService.NewDashboardService(attendanceRepo, endpoints)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, endpoints)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService)
	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(
		cfg.App,
		logger,
		JWTService,
		authHandler,
		dashboardHandler,
		attendanceHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewSessionJobs(JWTService).RegisterJobs(scheduler)
	scheduler.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "upstream", cfg.Upstream.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()
	slog.Info("Server stopped")
}
