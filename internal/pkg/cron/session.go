package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
)

const purgeRevokedSessionsInterval = 15 * time.Minute

type SessionJobs struct {
	jwtService jwt.Service
	now        func() time.Time
}

func NewSessionJobs(jwtService jwt.Service) *SessionJobs {
	return &SessionJobs{
		jwtService: jwtService,
		now:        time.Now,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_revoked_sessions", purgeRevokedSessionsInterval, j.PurgeRevokedSessions)
}

// PurgeRevokedSessions forgets logged-out sessions whose tokens have expired
func (j *SessionJobs) PurgeRevokedSessions(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if purged := j.jwtService.PurgeRevoked(j.now()); purged > 0 {
		slog.Info("Cron: Purged revoked sessions", "count", purged)
	}
	return nil
}
