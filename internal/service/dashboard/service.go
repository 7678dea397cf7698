package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
	"github.com/schoolroll/attendance-backend-go/internal/domain/dashboard"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	endpoints attendance.Endpoints
	now       func() time.Time
}

func NewDashboardService(repo attendance.AttendanceRepository, endpoints attendance.Endpoints) dashboard.DashboardService {
	return &DashboardServiceImpl{
		AttendanceRepository: repo,
		endpoints:            endpoints,
		now:                  time.Now,
	}
}

// getScope resolves the district/school scope from the session claims
func (s *DashboardServiceImpl) getScope(ctx context.Context) (attendance.Scope, error) {
	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return attendance.Scope{}, fmt.Errorf("failed to extract session from context: %w", err)
	}
	return s.endpoints.Scope(session.DistrictCode, session.SchoolCode, session.UpstreamToken)
}

// GetLiveDashboard fetches the export and the substitute list in parallel,
// then aggregates. A failed export fails the call; a failed substitute fetch
// only zeroes subsCount.
func (s *DashboardServiceImpl) GetLiveDashboard(ctx context.Context) (*dashboard.DashboardSummary, error) {
	scope, err := s.getScope(ctx)
	if err != nil {
		return nil, err
	}

	var (
		exportCSV   []byte
		substitutes []attendance.SubstituteRecord
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Attendance export (CSV)
	g.Go(func() error {
		body, err := s.FetchAttendanceExport(gCtx, scope)
		if err != nil {
			return fmt.Errorf("%w: %w", attendance.ErrAttendanceFetchFailed, err)
		}
		exportCSV = body
		return nil
	})

	// 2. Substitute list (JSON)
	g.Go(func() error {
		body, err := s.FetchSubstitutes(gCtx, scope)
		if err != nil {
			slog.Warn("Substitute list unavailable, reporting zero substitutes",
				"district_code", scope.DistrictCode, "school_code", scope.SchoolCode, "error", err)
			substitutes = []attendance.SubstituteRecord{}
			return nil
		}
		substitutes = attendance.DecodeSubstitutes(body)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Aggregate(string(exportCSV), substitutes, s.now())
	slog.Debug("Live dashboard aggregated",
		"district_code", scope.DistrictCode,
		"school_code", scope.SchoolCode,
		"total", summary.Total,
		"absent", summary.Absent,
	)
	return &summary, nil
}
