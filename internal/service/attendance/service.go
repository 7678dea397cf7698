package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/jwt"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	endpoints      attendance.Endpoints
	now            func() time.Time
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, endpoints attendance.Endpoints) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		endpoints:      endpoints,
		now:            time.Now,
	}
}

func (s *AttendanceServiceImpl) getScope(ctx context.Context) (attendance.Scope, error) {
	session, err := jwt.SessionFromContext(ctx)
	if err != nil {
		return attendance.Scope{}, fmt.Errorf("failed to extract session from context: %w", err)
	}
	return s.endpoints.Scope(session.DistrictCode, session.SchoolCode, session.UpstreamToken)
}

// ExportCSV implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportCSV(ctx context.Context) (*attendance.ExportFile, error) {
	scope, err := s.getScope(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.attendanceRepo.FetchAttendanceExport(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", attendance.ErrAttendanceFetchFailed, err)
	}

	return &attendance.ExportFile{
		Filename: fmt.Sprintf("attendance-%s-%s-%s.csv", scope.DistrictCode, scope.SchoolCode, s.now().Format("2006-01-02")),
		Content:  content,
	}, nil
}

// ListSubstitutes implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListSubstitutes(ctx context.Context) (*attendance.SubstituteListResponse, error) {
	scope, err := s.getScope(ctx)
	if err != nil {
		return nil, err
	}

	body, err := s.attendanceRepo.FetchSubstitutes(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", attendance.ErrSubstitutesFetchFailed, err)
	}

	distinct := attendance.DistinctSubstitutes(attendance.DecodeSubstitutes(body))
	items := make([]attendance.SubstituteResponse, 0, len(distinct))
	for _, sub := range distinct {
		items = append(items, attendance.SubstituteResponse{
			Email: sub.DisplayEmail(),
			Name:  sub.DisplayName(),
		})
	}

	return &attendance.SubstituteListResponse{
		Substitutes: items,
		Count:       len(items),
	}, nil
}
