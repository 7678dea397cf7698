package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/schoolroll/attendance-backend-go/internal/domain/attendance"
)

type attendanceRepositoryImpl struct {
	client *Client
}

func NewAttendanceRepository(client *Client) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{client: client}
}

// FetchAttendanceExport downloads the CSV export for the scope
func (r *attendanceRepositoryImpl) FetchAttendanceExport(ctx context.Context, scope attendance.Scope) ([]byte, error) {
	return r.client.getScoped(ctx, "attendance export", scope.AttendanceEndpoint, scope, "text/csv")
}

// FetchSubstitutes downloads the substitute list for the scope
func (r *attendanceRepositoryImpl) FetchSubstitutes(ctx context.Context, scope attendance.Scope) ([]byte, error) {
	return r.client.getScoped(ctx, "substitute list", scope.SubsEndpoint, scope, "application/json")
}

// getScoped issues a GET bounded to the scope's district and school
func (c *Client) getScoped(ctx context.Context, op, endpoint string, scope attendance.Scope, accept string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("upstream %s: invalid endpoint: %w", op, err)
	}
	q := u.Query()
	q.Set("district_code", scope.DistrictCode)
	q.Set("school_code", scope.SchoolCode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("upstream %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", accept)

	return c.do(c.clientFor(ctx, scope.AuthToken), op, req)
}
