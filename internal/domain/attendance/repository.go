package attendance

import "context"

// AttendanceRepository reads raw attendance data from the upstream data
// service. Implementations return bodies untouched; parsing belongs to callers.
type AttendanceRepository interface {
	// FetchAttendanceExport returns the CSV attendance export for the scope
	FetchAttendanceExport(ctx context.Context, scope Scope) ([]byte, error)

	// FetchSubstitutes returns the JSON substitute list for the scope
	FetchSubstitutes(ctx context.Context, scope Scope) ([]byte, error)
}
