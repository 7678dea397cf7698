package attendance

import "errors"

// Attendance domain errors
var (
	ErrScopeRequired          = errors.New("district and school are required")
	ErrInvalidScope           = errors.New("district or school code is malformed")
	ErrAttendanceFetchFailed  = errors.New("failed to fetch attendance data")
	ErrSubstitutesFetchFailed = errors.New("failed to fetch substitute data")
)
