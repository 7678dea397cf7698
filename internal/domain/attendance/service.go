package attendance

import "context"

// AttendanceService exposes the upstream attendance data of the session's school
type AttendanceService interface {
	// ExportCSV returns the raw attendance export as a downloadable file
	ExportCSV(ctx context.Context) (*ExportFile, error)

	// ListSubstitutes returns the distinct substitutes assigned to the school
	ListSubstitutes(ctx context.Context) (*SubstituteListResponse, error)
}
