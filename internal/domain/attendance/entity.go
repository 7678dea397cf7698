package attendance

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/schoolroll/attendance-backend-go/internal/pkg/validator"
)

// Status is the normalized attendance status of a student
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusPending Status = "pending"
)

// NormalizeStatus trims and lower-cases a raw status. Unknown values yield "".
func NormalizeStatus(raw string) Status {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPresent, StatusAbsent, StatusPending:
		return s
	default:
		return ""
	}
}

// IsKnown reports whether the status is one of the three recognized values
func (s Status) IsKnown() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusPending
}

// Rank orders statuses for equal-timestamp tie-breaks: a final status
// (present/absent) outranks pending.
func (s Status) Rank() int {
	switch s {
	case StatusPresent, StatusAbsent:
		return 1
	default:
		return 0
	}
}

// epochSecondsCutoff separates epoch seconds from epoch milliseconds.
const epochSecondsCutoff = 2e10

// ParseTimestamp converts a created_at value to epoch milliseconds.
// Numbers below 2e10 are seconds, larger ones milliseconds; anything else is
// parsed as a date string (zone-less strings are UTC). Unparseable input is 0.
func ParseTimestamp(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		if n < epochSecondsCutoff {
			return int64(n * 1000)
		}
		return int64(n)
	}

	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// Record is one attendance row after field resolution
type Record struct {
	StudentID   string
	StudentName string
	ClassName   string
	Period      string
	TeacherName string
	Status      Status
	Timestamp   int64 // epoch milliseconds, 0 when unknown
}

// Supersedes reports whether r should replace prev as the latest record for
// the same student: newer wins, and on a tie a final status beats pending.
func (r Record) Supersedes(prev Record) bool {
	if r.Timestamp != prev.Timestamp {
		return r.Timestamp > prev.Timestamp
	}
	return r.Status.Rank() > prev.Status.Rank()
}

// Scope bounds every upstream query to one district and school.
type Scope struct {
	AttendanceEndpoint string
	SubsEndpoint       string
	DistrictCode       string
	SchoolCode         string
	AuthToken          string // upstream bearer token, optional
}

// Endpoints are the upstream URLs a Scope is built on
type Endpoints struct {
	Attendance  string
	Substitutes string
}

// Scope resolves a query scope for the given district and school
func (e Endpoints) Scope(districtCode, schoolCode, authToken string) (Scope, error) {
	districtCode = strings.TrimSpace(districtCode)
	schoolCode = strings.TrimSpace(schoolCode)
	if districtCode == "" || schoolCode == "" {
		return Scope{}, ErrScopeRequired
	}
	if !validator.IsValidScopeCode(districtCode) || !validator.IsValidScopeCode(schoolCode) {
		return Scope{}, ErrInvalidScope
	}
	return Scope{
		AttendanceEndpoint: e.Attendance,
		SubsEndpoint:       e.Substitutes,
		DistrictCode:       districtCode,
		SchoolCode:         schoolCode,
		AuthToken:          authToken,
	}, nil
}
