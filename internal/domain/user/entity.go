package user

import "strings"

type Role string

const (
	RoleAdmin      Role = "admin"      // School administrator - live dashboard and exports
	RoleTeacher    Role = "teacher"    // Takes attendance for their classes
	RoleSubstitute Role = "substitute" // Covers classes for absent teachers
	RoleParent     Role = "parent"     // Receives absence notifications
)

// ParseRole normalizes a role string received from the identity provider
func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleAdmin, RoleTeacher, RoleSubstitute, RoleParent:
		return r, true
	default:
		return "", false
	}
}

// User is the profile established by the identity provider at login
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	DistrictCode string
	SchoolCode   string
}

// HasSchool checks if the user is bound to a district and school
func (u *User) HasSchool() bool {
	return u.DistrictCode != "" && u.SchoolCode != ""
}
