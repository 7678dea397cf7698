package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionDashboardView))
	assert.True(t, HasPermission(RoleAdmin, PermissionSubstitutesView))
	assert.True(t, HasPermission(RoleTeacher, PermissionAttendanceExport))
	assert.False(t, HasPermission(RoleTeacher, PermissionDashboardView))
	assert.False(t, HasPermission(RoleParent, PermissionAttendanceExport))
	assert.False(t, HasPermission(Role("janitor"), PermissionDashboardView))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("principal")
	assert.False(t, ok)
}

func TestUserHasSchool(t *testing.T) {
	u := User{DistrictCode: "D01", SchoolCode: "S042"}
	assert.True(t, u.HasSchool())

	u.SchoolCode = ""
	assert.False(t, u.HasSchool())
}
