package user

type Permission string

const (
	// Dashboard
	PermissionDashboardView Permission = "dashboard.view"

	// Attendance
	PermissionAttendanceExport Permission = "attendance.export"

	// Substitutes
	PermissionSubstitutesView Permission = "substitutes.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionDashboardView,
		PermissionAttendanceExport,
		PermissionSubstitutesView,
	},
	RoleTeacher: {
		PermissionAttendanceExport,
	},
	RoleSubstitute: {
		// Substitutes only see their own assignments upstream
	},
	RoleParent: {
		// Parents have no school-wide access
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
