package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionTestsManage allows starting, ending and reconducting tests.
	PermissionTestsManage Permission = "tests:manage"

	// PermissionReportsRead allows viewing reports, leaderboards and candidate history.
	PermissionReportsRead Permission = "reports:read"

	// PermissionReportsDelete allows removing a candidate's report entry.
	PermissionReportsDelete Permission = "reports:delete"

	// PermissionMonitorRead allows watching live session events.
	PermissionMonitorRead Permission = "monitor:read"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionTestsManage,
	PermissionReportsRead,
	PermissionReportsDelete,
	PermissionMonitorRead,
}

// PermissionStrings returns AllPermissions as plain strings for token claims.
func PermissionStrings() []string {
	out := make([]string, len(AllPermissions))
	for i, p := range AllPermissions {
		out[i] = string(p)
	}
	return out
}
