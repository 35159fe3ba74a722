package domain

// StaffRoster is the closed set of assignable maintenance staff and vendors.
var StaffRoster = []string{
	"Personal Interno",
	"Mario Plomería",
	"Luigi Electricidad",
	"Seguridad SafeGuard",
	"CleanCo",
}

// IsAssignable reports whether name may be set as a ticket assignee.
// The empty name means unassigned.
func IsAssignable(name string) bool {
	if name == "" {
		return true
	}
	for _, staff := range StaffRoster {
		if staff == name {
			return true
		}
	}
	return false
}
