package domain

import "strings"

// Permission is an "action:resource" capability tag. The tag strings are part
// of the contract with the frontend, which gates UI elements on these exact
// values — do not rename without a coordinated UI change.
type Permission string

const (
	PermViewAppointments   Permission = "view:appointments"
	PermCreateAppointments Permission = "create:appointments"
	PermEditAppointments   Permission = "edit:appointments"
	PermDeleteAppointments Permission = "delete:appointments"

	PermViewPatients   Permission = "view:patients"
	PermCreatePatients Permission = "create:patients"
	PermEditPatients   Permission = "edit:patients"
	PermDeletePatients Permission = "delete:patients"

	PermViewDoctors   Permission = "view:doctors"
	PermCreateDoctors Permission = "create:doctors"
	PermEditDoctors   Permission = "edit:doctors"
	PermDeleteDoctors Permission = "delete:doctors"

	PermViewReports   Permission = "view:reports"
	PermSendMessages  Permission = "send:messages"
	PermViewMessages  Permission = "view:messages"
	PermManageUsers   Permission = "manage:users"
	PermManageClinics Permission = "manage:clinics"
	PermEditSettings  Permission = "edit:settings"
)

// rolePermissions is the fixed compile-time capability table. There are no
// dynamic grants; changing a role's capabilities is a code change.
var rolePermissions = map[string][]Permission{
	RoleAdmin: {
		PermViewAppointments, PermCreateAppointments, PermEditAppointments, PermDeleteAppointments,
		PermViewPatients, PermCreatePatients, PermEditPatients, PermDeletePatients,
		PermViewDoctors, PermCreateDoctors, PermEditDoctors, PermDeleteDoctors,
		PermViewReports, PermSendMessages, PermViewMessages,
		PermManageUsers, PermManageClinics, PermEditSettings,
	},
	RoleClinic: {
		PermViewAppointments, PermCreateAppointments, PermEditAppointments, PermDeleteAppointments,
		PermViewPatients, PermCreatePatients, PermEditPatients, PermDeletePatients,
		PermViewDoctors, PermCreateDoctors, PermEditDoctors,
		PermViewReports, PermSendMessages, PermViewMessages,
		PermEditSettings,
	},
	RoleDoctor: {
		PermViewAppointments, PermEditAppointments,
		PermViewPatients, PermEditPatients,
	},
	RoleReceptionist: {
		PermViewAppointments, PermCreateAppointments, PermEditAppointments,
		PermViewPatients, PermCreatePatients, PermEditPatients,
		PermSendMessages, PermViewMessages,
	},
}

// routePermissions maps a page-route prefix to the permissions that allow it
// (any one suffices). Longest matching prefix wins.
var routePermissions = map[string][]Permission{
	"/clinic/appointments": {PermViewAppointments},
	"/clinic/patients":     {PermViewPatients},
	"/clinic/doctors":      {PermViewDoctors},
	"/clinic/reports":      {PermViewReports},
	"/clinic/messages":     {PermViewMessages},
	"/clinic/settings":     {PermEditSettings},
	"/admin/clinics":       {PermManageClinics},
	"/admin/users":         {PermManageUsers},
}

// HasPermission reports whether the user's role holds p. A nil user holds
// nothing.
func HasPermission(u *User, p Permission) bool {
	if u == nil {
		return false
	}
	for _, held := range rolePermissions[u.Role] {
		if held == p {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the user holds at least one of perms.
func HasAnyPermission(u *User, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(u, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every one of perms.
func HasAllPermissions(u *User, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(u, p) {
			return false
		}
	}
	return true
}

// CanAccessRoute checks the static route table. Routes with no entry are
// permitted for any user — fail-open is the established behavior the
// frontend relies on; flagged for review, do not flip to deny-by-default
// without auditing every page route.
func CanAccessRoute(u *User, routePath string) bool {
	var required []Permission
	bestLen := -1
	for prefix, perms := range routePermissions {
		if strings.HasPrefix(routePath, prefix) && len(prefix) > bestLen {
			required = perms
			bestLen = len(prefix)
		}
	}
	if bestLen < 0 {
		return true
	}
	return HasAnyPermission(u, required...)
}

// PermissionsForRole returns the role's capability set; empty for unknown
// roles.
func PermissionsForRole(role string) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
