package domain

import "strings"

// Role is a fixed category of account holder. Values are lowercase and
// compared case-sensitively.
type Role string

const (
	RoleJobseeker  Role = "jobseeker"
	RoleRecruiter  Role = "recruiter"
	RoleFreelancer Role = "freelancer"
	RoleClient     Role = "client"
	RoleCollege    Role = "college"
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleHRAdmin    Role = "hr_admin"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every valid role in display order.
var Roles = []Role{
	RoleJobseeker,
	RoleRecruiter,
	RoleFreelancer,
	RoleClient,
	RoleCollege,
	RoleStudent,
	RoleAdmin,
	RoleHRAdmin,
	RoleSuperAdmin,
}

var validRoles = func() map[Role]struct{} {
	m := make(map[Role]struct{}, len(Roles))
	for _, r := range Roles {
		m[r] = struct{}{}
	}
	return m
}()

// IsValidRole reports whether s is exactly one of the enumerated roles.
// No case folding is applied: "Student" is not a valid role.
func IsValidRole(s string) bool {
	_, ok := validRoles[Role(s)]
	return ok
}

// Valid reports whether r belongs to the enumeration.
func (r Role) Valid() bool {
	return IsValidRole(string(r))
}

func (r Role) String() string { return string(r) }

// NormalizeRole maps loosely cased input ("Student", " HR-Admin ") onto the
// enumeration. It is only applied to payloads known to be inconsistently
// cased; user-facing role parameters go through IsValidRole unchanged.
func NormalizeRole(s string) (Role, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "-", "_")
	if !IsValidRole(n) {
		return "", false
	}
	return Role(n), true
}
