// Package routing holds the static page table and the role to dashboard
// mapping. Nothing here is computed beyond table lookup.
package routing

import (
	"strings"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// Route maps a URL pattern to the page that renders it.
type Route struct {
	Path  string        `json:"path"`
	Page  string        `json:"page"`
	Roles []domain.Role `json:"roles,omitempty"`
	// Public routes need no session.
	Public bool `json:"public"`
	// AuthPage marks login/signup style pages that an authenticated user is
	// bounced away from.
	AuthPage bool `json:"auth_page,omitempty"`
}

// NotFound is the catch-all returned for unknown paths.
var NotFound = Route{Path: "*", Page: "NotFound", Public: true}

const (
	LoginPath    = "/login"
	CallbackPath = "/auth/callback"
	HomePath     = "/"
)

var dashboards = map[domain.Role]string{
	domain.RoleJobseeker:  "/jobseeker/dashboard",
	domain.RoleRecruiter:  "/recruiter/hrms",
	domain.RoleFreelancer: "/freelancer/dashboard",
	domain.RoleClient:     "/client/dashboard",
	domain.RoleCollege:    "/college/dashboard",
	domain.RoleStudent:    "/student/dashboard",
	domain.RoleAdmin:      "/admin/dashboard",
	domain.RoleHRAdmin:    "/hr-admin/dashboard",
	domain.RoleSuperAdmin: "/super-admin/dashboard",
}

// DashboardRoute returns the landing path for role, or "/" when role is not
// part of the enumeration.
func DashboardRoute(role string) string {
	if p, ok := dashboards[domain.Role(role)]; ok {
		return p
	}
	return HomePath
}

func roles(rs ...domain.Role) []domain.Role { return rs }

var table = []Route{
	{Path: "/", Page: "Landing", Public: true},
	{Path: "/login", Page: "Login", Public: true, AuthPage: true},
	{Path: "/signup", Page: "Signup", Public: true, AuthPage: true},
	{Path: "/auth/callback", Page: "AuthCallback", Public: true},
	{Path: "/verify-email", Page: "VerifyEmail", Public: true},
	{Path: "/forgot-password", Page: "ForgotPassword", Public: true},
	{Path: "/reset-password", Page: "ResetPassword", Public: true},
	{Path: "/about", Page: "About", Public: true},
	{Path: "/contact", Page: "Contact", Public: true},
	{Path: "/pricing", Page: "Pricing", Public: true},
	{Path: "/jobs", Page: "JobListings", Public: true},
	{Path: "/jobs/:id", Page: "JobDetails", Public: true},

	{Path: "/profile", Page: "Profile"},
	{Path: "/settings", Page: "Settings"},
	{Path: "/payment/status", Page: "PaymentStatus"},

	{Path: "/jobseeker/dashboard", Page: "JobseekerDashboard", Roles: roles(domain.RoleJobseeker)},
	{Path: "/jobseeker/applications", Page: "JobseekerApplications", Roles: roles(domain.RoleJobseeker)},
	{Path: "/jobseeker/profile", Page: "JobseekerProfile", Roles: roles(domain.RoleJobseeker)},

	{Path: "/recruiter/hrms", Page: "RecruiterHRMS", Roles: roles(domain.RoleRecruiter)},
	{Path: "/recruiter/jobs", Page: "RecruiterJobs", Roles: roles(domain.RoleRecruiter)},
	{Path: "/recruiter/jobs/:id/applicants", Page: "RecruiterApplicants", Roles: roles(domain.RoleRecruiter)},
	{Path: "/recruiter/employees", Page: "RecruiterEmployees", Roles: roles(domain.RoleRecruiter, domain.RoleHRAdmin)},

	{Path: "/freelancer/dashboard", Page: "FreelancerDashboard", Roles: roles(domain.RoleFreelancer)},
	{Path: "/freelancer/projects", Page: "FreelancerProjects", Roles: roles(domain.RoleFreelancer)},

	{Path: "/client/dashboard", Page: "ClientDashboard", Roles: roles(domain.RoleClient)},
	{Path: "/client/projects/new", Page: "ClientPostProject", Roles: roles(domain.RoleClient)},

	{Path: "/college/dashboard", Page: "CollegeDashboard", Roles: roles(domain.RoleCollege)},
	{Path: "/college/students", Page: "CollegeStudents", Roles: roles(domain.RoleCollege)},

	{Path: "/student/dashboard", Page: "StudentDashboard", Roles: roles(domain.RoleStudent)},
	{Path: "/student/courses", Page: "StudentCourses", Roles: roles(domain.RoleStudent)},

	{Path: "/admin/dashboard", Page: "AdminDashboard", Roles: roles(domain.RoleAdmin, domain.RoleSuperAdmin)},
	{Path: "/admin/users", Page: "AdminUsers", Roles: roles(domain.RoleAdmin, domain.RoleSuperAdmin)},

	{Path: "/hr-admin/dashboard", Page: "HRAdminDashboard", Roles: roles(domain.RoleHRAdmin)},
	{Path: "/hr-admin/payroll", Page: "HRAdminPayroll", Roles: roles(domain.RoleHRAdmin)},

	{Path: "/super-admin/dashboard", Page: "SuperAdminDashboard", Roles: roles(domain.RoleSuperAdmin)},
}

// Resolve finds the route for path. Path parameters are returned by name.
// Unknown paths resolve to NotFound.
func Resolve(path string) (Route, map[string]string) {
	segs := split(path)
	for _, r := range table {
		if params, ok := match(split(r.Path), segs); ok {
			return r, params
		}
	}
	return NotFound, nil
}

// Allows reports whether role may open r.
func (r Route) Allows(role domain.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
