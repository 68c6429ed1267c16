package service

import "github.com/minutehire/auth-gateway/internal/core/domain"

// demoDashboardID is the fixed dashboard every demo recruiter lands on.
const demoDashboardID = "demo-dashboard-123"

type demoAccount struct {
	Email    string
	FullName string
	Profile  domain.Profile
}

// demoAccounts is the fixed table of demo identities. Privileged roles
// (hr_admin, super_admin) have no demo account.
var demoAccounts = map[domain.Role]demoAccount{
	domain.RoleJobseeker: {
		Email:    "demo.jobseeker@minutehire.com",
		FullName: "Demo Jobseeker",
		Profile:  &domain.JobseekerProfile{Experience: "3 years", Education: "B.Tech"},
	},
	domain.RoleRecruiter: {
		Email:    "demo.recruiter@minutehire.com",
		FullName: "Demo Recruiter",
		Profile:  &domain.RecruiterProfile{CompanyName: "MinuteHire Demo Corp", Designation: "Talent Lead", DashboardID: demoDashboardID},
	},
	domain.RoleFreelancer: {
		Email:    "demo.freelancer@minutehire.com",
		FullName: "Demo Freelancer",
		Profile:  &domain.FreelancerProfile{HourlyRate: "1500", Availability: "part-time"},
	},
	domain.RoleClient: {
		Email:    "demo.client@minutehire.com",
		FullName: "Demo Client",
		Profile:  &domain.ClientProfile{CompanyName: "Demo Ventures", BudgetRange: "50k-1L"},
	},
	domain.RoleCollege: {
		Email:    "demo.college@minutehire.com",
		FullName: "Demo College",
		Profile:  &domain.CollegeProfile{CollegeName: "Demo Institute of Technology"},
	},
	domain.RoleStudent: {
		Email:    "demo.student@minutehire.com",
		FullName: "Demo Student",
		Profile:  &domain.StudentProfile{CollegeName: "Demo Institute of Technology", StudentID: "DEMO-001"},
	},
	domain.RoleAdmin: {
		Email:    "demo.admin@minutehire.com",
		FullName: "Demo Admin",
		Profile:  &domain.AdminProfile{Department: "Operations"},
	},
}

// demoRoles lists the roles that have a demo account.
func demoRoles() []domain.Role {
	out := make([]domain.Role, 0, len(demoAccounts))
	for _, r := range domain.Roles {
		if _, ok := demoAccounts[r]; ok {
			out = append(out, r)
		}
	}
	return out
}
