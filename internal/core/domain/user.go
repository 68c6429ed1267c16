package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// User is the session-resident view of an account. The backend owns the
// authoritative copy; the gateway caches it for the life of a session.
type User struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	Role            Role     `json:"role"`
	FullName        string   `json:"full_name,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Location        string   `json:"location,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	AvatarURL       string   `json:"avatar_url,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	ProfileComplete bool     `json:"profile_complete"`

	// Profile holds the fields that only make sense for Role.
	Profile Profile `json:"profile,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Profile is implemented by each role-specific variant.
type Profile interface {
	profileRole() []Role
}

type JobseekerProfile struct {
	Experience     string `json:"experience,omitempty"`
	Education      string `json:"education,omitempty"`
	ResumeURL      string `json:"resume_url,omitempty"`
	ExpectedSalary string `json:"expected_salary,omitempty"`
}

type RecruiterProfile struct {
	CompanyName    string `json:"company_name,omitempty"`
	Designation    string `json:"designation,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`
	// DashboardID is created lazily on first hydration (get-or-create).
	DashboardID string `json:"dashboard_id,omitempty"`
}

type FreelancerProfile struct {
	HourlyRate   string `json:"hourly_rate,omitempty"`
	Portfolio    string `json:"portfolio,omitempty"`
	Availability string `json:"availability,omitempty"`
}

type ClientProfile struct {
	CompanyName string `json:"company_name,omitempty"`
	BudgetRange string `json:"budget_range,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

type CollegeProfile struct {
	CollegeName   string `json:"college_name,omitempty"`
	Accreditation string `json:"accreditation,omitempty"`
	Website       string `json:"website,omitempty"`
}

type StudentProfile struct {
	CollegeName    string `json:"college_name,omitempty"`
	StudentID      string `json:"student_id,omitempty"`
	Course         string `json:"course,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
}

// AdminProfile covers admin, hr_admin and super_admin.
type AdminProfile struct {
	Department string `json:"department,omitempty"`
}

func (*JobseekerProfile) profileRole() []Role  { return []Role{RoleJobseeker} }
func (*RecruiterProfile) profileRole() []Role  { return []Role{RoleRecruiter} }
func (*FreelancerProfile) profileRole() []Role { return []Role{RoleFreelancer} }
func (*ClientProfile) profileRole() []Role     { return []Role{RoleClient} }
func (*CollegeProfile) profileRole() []Role    { return []Role{RoleCollege} }
func (*StudentProfile) profileRole() []Role    { return []Role{RoleStudent} }
func (*AdminProfile) profileRole() []Role {
	return []Role{RoleAdmin, RoleHRAdmin, RoleSuperAdmin}
}

// NewProfile returns an empty profile variant for role, or nil for an
// unknown role.
func NewProfile(role Role) Profile {
	switch role {
	case RoleJobseeker:
		return &JobseekerProfile{}
	case RoleRecruiter:
		return &RecruiterProfile{}
	case RoleFreelancer:
		return &FreelancerProfile{}
	case RoleClient:
		return &ClientProfile{}
	case RoleCollege:
		return &CollegeProfile{}
	case RoleStudent:
		return &StudentProfile{}
	case RoleAdmin, RoleHRAdmin, RoleSuperAdmin:
		return &AdminProfile{}
	}
	return nil
}

// ProfileMatchesRole reports whether p is the variant that belongs to role.
func ProfileMatchesRole(p Profile, role Role) bool {
	if p == nil {
		return true
	}
	for _, r := range p.profileRole() {
		if r == role {
			return true
		}
	}
	return false
}

// DashboardID returns the recruiter dashboard id, or "" for other roles.
func (u *User) DashboardID() string {
	if rp, ok := u.Profile.(*RecruiterProfile); ok {
		return rp.DashboardID
	}
	return ""
}

// SetDashboardID records id on a recruiter profile, creating the profile if
// needed. It is a no-op for every other role.
func (u *User) SetDashboardID(id string) {
	if u.Role != RoleRecruiter {
		return
	}
	rp, ok := u.Profile.(*RecruiterProfile)
	if !ok {
		rp = &RecruiterProfile{}
		u.Profile = rp
	}
	rp.DashboardID = id
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Skills != nil {
		c.Skills = append([]string(nil), u.Skills...)
	}
	c.Profile = CloneProfile(u.Profile)
	return &c
}

// CloneProfile returns a copy of p.
func CloneProfile(p Profile) Profile {
	switch v := p.(type) {
	case *JobseekerProfile:
		c := *v
		return &c
	case *RecruiterProfile:
		c := *v
		return &c
	case *FreelancerProfile:
		c := *v
		return &c
	case *ClientProfile:
		c := *v
		return &c
	case *CollegeProfile:
		c := *v
		return &c
	case *StudentProfile:
		c := *v
		return &c
	case *AdminProfile:
		c := *v
		return &c
	}
	return nil
}

// UnmarshalJSON decodes the profile variant selected by the role field.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		Profile json.RawMessage `json:"profile,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	u.Profile = nil

	if !u.Role.Valid() {
		return fmt.Errorf("decode user: %w: %q", ErrInvalidRole, u.Role)
	}
	if len(aux.Profile) == 0 || string(aux.Profile) == "null" {
		return nil
	}
	p := NewProfile(u.Role)
	if err := json.Unmarshal(aux.Profile, p); err != nil {
		return fmt.Errorf("decode %s profile: %w", u.Role, err)
	}
	u.Profile = p
	return nil
}
