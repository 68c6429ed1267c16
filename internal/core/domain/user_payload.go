package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserFromPayload maps the backend's flat user object onto a User. The
// backend reports role inconsistently cased, so it is normalized here, and
// only here.
func UserFromPayload(m map[string]any) (*User, error) {
	if m == nil {
		return nil, fmt.Errorf("map user payload: %w", ErrMalformedPayload)
	}
	role, ok := NormalizeRole(str(m, "role"))
	if !ok {
		return nil, fmt.Errorf("map user payload: %w: %q", ErrInvalidRole, str(m, "role"))
	}

	u := &User{
		ID:              firstNonEmpty(str(m, "id"), str(m, "_id")),
		Email:           str(m, "email"),
		Role:            role,
		FullName:        firstNonEmpty(str(m, "full_name"), str(m, "fullName"), str(m, "name")),
		Phone:           str(m, "phone"),
		Location:        str(m, "location"),
		Bio:             str(m, "bio"),
		AvatarURL:       firstNonEmpty(str(m, "avatar_url"), str(m, "avatar")),
		Skills:          strList(m["skills"]),
		ProfileComplete: boolean(m["profile_complete"]),
	}
	if ts := str(m, "created_at"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			u.CreatedAt = t.UTC()
		}
	}
	u.Profile = profileFromPayload(role, m)
	return u, nil
}

// MergePayload overlays non-empty fields of a secondary profile payload onto
// u. Identity fields (id, email, role) are never overwritten.
func (u *User) MergePayload(m map[string]any) {
	if m == nil {
		return
	}
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := str(m, k); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&u.FullName, "full_name", "fullName", "name")
	set(&u.Phone, "phone")
	set(&u.Location, "location")
	set(&u.Bio, "bio")
	set(&u.AvatarURL, "avatar_url", "avatar")
	if skills := strList(m["skills"]); len(skills) > 0 {
		u.Skills = skills
	}
	if v, ok := m["profile_complete"]; ok {
		u.ProfileComplete = boolean(v)
	}

	merged := profileFromPayload(u.Role, m)
	if u.Profile == nil || !ProfileMatchesRole(u.Profile, u.Role) {
		u.Profile = merged
		return
	}
	overlayProfile(u.Profile, merged)
}

func profileFromPayload(role Role, m map[string]any) Profile {
	switch role {
	case RoleJobseeker:
		return &JobseekerProfile{
			Experience:     str(m, "experience"),
			Education:      str(m, "education"),
			ResumeURL:      firstNonEmpty(str(m, "resume_url"), str(m, "resume")),
			ExpectedSalary: str(m, "expected_salary"),
		}
	case RoleRecruiter:
		return &RecruiterProfile{
			CompanyName:    str(m, "company_name"),
			Designation:    str(m, "designation"),
			CompanyWebsite: str(m, "company_website"),
			DashboardID:    firstNonEmpty(str(m, "dashboard_id"), str(m, "dashboardId")),
		}
	case RoleFreelancer:
		return &FreelancerProfile{
			HourlyRate:   str(m, "hourly_rate"),
			Portfolio:    str(m, "portfolio"),
			Availability: str(m, "availability"),
		}
	case RoleClient:
		return &ClientProfile{
			CompanyName: str(m, "company_name"),
			BudgetRange: str(m, "budget_range"),
			Industry:    str(m, "industry"),
		}
	case RoleCollege:
		return &CollegeProfile{
			CollegeName:   str(m, "college_name"),
			Accreditation: str(m, "accreditation"),
			Website:       str(m, "website"),
		}
	case RoleStudent:
		return &StudentProfile{
			CollegeName:    str(m, "college_name"),
			StudentID:      str(m, "student_id"),
			Course:         str(m, "course"),
			GraduationYear: str(m, "graduation_year"),
		}
	case RoleAdmin, RoleHRAdmin, RoleSuperAdmin:
		return &AdminProfile{Department: str(m, "department")}
	}
	return nil
}

// overlayProfile copies non-empty fields of src into dst when both are the
// same variant.
func overlayProfile(dst, src Profile) {
	keep := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	switch d := dst.(type) {
	case *JobseekerProfile:
		if s, ok := src.(*JobseekerProfile); ok {
			keep(&d.Experience, s.Experience)
			keep(&d.Education, s.Education)
			keep(&d.ResumeURL, s.ResumeURL)
			keep(&d.ExpectedSalary, s.ExpectedSalary)
		}
	case *RecruiterProfile:
		if s, ok := src.(*RecruiterProfile); ok {
			keep(&d.CompanyName, s.CompanyName)
			keep(&d.Designation, s.Designation)
			keep(&d.CompanyWebsite, s.CompanyWebsite)
			keep(&d.DashboardID, s.DashboardID)
		}
	case *FreelancerProfile:
		if s, ok := src.(*FreelancerProfile); ok {
			keep(&d.HourlyRate, s.HourlyRate)
			keep(&d.Portfolio, s.Portfolio)
			keep(&d.Availability, s.Availability)
		}
	case *ClientProfile:
		if s, ok := src.(*ClientProfile); ok {
			keep(&d.CompanyName, s.CompanyName)
			keep(&d.BudgetRange, s.BudgetRange)
			keep(&d.Industry, s.Industry)
		}
	case *CollegeProfile:
		if s, ok := src.(*CollegeProfile); ok {
			keep(&d.CollegeName, s.CollegeName)
			keep(&d.Accreditation, s.Accreditation)
			keep(&d.Website, s.Website)
		}
	case *StudentProfile:
		if s, ok := src.(*StudentProfile); ok {
			keep(&d.CollegeName, s.CollegeName)
			keep(&d.StudentID, s.StudentID)
			keep(&d.Course, s.Course)
			keep(&d.GraduationYear, s.GraduationYear)
		}
	case *AdminProfile:
		if s, ok := src.(*AdminProfile); ok {
			keep(&d.Department, s.Department)
		}
	}
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func strList(v any) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(vv) == "" {
			return nil
		}
		parts := strings.Split(vv, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

func boolean(v any) bool {
	switch vv := v.(type) {
	case bool:
		return vv
	case string:
		b, _ := strconv.ParseBool(vv)
		return b
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
