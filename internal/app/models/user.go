package models

// User is the identity attached to an authenticated session
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// HasRole reports whether the user holds one of the given roles
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	return ContainsRole(roles, u.Role)
}

// DashboardStats is the admin overview returned by /admin/dashboard
type DashboardStats struct {
	TotalStudents    int `json:"totalStudents"`
	TotalTeachers    int `json:"totalTeachers"`
	TotalCourses     int `json:"totalCourses"`
	TotalAssignments int `json:"totalAssignments,omitempty"`
}
