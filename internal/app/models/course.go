package models

// Course represents a course taught by a teacher.
type Course struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Teacher     *User  `json:"teacher,omitempty"`
}

// TeacherName returns the teacher's name or an empty string
func (c Course) TeacherName() string {
	if c.Teacher == nil {
		return ""
	}
	return c.Teacher.Name
}

// Enrollment links a student to a course
type Enrollment struct {
	ID         int64     `json:"id"`
	Student    *User     `json:"student,omitempty"`
	Course     *Course   `json:"course,omitempty"`
	EnrolledAt Timestamp `json:"enrolledAt"`
	Status     string    `json:"status,omitempty"`
}
