package dto

import "github.com/yigit/collegeportal/internal/app/models"

// CourseRequest creates or updates a course
type CourseRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description" binding:"max=1000"`
	TeacherID   *int64 `json:"teacherId,omitempty" binding:"omitempty,min=1"`
}

// AssignmentRequest creates or updates an assignment
type AssignmentRequest struct {
	Title       string      `json:"title" binding:"required,min=1,max=200"`
	Description string      `json:"description" binding:"max=1000"`
	DueDate     models.Date `json:"dueDate"`
}

// GradeRequest carries the query parameters of POST /teacher/submissions/{id}/grade
type GradeRequest struct {
	Grade    *float64 `form:"grade" binding:"required,gte=0,lte=100"`
	Feedback string   `form:"feedback" binding:"max=2000"`
}

// SubmitRequest is the multipart body of POST /students/assignments/{id}/submit
type SubmitRequest struct {
	Text     string
	FileName string
	// File holds the upload bytes; nil means text-only
	File []byte
}
