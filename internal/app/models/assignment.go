package models

import (
	"encoding/json"
	"fmt"
)

// Assignment is a piece of coursework with a due date
type Assignment struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     Date   `json:"dueDate"`
	CourseID    int64  `json:"courseId"`
	// CourseName is filled in by the client when joining assignments to courses
	CourseName string `json:"courseName,omitempty"`
}

// UnmarshalJSON accepts both a flat courseId and a nested course object
func (a *Assignment) UnmarshalJSON(data []byte) error {
	type plain Assignment
	aux := struct {
		*plain
		Course *struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"course"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode assignment: %w", err)
	}
	if aux.Course != nil {
		if a.CourseID == 0 {
			a.CourseID = aux.Course.ID
		}
		if a.CourseName == "" {
			a.CourseName = aux.Course.Name
		}
	}
	return nil
}

// Submission is a student's answer to an assignment
type Submission struct {
	ID             int64     `json:"id"`
	AssignmentID   int64     `json:"assignmentId"`
	StudentID      int64     `json:"studentId,omitempty"`
	StudentName    string    `json:"studentName,omitempty"`
	SubmissionText string    `json:"submissionText,omitempty"`
	FileURL        string    `json:"fileUrl,omitempty"`
	SubmittedAt    Timestamp `json:"submittedAt"`
	Grade          *float64  `json:"grade"`
	Feedback       *string   `json:"feedback"`
}

// Graded reports whether a grade has been recorded
func (s Submission) Graded() bool {
	return s.Grade != nil
}

// UnmarshalJSON accepts the backend's nested assignment/student objects and
// the submissionDateTime alias for submittedAt
func (s *Submission) UnmarshalJSON(data []byte) error {
	type plain Submission
	aux := struct {
		*plain
		Assignment *struct {
			ID int64 `json:"id"`
		} `json:"assignment"`
		Student *struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"student"`
		SubmissionDateTime Timestamp `json:"submissionDateTime"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}
	if s.AssignmentID == 0 && aux.Assignment != nil {
		s.AssignmentID = aux.Assignment.ID
	}
	if aux.Student != nil {
		if s.StudentID == 0 {
			s.StudentID = aux.Student.ID
		}
		if s.StudentName == "" {
			s.StudentName = aux.Student.Name
		}
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = aux.SubmissionDateTime
	}
	return nil
}
