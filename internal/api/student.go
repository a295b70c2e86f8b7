package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

var studentRoles = []models.Role{models.RoleStudent}

// StudentAPI is the set of calls a STUDENT session may make
type StudentAPI struct {
	g *Gateway
}

// Courses lists the courses the student is enrolled in
func (s *StudentAPI) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := s.g.call(ctx, studentRoles, Request{Path: "/students/me/courses"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Course returns one enrolled course
func (s *StudentAPI) Course(ctx context.Context, courseID int64) (*models.Course, error) {
	var out models.Course
	path := fmt.Sprintf("/students/me/courses/%d", courseID)
	if err := s.g.call(ctx, studentRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CourseAssignments lists a course's assignments
func (s *StudentAPI) CourseAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	var out []models.Assignment
	path := fmt.Sprintf("/students/me/courses/%d/assignments", courseID)
	if err := s.g.call(ctx, studentRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].CourseID == 0 {
			out[i].CourseID = courseID
		}
	}
	return out, nil
}

// Assignment returns one assignment
func (s *StudentAPI) Assignment(ctx context.Context, assignmentID int64) (*models.Assignment, error) {
	var out models.Assignment
	path := fmt.Sprintf("/students/assignments/%d", assignmentID)
	if err := s.g.call(ctx, studentRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submissions lists every submission the student has made
func (s *StudentAPI) Submissions(ctx context.Context) ([]models.Submission, error) {
	var out []models.Submission
	if err := s.g.call(ctx, studentRoles, Request{Path: "/students/me/submissions"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Submission returns the student's submission for one assignment
func (s *StudentAPI) Submission(ctx context.Context, assignmentID int64) (*models.Submission, error) {
	var out models.Submission
	path := fmt.Sprintf("/students/assignments/%d/submission", assignmentID)
	if err := s.g.call(ctx, studentRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit uploads an answer as multipart form data: optional text and optional file
func (s *StudentAPI) Submit(ctx context.Context, assignmentID int64, req dto.SubmitRequest) (*models.Submission, error) {
	if req.Text == "" && req.File == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "a submission needs text or a file")
	}

	call := Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/students/assignments/%d/submit", assignmentID),
		Form:   map[string]string{},
	}
	if req.Text != "" {
		call.Form["submissionText"] = req.Text
	}
	if req.File != nil {
		name := req.FileName
		if name == "" {
			name = "submission"
		}
		call.Files = []FilePart{{Field: "file", FileName: name, Content: req.File}}
	}

	var out models.Submission
	if err := s.g.call(ctx, studentRoles, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
