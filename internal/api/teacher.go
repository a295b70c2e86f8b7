package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
)

var teacherRoles = []models.Role{models.RoleTeacher}

// TeacherAPI is the set of calls a TEACHER session may make
type TeacherAPI struct {
	g *Gateway
}

// Courses lists the courses the teacher teaches
func (t *TeacherAPI) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := t.g.call(ctx, teacherRoles, Request{Path: "/teacher/courses"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseStudents lists the students enrolled in a course
func (t *TeacherAPI) CourseStudents(ctx context.Context, courseID int64) ([]models.User, error) {
	var out []models.User
	path := fmt.Sprintf("/teacher/courses/%d/students", courseID)
	if err := t.g.call(ctx, teacherRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseAssignments lists a course's assignments
func (t *TeacherAPI) CourseAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	var out []models.Assignment
	path := fmt.Sprintf("/teacher/courses/%d/assignments", courseID)
	if err := t.g.call(ctx, teacherRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].CourseID == 0 {
			out[i].CourseID = courseID
		}
	}
	return out, nil
}

// CreateAssignment adds an assignment to a course
func (t *TeacherAPI) CreateAssignment(ctx context.Context, courseID int64, req dto.AssignmentRequest) (*models.Assignment, error) {
	var out models.Assignment
	call := Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/teacher/courses/%d/assignments", courseID),
		Body:   req,
	}
	if err := t.g.call(ctx, teacherRoles, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAssignment replaces an assignment's title, description and due date
func (t *TeacherAPI) UpdateAssignment(ctx context.Context, assignmentID int64, req dto.AssignmentRequest) (*models.Assignment, error) {
	var out models.Assignment
	call := Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/teacher/assignments/%d", assignmentID),
		Body:   req,
	}
	if err := t.g.call(ctx, teacherRoles, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssignment removes an assignment
func (t *TeacherAPI) DeleteAssignment(ctx context.Context, assignmentID int64) error {
	call := Request{Method: http.MethodDelete, Path: fmt.Sprintf("/teacher/assignments/%d", assignmentID)}
	return t.g.call(ctx, teacherRoles, call, nil)
}

// AssignmentSubmissions lists every submission for an assignment
func (t *TeacherAPI) AssignmentSubmissions(ctx context.Context, assignmentID int64) ([]models.Submission, error) {
	var out []models.Submission
	path := fmt.Sprintf("/teacher/assignments/%d/submissions", assignmentID)
	if err := t.g.call(ctx, teacherRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].AssignmentID == 0 {
			out[i].AssignmentID = assignmentID
		}
	}
	return out, nil
}

// Grade records a grade and optional feedback; both travel as query parameters
func (t *TeacherAPI) Grade(ctx context.Context, submissionID int64, grade float64, feedback string) error {
	q := url.Values{}
	q.Set("grade", strconv.FormatFloat(grade, 'f', -1, 64))
	if feedback != "" {
		q.Set("feedback", feedback)
	}
	call := Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/teacher/submissions/%d/grade", submissionID),
		Query:  q,
	}
	return t.g.call(ctx, teacherRoles, call, nil)
}
