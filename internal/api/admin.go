package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
)

var adminRoles = []models.Role{models.RoleAdmin}

// AdminAPI is the set of calls an ADMIN session may make
type AdminAPI struct {
	g *Gateway
}

// Stats returns the dashboard counters
func (a *AdminAPI) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := a.g.call(ctx, adminRoles, Request{Path: "/admin/dashboard"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Teachers lists all teachers
func (a *AdminAPI) Teachers(ctx context.Context) ([]models.User, error) {
	return a.users(ctx, "/admin/teachers")
}

// Students lists all students
func (a *AdminAPI) Students(ctx context.Context) ([]models.User, error) {
	return a.users(ctx, "/admin/students")
}

// Users lists every account
func (a *AdminAPI) Users(ctx context.Context) ([]models.User, error) {
	return a.users(ctx, "/admin/users")
}

func (a *AdminAPI) users(ctx context.Context, path string) ([]models.User, error) {
	var out []models.User
	if err := a.g.call(ctx, adminRoles, Request{Path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes an account
func (a *AdminAPI) DeleteUser(ctx context.Context, userID int64) error {
	call := Request{Method: http.MethodDelete, Path: fmt.Sprintf("/admin/users/%d", userID)}
	return a.g.call(ctx, adminRoles, call, nil)
}

// Courses lists every course
func (a *AdminAPI) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := a.g.call(ctx, adminRoles, Request{Path: "/admin/courses"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCourse adds a course
func (a *AdminAPI) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	var out models.Course
	call := Request{Method: http.MethodPost, Path: "/admin/courses", Body: req}
	if err := a.g.call(ctx, adminRoles, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse replaces a course's fields
func (a *AdminAPI) UpdateCourse(ctx context.Context, courseID int64, req dto.CourseRequest) (*models.Course, error) {
	var out models.Course
	call := Request{Method: http.MethodPut, Path: fmt.Sprintf("/admin/courses/%d", courseID), Body: req}
	if err := a.g.call(ctx, adminRoles, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCourse removes a course
func (a *AdminAPI) DeleteCourse(ctx context.Context, courseID int64) error {
	call := Request{Method: http.MethodDelete, Path: fmt.Sprintf("/admin/courses/%d", courseID)}
	return a.g.call(ctx, adminRoles, call, nil)
}

func enrollmentPath(studentID, courseID int64) string {
	return fmt.Sprintf("/students/%d/enroll/%d", studentID, courseID)
}

// Enroll adds a student to a course
func (a *AdminAPI) Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	var out models.Enrollment
	call := Request{Method: http.MethodPost, Path: enrollmentPath(studentID, courseID)}
	if err := a.g.call(ctx, adminRoles, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unenroll removes a student from a course
func (a *AdminAPI) Unenroll(ctx context.Context, studentID, courseID int64) error {
	call := Request{Method: http.MethodDelete, Path: enrollmentPath(studentID, courseID)}
	return a.g.call(ctx, adminRoles, call, nil)
}
