package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/status"
)

// StudentSource is satisfied by *api.StudentAPI
type StudentSource interface {
	Courses(ctx context.Context) ([]models.Course, error)
	CourseAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error)
	Submissions(ctx context.Context) ([]models.Submission, error)
}

// StudentDashboard is the student's overview
type StudentDashboard struct {
	Courses     []models.Course
	Assignments []models.Assignment
	Submissions []models.Submission
	Status      *status.Result
	LoadedAt    time.Time
}

// LoadStudent runs the dependency chain courses -> assignments per course ->
// submissions -> derive. Integrity issues are logged and kept on the result.
func LoadStudent(ctx context.Context, src StudentSource, logger zerolog.Logger) (*StudentDashboard, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}

	var assignments []models.Assignment
	for _, c := range courses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		list, err := src.CourseAssignments(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("load assignments for course %d: %w", c.ID, err)
		}
		for i := range list {
			list[i].CourseID = c.ID
			list[i].CourseName = c.Name
		}
		assignments = append(assignments, list...)
	}

	submissions, err := src.Submissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	result := status.Derive(assignments, submissions)
	for _, issue := range result.Issues {
		logger.Warn().
			Str("kind", string(issue.Kind)).
			Int64("assignmentID", issue.AssignmentID).
			Interface("submissionIDs", issue.SubmissionIDs).
			Msg("Submission data integrity issue")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &StudentDashboard{
		Courses:     courses,
		Assignments: assignments,
		Submissions: submissions,
		Status:      result,
		LoadedAt:    time.Now(),
	}, nil
}

// TeacherSource is satisfied by *api.TeacherAPI
type TeacherSource interface {
	Courses(ctx context.Context) ([]models.Course, error)
	CourseAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error)
	AssignmentSubmissions(ctx context.Context, assignmentID int64) ([]models.Submission, error)
}

// GradebookRow is one assignment with its submissions
type GradebookRow struct {
	Course      models.Course
	Assignment  models.Assignment
	Submissions []models.Submission
}

// Ungraded counts submissions still waiting for a grade
func (r GradebookRow) Ungraded() int {
	n := 0
	for _, s := range r.Submissions {
		if !s.Graded() {
			n++
		}
	}
	return n
}

// TeacherDashboard is the teacher's overview
type TeacherDashboard struct {
	Courses  []models.Course
	Rows     []GradebookRow
	LoadedAt time.Time
}

// AwaitingGrade is the number of submissions without a grade across all rows
func (d *TeacherDashboard) AwaitingGrade() int {
	n := 0
	for _, r := range d.Rows {
		n += r.Ungraded()
	}
	return n
}

// LoadTeacher runs courses -> assignments per course -> submissions per assignment
func LoadTeacher(ctx context.Context, src TeacherSource) (*TeacherDashboard, error) {
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}

	var rows []GradebookRow
	for _, c := range courses {
		assignments, err := src.CourseAssignments(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("load assignments for course %d: %w", c.ID, err)
		}
		for _, a := range assignments {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			a.CourseID, a.CourseName = c.ID, c.Name
			subs, err := src.AssignmentSubmissions(ctx, a.ID)
			if err != nil {
				return nil, fmt.Errorf("load submissions for assignment %d: %w", a.ID, err)
			}
			rows = append(rows, GradebookRow{Course: c, Assignment: a, Submissions: subs})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &TeacherDashboard{Courses: courses, Rows: rows, LoadedAt: time.Now()}, nil
}

// AdminSource is satisfied by *api.AdminAPI
type AdminSource interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	Courses(ctx context.Context) ([]models.Course, error)
}

// AdminDashboard is the admin's overview
type AdminDashboard struct {
	Stats    models.DashboardStats
	Courses  []models.Course
	LoadedAt time.Time
}

// LoadAdmin fetches the counters and the course list
func LoadAdmin(ctx context.Context, src AdminSource) (*AdminDashboard, error) {
	stats, err := src.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	courses, err := src.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &AdminDashboard{Stats: *stats, Courses: courses, LoadedAt: time.Now()}, nil
}
