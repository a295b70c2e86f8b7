// Package store is the in-memory data layer of the development backend.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// UserRecord is a user plus the credential the backend checks
type UserRecord struct {
	models.User
	PasswordHash string
}

type course struct {
	ID          int64
	Name        string
	Description string
	TeacherID   int64
}

type enrollment struct {
	ID         int64
	StudentID  int64
	CourseID   int64
	EnrolledAt time.Time
}

type assignment struct {
	ID          int64
	CourseID    int64
	Title       string
	Description string
	DueDate     models.Date
}

type submission struct {
	ID           int64
	AssignmentID int64
	StudentID    int64
	Text         string
	FileURL      string
	SubmittedAt  time.Time
	Grade        *float64
	Feedback     *string
}

// Store keeps every entity in maps guarded by one RWMutex. IDs come from a
// single counter so they are unique across entity kinds.
type Store struct {
	mu          sync.RWMutex
	nextID      int64
	users       map[int64]*UserRecord
	courses     map[int64]*course
	enrollments map[int64]*enrollment
	assignments map[int64]*assignment
	submissions map[int64]*submission
	now         func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:       make(map[int64]*UserRecord),
		courses:     make(map[int64]*course),
		enrollments: make(map[int64]*enrollment),
		assignments: make(map[int64]*assignment),
		submissions: make(map[int64]*submission),
		now:         time.Now,
	}
}

// SetClock replaces the time source, used by tests
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func notFound(kind string, id int64) error {
	return apperrors.NewCustomError(apperrors.ErrResourceNotFound, fmt.Sprintf("%s %d not found", kind, id))
}

// --- users ---

// CreateUser registers an account. Emails are unique regardless of case.
func (s *Store) CreateUser(name, email, passwordHash string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.TrimSpace(email)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, apperrors.NewCustomError(apperrors.ErrDuplicateRegistration, "Email is already in use")
		}
	}
	rec := &UserRecord{
		User:         models.User{ID: s.id(), Name: name, Email: email, Role: role},
		PasswordHash: passwordHash,
	}
	s.users[rec.ID] = rec
	u := rec.User
	return &u, nil
}

// UserByEmail looks up an account for login
func (s *Store) UserByEmail(email string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			rec := *u
			return &rec, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

// User returns one account
func (s *Store) User(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	out := u.User
	return &out, nil
}

// Users lists accounts ordered by ID. An empty role lists everyone.
func (s *Store) Users(role models.Role) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if role == "" || u.Role == role {
			out = append(out, u.User)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteUser removes an account with its enrollments and submissions.
// Courses it taught are left without a teacher. The file URLs of the removed
// submissions are returned so the caller can delete the uploads.
func (s *Store) DeleteUser(id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return nil, notFound("user", id)
	}
	delete(s.users, id)
	for eid, e := range s.enrollments {
		if e.StudentID == id {
			delete(s.enrollments, eid)
		}
	}
	files := s.deleteSubmissionsLocked(func(sub *submission) bool { return sub.StudentID == id })
	for _, c := range s.courses {
		if c.TeacherID == id {
			c.TeacherID = 0
		}
	}
	return files, nil
}

// Stats returns the admin dashboard counters
func (s *Store) Stats() models.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats models.DashboardStats
	for _, u := range s.users {
		switch u.Role {
		case models.RoleStudent:
			stats.TotalStudents++
		case models.RoleTeacher:
			stats.TotalTeachers++
		}
	}
	stats.TotalCourses = len(s.courses)
	stats.TotalAssignments = len(s.assignments)
	return stats
}

// --- courses ---

func (s *Store) checkTeacher(teacherID int64) error {
	if teacherID == 0 {
		return nil
	}
	u, ok := s.users[teacherID]
	if !ok || u.Role != models.RoleTeacher {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("user %d is not a teacher", teacherID))
	}
	return nil
}

func (s *Store) courseModel(c *course) models.Course {
	out := models.Course{ID: c.ID, Name: c.Name, Description: c.Description}
	if t, ok := s.users[c.TeacherID]; ok {
		teacher := t.User
		out.Teacher = &teacher
	}
	return out
}

func (s *Store) sortedCourses(keep func(*course) bool) []models.Course {
	out := make([]models.Course, 0)
	for _, c := range s.courses {
		if keep(c) {
			out = append(out, s.courseModel(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateCourse adds a course; teacherID 0 leaves it unassigned
func (s *Store) CreateCourse(name, description string, teacherID int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkTeacher(teacherID); err != nil {
		return nil, err
	}
	c := &course{ID: s.id(), Name: name, Description: description, TeacherID: teacherID}
	s.courses[c.ID] = c
	out := s.courseModel(c)
	return &out, nil
}

// UpdateCourse replaces a course's fields
func (s *Store) UpdateCourse(id int64, name, description string, teacherID int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	if err := s.checkTeacher(teacherID); err != nil {
		return nil, err
	}
	c.Name, c.Description, c.TeacherID = name, description, teacherID
	out := s.courseModel(c)
	return &out, nil
}

// DeleteCourse removes a course together with its assignments, their
// submissions and the course's enrollments. It returns the file URLs of the
// removed submissions.
func (s *Store) DeleteCourse(id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return nil, notFound("course", id)
	}
	delete(s.courses, id)
	for eid, e := range s.enrollments {
		if e.CourseID == id {
			delete(s.enrollments, eid)
		}
	}
	var files []string
	for aid, a := range s.assignments {
		if a.CourseID == id {
			files = append(files, s.deleteAssignmentLocked(aid)...)
		}
	}
	return files, nil
}

// Course returns one course
func (s *Store) Course(id int64) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, notFound("course", id)
	}
	out := s.courseModel(c)
	return &out, nil
}

// CourseTeacher returns the teacher ID of a course, 0 when unassigned
func (s *Store) CourseTeacher(courseID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[courseID]
	if !ok {
		return 0, notFound("course", courseID)
	}
	return c.TeacherID, nil
}

// Courses lists every course
func (s *Store) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedCourses(func(*course) bool { return true })
}

// CoursesByTeacher lists the courses a teacher teaches
func (s *Store) CoursesByTeacher(teacherID int64) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedCourses(func(c *course) bool { return c.TeacherID == teacherID })
}

// CoursesByStudent lists the courses a student is enrolled in
func (s *Store) CoursesByStudent(studentID int64) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedCourses(func(c *course) bool { return s.enrolledLocked(studentID, c.ID) })
}

// --- enrollments ---

// Enroll adds a student to a course
func (s *Store) Enroll(studentID, courseID int64) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[studentID]
	if !ok || u.Role != models.RoleStudent {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("user %d is not a student", studentID))
	}
	c, ok := s.courses[courseID]
	if !ok {
		return nil, notFound("course", courseID)
	}
	if s.enrolledLocked(studentID, courseID) {
		return nil, apperrors.NewCustomError(apperrors.ErrConflict, "Student is already enrolled in this course")
	}
	e := &enrollment{ID: s.id(), StudentID: studentID, CourseID: courseID, EnrolledAt: s.now()}
	s.enrollments[e.ID] = e
	student := u.User
	return &models.Enrollment{
		ID:         e.ID,
		Student:    &student,
		Course:     ptr(s.courseModel(c)),
		EnrolledAt: models.NewTimestamp(e.EnrolledAt),
		Status:     "ACTIVE",
	}, nil
}

// Unenroll removes a student from a course. Submissions already made stay.
func (s *Store) Unenroll(studentID, courseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[studentID]
	if !ok || u.Role != models.RoleStudent {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, fmt.Sprintf("user %d is not a student", studentID))
	}
	if _, ok := s.courses[courseID]; !ok {
		return notFound("course", courseID)
	}
	for eid, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			delete(s.enrollments, eid)
			return nil
		}
	}
	return apperrors.NewCustomError(apperrors.ErrResourceNotFound, "Student is not enrolled in this course")
}

// Enrolled reports whether the student is in the course
func (s *Store) Enrolled(studentID, courseID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrolledLocked(studentID, courseID)
}

func (s *Store) enrolledLocked(studentID, courseID int64) bool {
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

// CourseStudents lists the students enrolled in a course
func (s *Store) CourseStudents(courseID int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.courses[courseID]; !ok {
		return nil, notFound("course", courseID)
	}
	out := make([]models.User, 0)
	for _, e := range s.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if u, ok := s.users[e.StudentID]; ok {
			out = append(out, u.User)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- assignments ---

func (s *Store) assignmentModel(a *assignment) models.Assignment {
	out := models.Assignment{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		CourseID:    a.CourseID,
	}
	if c, ok := s.courses[a.CourseID]; ok {
		out.CourseName = c.Name
	}
	return out
}

// CreateAssignment adds an assignment to a course
func (s *Store) CreateAssignment(courseID int64, title, description string, due models.Date) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[courseID]; !ok {
		return nil, notFound("course", courseID)
	}
	a := &assignment{ID: s.id(), CourseID: courseID, Title: title, Description: description, DueDate: due}
	s.assignments[a.ID] = a
	out := s.assignmentModel(a)
	return &out, nil
}

// UpdateAssignment replaces an assignment's fields
func (s *Store) UpdateAssignment(id int64, title, description string, due models.Date) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, notFound("assignment", id)
	}
	a.Title, a.Description, a.DueDate = title, description, due
	out := s.assignmentModel(a)
	return &out, nil
}

// DeleteAssignment removes an assignment and its submissions, returning the
// file URLs of the removed submissions
func (s *Store) DeleteAssignment(id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return nil, notFound("assignment", id)
	}
	return s.deleteAssignmentLocked(id), nil
}

func (s *Store) deleteAssignmentLocked(id int64) []string {
	delete(s.assignments, id)
	return s.deleteSubmissionsLocked(func(sub *submission) bool { return sub.AssignmentID == id })
}

// deleteSubmissionsLocked drops matching submissions and collects their uploads
func (s *Store) deleteSubmissionsLocked(match func(*submission) bool) []string {
	var files []string
	for sid, sub := range s.submissions {
		if !match(sub) {
			continue
		}
		if sub.FileURL != "" {
			files = append(files, sub.FileURL)
		}
		delete(s.submissions, sid)
	}
	sort.Strings(files)
	return files
}

// Assignment returns one assignment
func (s *Store) Assignment(id int64) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, notFound("assignment", id)
	}
	out := s.assignmentModel(a)
	return &out, nil
}

// CourseAssignments lists a course's assignments by due date, then ID
func (s *Store) CourseAssignments(courseID int64) ([]models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.courses[courseID]; !ok {
		return nil, notFound("course", courseID)
	}
	out := make([]models.Assignment, 0)
	for _, a := range s.assignments {
		if a.CourseID == courseID {
			out = append(out, s.assignmentModel(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate.Time) {
			return out[i].DueDate.Before(out[j].DueDate.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// --- submissions ---

func (s *Store) submissionModel(sub *submission) models.Submission {
	out := models.Submission{
		ID:             sub.ID,
		AssignmentID:   sub.AssignmentID,
		StudentID:      sub.StudentID,
		SubmissionText: sub.Text,
		FileURL:        sub.FileURL,
		SubmittedAt:    models.NewTimestamp(sub.SubmittedAt),
		Grade:          sub.Grade,
		Feedback:       sub.Feedback,
	}
	if u, ok := s.users[sub.StudentID]; ok {
		out.StudentName = u.Name
	}
	return out
}

// Submit records a student's answer. The student must be enrolled, the
// assignment must not be past its due date, and only one submission per
// student and assignment is accepted.
func (s *Store) Submit(assignmentID, studentID int64, text, fileURL string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[assignmentID]
	if !ok {
		return nil, notFound("assignment", assignmentID)
	}
	if !s.enrolledLocked(studentID, a.CourseID) {
		return nil, apperrors.NewCustomError(apperrors.ErrAuthorizationFailed, "You are not enrolled in this course")
	}
	now := s.now()
	if !a.DueDate.IsZero() && a.DueDate.Before(truncateDay(now)) {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, "Assignment is past due date")
	}
	for _, sub := range s.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return nil, apperrors.NewCustomError(apperrors.ErrConflict, "You have already submitted this assignment")
		}
	}
	sub := &submission{ID: s.id(), AssignmentID: assignmentID, StudentID: studentID, Text: text, FileURL: fileURL, SubmittedAt: now}
	s.submissions[sub.ID] = sub
	out := s.submissionModel(sub)
	return &out, nil
}

// Seed inserts a submission as-is, bypassing the due date and uniqueness
// rules. Used to stage fixtures.
func (s *Store) Seed(assignmentID, studentID int64, text string, at time.Time, grade *float64, feedback *string) models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &submission{ID: s.id(), AssignmentID: assignmentID, StudentID: studentID, Text: text, SubmittedAt: at, Grade: grade, Feedback: feedback}
	s.submissions[sub.ID] = sub
	return s.submissionModel(sub)
}

// StudentSubmission returns the student's submission for one assignment
func (s *Store) StudentSubmission(assignmentID, studentID int64) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			out := s.submissionModel(sub)
			return &out, nil
		}
	}
	return nil, apperrors.NewCustomError(apperrors.ErrResourceNotFound, "Submission not found")
}

// StudentSubmissions lists a student's submissions by ID
func (s *Store) StudentSubmissions(studentID int64) []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedSubmissions(func(sub *submission) bool { return sub.StudentID == studentID })
}

// AssignmentSubmissions lists every submission for an assignment
func (s *Store) AssignmentSubmissions(assignmentID int64) ([]models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.assignments[assignmentID]; !ok {
		return nil, notFound("assignment", assignmentID)
	}
	return s.sortedSubmissions(func(sub *submission) bool { return sub.AssignmentID == assignmentID }), nil
}

func (s *Store) sortedSubmissions(keep func(*submission) bool) []models.Submission {
	out := make([]models.Submission, 0)
	for _, sub := range s.submissions {
		if keep(sub) {
			out = append(out, s.submissionModel(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SubmissionCourse returns the course a submission belongs to
func (s *Store) SubmissionCourse(submissionID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[submissionID]
	if !ok {
		return 0, notFound("submission", submissionID)
	}
	a, ok := s.assignments[sub.AssignmentID]
	if !ok {
		return 0, notFound("assignment", sub.AssignmentID)
	}
	return a.CourseID, nil
}

// Grade records a grade and feedback on a submission
func (s *Store) Grade(submissionID int64, grade float64, feedback string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[submissionID]
	if !ok {
		return nil, notFound("submission", submissionID)
	}
	sub.Grade = &grade
	if feedback != "" {
		sub.Feedback = &feedback
	} else {
		sub.Feedback = nil
	}
	out := s.submissionModel(sub)
	return &out, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
