package seed

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/mockapi/store"
	"github.com/yigit/collegeportal/internal/pkg/auth"
)

// DefaultPassword is the password of every seeded account
const DefaultPassword = "password123"

// Seeded account emails
const (
	AdminEmail    = "admin@college.edu"
	TeacherEmail  = "teacher@college.edu"
	StudentEmail  = "student@college.edu"
	Student2Email = "student2@college.edu"
)

// CreateDefaultData fills an empty store with one admin, one teacher, two
// students, two courses and a mix of pending, submitted and graded work.
// Due dates are relative to now so the fixture never goes stale.
func CreateDefaultData(st *store.Store, now time.Time, lgr zerolog.Logger) error {
	lgr.Info().Msg("Creating default data (users, courses, assignments)...")

	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}

	var finalErr error
	user := func(name, email string, role appModels.Role) int64 {
		u, err := st.CreateUser(name, email, hash, role)
		if err != nil {
			lgr.Error().Err(err).Str("email", email).Msg("Error creating default user")
			finalErr = errors.Join(finalErr, err)
			return 0
		}
		return u.ID
	}

	user("Ada Admin", AdminEmail, appModels.RoleAdmin)
	teacherID := user("Tom Teacher", TeacherEmail, appModels.RoleTeacher)
	studentID := user("Sam Student", StudentEmail, appModels.RoleStudent)
	student2ID := user("Sara Student", Student2Email, appModels.RoleStudent)
	if finalErr != nil {
		return finalErr
	}

	algorithms, err := st.CreateCourse("Algorithms", "Design and analysis of algorithms", teacherID)
	if err != nil {
		return err
	}
	databases, err := st.CreateCourse("Databases", "Relational modelling and SQL", teacherID)
	if err != nil {
		return err
	}

	for _, e := range []struct{ student, course int64 }{
		{studentID, algorithms.ID},
		{studentID, databases.ID},
		{student2ID, algorithms.ID},
	} {
		if _, err := st.Enroll(e.student, e.course); err != nil {
			lgr.Error().Err(err).Int64("studentID", e.student).Int64("courseID", e.course).Msg("Error creating default enrollment")
			finalErr = errors.Join(finalErr, err)
		}
	}

	day := func(offset int) appModels.Date {
		y, m, d := now.AddDate(0, 0, offset).Date()
		return appModels.NewDate(y, m, d)
	}

	sorting, err := st.CreateAssignment(algorithms.ID, "Sorting", "Implement merge sort and quicksort", day(-7))
	if err != nil {
		return errors.Join(finalErr, err)
	}
	graphs, err := st.CreateAssignment(algorithms.ID, "Graphs", "Shortest paths with Dijkstra", day(7))
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if _, err := st.CreateAssignment(databases.ID, "Normalization", "Bring the schema to 3NF", day(14)); err != nil {
		return errors.Join(finalErr, err)
	}

	grade := 92.0
	feedback := "Clean implementation"
	st.Seed(sorting.ID, studentID, "merge sort + quicksort attached", now.AddDate(0, 0, -8), &grade, &feedback)
	st.Seed(graphs.ID, studentID, "first draft", now.Add(-2*time.Hour), nil, nil)
	st.Seed(sorting.ID, student2ID, "quicksort only", now.AddDate(0, 0, -9), nil, nil)

	if finalErr == nil {
		lgr.Info().Msg("Default data created")
	}
	return finalErr
}
