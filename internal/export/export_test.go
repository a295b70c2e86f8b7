package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/dashboard"
	"github.com/yigit/collegeportal/internal/status"
)

func ptr[T any](v T) *T { return &v }

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestStudentWorkbook(t *testing.T) {
	due := models.NewDate(2026, time.March, 1)
	at := models.NewTimestamp(time.Date(2026, time.February, 27, 14, 30, 0, 0, time.UTC))
	assignments := []models.Assignment{
		{ID: 1, Title: "Sorting", CourseName: "Algorithms", DueDate: due},
		{ID: 2, Title: "Graphs", CourseName: "Algorithms", DueDate: due},
		{ID: 3, Title: "Normalization", CourseName: "Databases", DueDate: due},
	}
	submissions := []models.Submission{
		{ID: 10, AssignmentID: 1, SubmittedAt: at, Grade: ptr(92.0), Feedback: ptr("Clean implementation")},
		{ID: 11, AssignmentID: 2, SubmittedAt: at},
	}
	d := &dashboard.StudentDashboard{Status: status.Derive(assignments, submissions)}

	var buf bytes.Buffer
	require.NoError(t, StudentWorkbook(&buf, d))

	f := open(t, &buf)
	assert.Equal(t, []string{SheetPending, SheetSubmitted, SheetGraded}, f.GetSheetList())

	pending, err := f.GetRows(SheetPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, []string{"Course", "Assignment", "Due date", "Submitted at", "Grade", "Feedback"}, pending[0])
	assert.Equal(t, []string{"Databases", "Normalization", "2026-03-01"}, pending[1][:3])

	submitted, err := f.GetRows(SheetSubmitted)
	require.NoError(t, err)
	require.Len(t, submitted, 2)
	assert.Equal(t, "2026-02-27 14:30", submitted[1][3])

	graded, err := f.GetRows(SheetGraded)
	require.NoError(t, err)
	require.Len(t, graded, 2)
	assert.Equal(t, "Sorting", graded[1][1])
	assert.Equal(t, "92", graded[1][4])
	assert.Equal(t, "Clean implementation", graded[1][5])
}

func TestStudentWorkbook_EmptyDashboardStillHasHeaders(t *testing.T) {
	d := &dashboard.StudentDashboard{Status: status.Derive(nil, nil)}

	var buf bytes.Buffer
	require.NoError(t, StudentWorkbook(&buf, d))

	f := open(t, &buf)
	for _, sheet := range []string{SheetPending, SheetSubmitted, SheetGraded} {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		assert.Len(t, rows, 1, sheet)
	}
}

func TestGradebook(t *testing.T) {
	course := models.Course{ID: 1, Name: "Algorithms"}
	due := models.NewDate(2026, time.March, 1)
	d := &dashboard.TeacherDashboard{
		Courses: []models.Course{course},
		Rows: []dashboard.GradebookRow{
			{
				Course:     course,
				Assignment: models.Assignment{ID: 5, Title: "Sorting", DueDate: due},
				Submissions: []models.Submission{
					{ID: 50, StudentName: "Sam Student", Grade: ptr(88.5)},
					{ID: 51, StudentID: 9},
				},
			},
			{Course: course, Assignment: models.Assignment{ID: 6, Title: "Graphs", DueDate: due}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Gradebook(&buf, d))

	f := open(t, &buf)
	assert.Equal(t, []string{SheetGradebook}, f.GetSheetList())

	rows, err := f.GetRows(SheetGradebook)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Submission ID", rows[0][3])
	assert.Equal(t, []string{"Algorithms", "Sorting", "2026-03-01", "50", "Sam Student"}, rows[1][:5])
	assert.Equal(t, "88.5", rows[1][6])
	assert.Equal(t, "#9", rows[2][4])
	assert.Equal(t, []string{"Algorithms", "Graphs", "2026-03-01"}, rows[3][:3])
}
