// Package export writes dashboards to xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/dashboard"
	"github.com/yigit/collegeportal/internal/status"
)

const (
	SheetPending   = "Pending"
	SheetSubmitted = "Submitted"
	SheetGraded    = "Graded"
	SheetGradebook = "Gradebook"
)

var studentHeader = []interface{}{"Course", "Assignment", "Due date", "Submitted at", "Grade", "Feedback"}

// StudentWorkbook writes one sheet per status partition
func StudentWorkbook(w io.Writer, d *dashboard.StudentDashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	parts := []struct {
		sheet   string
		entries []status.Entry
	}{
		{SheetPending, d.Status.Pending},
		{SheetSubmitted, d.Status.Submitted},
		{SheetGraded, d.Status.Graded},
	}
	for i, p := range parts {
		if err := addSheet(f, p.sheet, i == 0); err != nil {
			return err
		}
		if err := writeRow(f, p.sheet, 1, studentHeader); err != nil {
			return err
		}
		_ = f.SetCellStyle(p.sheet, "A1", "F1", header)
		_ = f.SetColWidth(p.sheet, "A", "B", 28)
		_ = f.SetColWidth(p.sheet, "C", "E", 14)
		_ = f.SetColWidth(p.sheet, "F", "F", 40)

		for j, e := range p.entries {
			if err := writeRow(f, p.sheet, j+2, studentRow(e)); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func studentRow(e status.Entry) []interface{} {
	row := []interface{}{e.Assignment.CourseName, e.Assignment.Title, e.Assignment.DueDate.String(), "", "", ""}
	if e.Submission == nil {
		return row
	}
	if !e.Submission.SubmittedAt.IsZero() {
		row[3] = e.Submission.SubmittedAt.Format("2006-01-02 15:04")
	}
	if e.Submission.Grade != nil {
		row[4] = *e.Submission.Grade
	}
	if e.Submission.Feedback != nil {
		row[5] = *e.Submission.Feedback
	}
	return row
}

var gradebookHeader = []interface{}{"Course", "Assignment", "Due date", "Submission ID", "Student", "Submitted at", "Grade", "Feedback"}

// Gradebook writes every submission of the teacher's courses on one sheet.
// Assignments without submissions get a single row with empty submission columns.
func Gradebook(w io.Writer, d *dashboard.TeacherDashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := addSheet(f, SheetGradebook, true); err != nil {
		return err
	}
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := writeRow(f, SheetGradebook, 1, gradebookHeader); err != nil {
		return err
	}
	_ = f.SetCellStyle(SheetGradebook, "A1", "H1", header)
	_ = f.SetColWidth(SheetGradebook, "A", "B", 28)
	_ = f.SetColWidth(SheetGradebook, "H", "H", 40)

	row := 2
	for _, r := range d.Rows {
		base := []interface{}{r.Course.Name, r.Assignment.Title, r.Assignment.DueDate.String()}
		if len(r.Submissions) == 0 {
			if err := writeRow(f, SheetGradebook, row, base); err != nil {
				return err
			}
			row++
			continue
		}
		for _, s := range r.Submissions {
			if err := writeRow(f, SheetGradebook, row, append(append([]interface{}{}, base...), submissionCells(s)...)); err != nil {
				return err
			}
			row++
		}
	}

	return f.Write(w)
}

func submissionCells(s models.Submission) []interface{} {
	cells := []interface{}{s.ID, studentLabel(s), "", "", ""}
	if !s.SubmittedAt.IsZero() {
		cells[2] = s.SubmittedAt.Format("2006-01-02 15:04")
	}
	if s.Grade != nil {
		cells[3] = *s.Grade
	}
	if s.Feedback != nil {
		cells[4] = *s.Feedback
	}
	return cells
}

func studentLabel(s models.Submission) string {
	if s.StudentName != "" {
		return s.StudentName
	}
	if s.StudentID != 0 {
		return "#" + strconv.FormatInt(s.StudentID, 10)
	}
	return ""
}

// addSheet creates sheet; the first sheet replaces excelize's default "Sheet1"
func addSheet(f *excelize.File, name string, first bool) error {
	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename default sheet: %w", err)
		}
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("create header style: %w", err)
	}
	return style, nil
}
