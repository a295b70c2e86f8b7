package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/status"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func gradeText(g *float64) string {
	if g == nil {
		return "-"
	}
	return strconv.FormatFloat(*g, 'f', -1, 64)
}

func timeText(t models.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func printCourses(w io.Writer, courses []models.Course) error {
	if len(courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tTEACHER\tDESCRIPTION")
	for _, c := range courses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, orDash(c.TeacherName()), orDash(c.Description))
	}
	return tw.Flush()
}

func printUsers(w io.Writer, users []models.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No users.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return tw.Flush()
}

func printAssignments(w io.Writer, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		_, err := fmt.Fprintln(w, "No assignments.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDUE\tCOURSE")
	for _, a := range assignments {
		course := a.CourseName
		if course == "" && a.CourseID != 0 {
			course = "#" + strconv.FormatInt(a.CourseID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.Title, orDash(a.DueDate.String()), orDash(course))
	}
	return tw.Flush()
}

func printSubmissions(w io.Writer, subs []models.Submission) error {
	if len(subs) == 0 {
		_, err := fmt.Fprintln(w, "No submissions.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tASSIGNMENT\tSTUDENT\tSUBMITTED\tGRADE\tSTATUS")
	for _, s := range subs {
		student := s.StudentName
		if student == "" && s.StudentID != 0 {
			student = "#" + strconv.FormatInt(s.StudentID, 10)
		}
		sub := s
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", s.ID, s.AssignmentID, orDash(student), timeText(s.SubmittedAt), gradeText(s.Grade), status.Of(&sub))
	}
	return tw.Flush()
}

func printSubmission(w io.Writer, s *models.Submission) error {
	fmt.Fprintf(w, "Submission %d for assignment %d\n", s.ID, s.AssignmentID)
	fmt.Fprintf(w, "Status:    %s\n", status.Of(s))
	fmt.Fprintf(w, "Submitted: %s\n", timeText(s.SubmittedAt))
	if s.SubmissionText != "" {
		fmt.Fprintf(w, "Text:      %s\n", s.SubmissionText)
	}
	if s.FileURL != "" {
		fmt.Fprintf(w, "File:      %s\n", s.FileURL)
	}
	fmt.Fprintf(w, "Grade:     %s\n", gradeText(s.Grade))
	if s.Feedback != nil {
		fmt.Fprintf(w, "Feedback:  %s\n", *s.Feedback)
	}
	return nil
}

func printEntries(w io.Writer, title string, entries []status.Entry) error {
	fmt.Fprintf(w, "%s (%d)\n", title, len(entries))
	if len(entries) == 0 {
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tTITLE\tCOURSE\tDUE\tSUBMITTED\tGRADE")
	for _, e := range entries {
		submitted, grade := "-", "-"
		if e.Submission != nil {
			submitted = timeText(e.Submission.SubmittedAt)
			grade = gradeText(e.Submission.Grade)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n", e.Assignment.ID, e.Assignment.Title, orDash(e.Assignment.CourseName), orDash(e.Assignment.DueDate.String()), submitted, grade)
	}
	return tw.Flush()
}
