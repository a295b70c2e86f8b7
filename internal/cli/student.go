package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/dashboard"
	"github.com/yigit/collegeportal/internal/export"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

func (r *runner) studentCommand() *cli.Command {
	return &cli.Command{
		Name:  "student",
		Usage: "student dashboard and coursework",
		Subcommands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "pending, submitted and graded assignments",
				Action: r.studentDashboard,
			},
			{
				Name:  "courses",
				Usage: "list enrolled courses",
				Action: func(c *cli.Context) error {
					if _, err := r.enter("/student/dashboard"); err != nil {
						return err
					}
					courses, err := r.app.Gateway.Student().Courses(c.Context)
					if err != nil {
						return err
					}
					return printCourses(r.out, courses)
				},
			},
			{
				Name:      "course",
				Usage:     "show one course and its assignments",
				ArgsUsage: "<courseId>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "courseId")
					if err != nil {
						return err
					}
					if _, err := r.enter(fmt.Sprintf("/student/courses/%d", id)); err != nil {
						return err
					}
					api := r.app.Gateway.Student()
					course, err := api.Course(c.Context, id)
					if err != nil {
						return err
					}
					assignments, err := api.CourseAssignments(c.Context, id)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "%s (teacher: %s)\n", course.Name, orDash(course.TeacherName()))
					if course.Description != "" {
						fmt.Fprintln(r.out, course.Description)
					}
					fmt.Fprintln(r.out)
					return printAssignments(r.out, assignments)
				},
			},
			{
				Name:      "assignment",
				Usage:     "show one assignment and your submission",
				ArgsUsage: "<assignmentId>",
				Action:    r.studentAssignment,
			},
			{
				Name:  "submissions",
				Usage: "list your submissions",
				Action: func(c *cli.Context) error {
					if _, err := r.enter("/student/dashboard"); err != nil {
						return err
					}
					subs, err := r.app.Gateway.Student().Submissions(c.Context)
					if err != nil {
						return err
					}
					return printSubmissions(r.out, subs)
				},
			},
			{
				Name:      "submit",
				Usage:     "submit an assignment with text, a file, or both",
				ArgsUsage: "<assignmentId>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Aliases: []string{"t"}},
					&cli.PathFlag{Name: "file", Aliases: []string{"f"}},
				},
				Action: r.studentSubmit,
			},
			{
				Name:  "export",
				Usage: "write the dashboard to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Value: "dashboard.xlsx"},
				},
				Action: func(c *cli.Context) error {
					d, err := r.loadStudentDashboard(c.Context)
					if err != nil {
						return err
					}
					return writeFile(r.out, c.Path("out"), func(f *os.File) error {
						return export.StudentWorkbook(f, d)
					})
				},
			},
		},
	}
}

func (r *runner) loadStudentDashboard(ctx context.Context) (*dashboard.StudentDashboard, error) {
	if _, err := r.enter("/student/dashboard"); err != nil {
		return nil, err
	}
	api := r.app.Gateway.Student()
	view := dashboard.NewView(func(ctx context.Context) (*dashboard.StudentDashboard, error) {
		return dashboard.LoadStudent(ctx, api, r.app.Logger)
	})
	defer view.Close()
	return view.Refresh(ctx)
}

func (r *runner) studentDashboard(c *cli.Context) error {
	d, err := r.loadStudentDashboard(c.Context)
	if err != nil {
		return err
	}
	s := d.Status
	fmt.Fprintf(r.out, "Courses: %d  Assignments: %d  Pending: %d  Submitted: %d  Graded: %d\n\n",
		len(d.Courses), s.Total(), len(s.Pending), len(s.Submitted), len(s.Graded))
	if err := printEntries(r.out, "Pending", s.Pending); err != nil {
		return err
	}
	fmt.Fprintln(r.out)
	if err := printEntries(r.out, "Submitted", s.Submitted); err != nil {
		return err
	}
	fmt.Fprintln(r.out)
	if err := printEntries(r.out, "Graded", s.Graded); err != nil {
		return err
	}
	if len(s.Issues) > 0 {
		fmt.Fprintf(r.out, "\nWarning: %s\n", apperrors.Describe(s.Err()).Text)
		for _, issue := range s.Issues {
			fmt.Fprintf(r.out, "  %s\n", issue)
		}
	}
	return nil
}

func (r *runner) studentAssignment(c *cli.Context) error {
	id, err := idArg(c, 0, "assignmentId")
	if err != nil {
		return err
	}
	if _, err := r.enter(fmt.Sprintf("/student/assignments/%d", id)); err != nil {
		return err
	}
	api := r.app.Gateway.Student()
	a, err := api.Assignment(c.Context, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s\nDue: %s\n", a.Title, orDash(a.DueDate.String()))
	if a.Description != "" {
		fmt.Fprintln(r.out, a.Description)
	}
	fmt.Fprintln(r.out)

	sub, err := api.Submission(c.Context, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			fmt.Fprintln(r.out, "Status: PENDING (not submitted yet)")
			return nil
		}
		return err
	}
	return printSubmission(r.out, sub)
}

func (r *runner) studentSubmit(c *cli.Context) error {
	id, err := idArg(c, 0, "assignmentId")
	if err != nil {
		return err
	}
	if _, err := r.enter(fmt.Sprintf("/student/assignments/%d", id)); err != nil {
		return err
	}

	req := dto.SubmitRequest{Text: c.String("text")}
	if path := c.Path("file"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, fmt.Sprintf("cannot read %s: %v", path, err))
		}
		req.File = content
		req.FileName = filepath.Base(path)
	}

	sub, err := r.app.Gateway.Student().Submit(c.Context, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Assignment submitted.")
	return printSubmission(r.out, sub)
}

// writeFile creates path, runs write and reports where the file went
func writeFile(out io.Writer, path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	_, err = fmt.Fprintf(out, "Wrote %s\n", path)
	return err
}
