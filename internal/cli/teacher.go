package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/dashboard"
	"github.com/yigit/collegeportal/internal/export"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

func assignmentFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Required: required},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "due", Usage: "due date, YYYY-MM-DD", Required: required},
	}
}

func assignmentRequest(c *cli.Context) (dto.AssignmentRequest, error) {
	req := dto.AssignmentRequest{
		Title:       c.String("title"),
		Description: c.String("description"),
	}
	if raw := c.String("due"); raw != "" {
		due, err := models.ParseDate(raw)
		if err != nil {
			return req, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
		}
		req.DueDate = due
	}
	return req, nil
}

func (r *runner) teacherCommand() *cli.Command {
	return &cli.Command{
		Name:  "teacher",
		Usage: "teacher courses, assignments and grading",
		Subcommands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "courses and submissions awaiting a grade",
				Action: r.teacherDashboard,
			},
			{
				Name:  "courses",
				Usage: "list the courses you teach",
				Action: func(c *cli.Context) error {
					if _, err := r.enter("/teacher/courses"); err != nil {
						return err
					}
					courses, err := r.app.Gateway.Teacher().Courses(c.Context)
					if err != nil {
						return err
					}
					return printCourses(r.out, courses)
				},
			},
			{
				Name:      "students",
				Usage:     "list the students of a course",
				ArgsUsage: "<courseId>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "courseId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/teacher/courses"); err != nil {
						return err
					}
					students, err := r.app.Gateway.Teacher().CourseStudents(c.Context, id)
					if err != nil {
						return err
					}
					return printUsers(r.out, students)
				},
			},
			{
				Name:      "assignments",
				Usage:     "list the assignments of a course",
				ArgsUsage: "<courseId>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "courseId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/teacher/assignments"); err != nil {
						return err
					}
					assignments, err := r.app.Gateway.Teacher().CourseAssignments(c.Context, id)
					if err != nil {
						return err
					}
					return printAssignments(r.out, assignments)
				},
			},
			{
				Name:      "create-assignment",
				Usage:     "add an assignment to a course",
				ArgsUsage: "<courseId>",
				Flags:     assignmentFlags(true),
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "courseId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/teacher/assignments"); err != nil {
						return err
					}
					req, err := assignmentRequest(c)
					if err != nil {
						return err
					}
					a, err := r.app.Gateway.Teacher().CreateAssignment(c.Context, id, req)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Created assignment %d.\n", a.ID)
					return nil
				},
			},
			{
				Name:      "update-assignment",
				Usage:     "replace an assignment's title, description and due date",
				ArgsUsage: "<assignmentId>",
				Flags:     assignmentFlags(true),
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "assignmentId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/teacher/assignments"); err != nil {
						return err
					}
					req, err := assignmentRequest(c)
					if err != nil {
						return err
					}
					if _, err := r.app.Gateway.Teacher().UpdateAssignment(c.Context, id, req); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Updated assignment %d.\n", id)
					return nil
				},
			},
			{
				Name:      "delete-assignment",
				Usage:     "remove an assignment and its submissions",
				ArgsUsage: "<assignmentId>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "assignmentId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/teacher/assignments"); err != nil {
						return err
					}
					if err := r.app.Gateway.Teacher().DeleteAssignment(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Deleted assignment %d.\n", id)
					return nil
				},
			},
			{
				Name:      "submissions",
				Usage:     "list the submissions of an assignment",
				ArgsUsage: "<assignmentId>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "assignmentId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/teacher/grades"); err != nil {
						return err
					}
					subs, err := r.app.Gateway.Teacher().AssignmentSubmissions(c.Context, id)
					if err != nil {
						return err
					}
					return printSubmissions(r.out, subs)
				},
			},
			{
				Name:      "grade",
				Usage:     "grade a submission",
				ArgsUsage: "<submissionId>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "grade", Aliases: []string{"g"}, Required: true},
					&cli.StringFlag{Name: "feedback"},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "submissionId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/teacher/grades"); err != nil {
						return err
					}
					grade := c.Float64("grade")
					if grade < 0 || grade > 100 {
						return apperrors.NewCustomError(apperrors.ErrValidationFailed, "grade must be between 0 and 100")
					}
					if err := r.app.Gateway.Teacher().Grade(c.Context, id, grade, c.String("feedback")); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Graded submission %d.\n", id)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "write the gradebook to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Value: "gradebook.xlsx"},
				},
				Action: func(c *cli.Context) error {
					d, err := r.loadTeacherDashboard(c.Context)
					if err != nil {
						return err
					}
					return writeFile(r.out, c.Path("out"), func(f *os.File) error {
						return export.Gradebook(f, d)
					})
				},
			},
		},
	}
}

func (r *runner) loadTeacherDashboard(ctx context.Context) (*dashboard.TeacherDashboard, error) {
	if _, err := r.enter("/teacher/dashboard"); err != nil {
		return nil, err
	}
	api := r.app.Gateway.Teacher()
	view := dashboard.NewView(func(ctx context.Context) (*dashboard.TeacherDashboard, error) {
		return dashboard.LoadTeacher(ctx, api)
	})
	defer view.Close()
	return view.Refresh(ctx)
}

func (r *runner) teacherDashboard(c *cli.Context) error {
	d, err := r.loadTeacherDashboard(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Courses: %d  Assignments: %d  Awaiting grade: %d\n\n", len(d.Courses), len(d.Rows), d.AwaitingGrade())
	if len(d.Rows) == 0 {
		fmt.Fprintln(r.out, "No assignments.")
		return nil
	}
	tw := newTable(r.out)
	fmt.Fprintln(tw, "COURSE\tASSIGNMENT\tDUE\tSUBMISSIONS\tUNGRADED")
	for _, row := range d.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", row.Course.Name, row.Assignment.Title, orDash(row.Assignment.DueDate.String()), len(row.Submissions), row.Ungraded())
	}
	return tw.Flush()
}
