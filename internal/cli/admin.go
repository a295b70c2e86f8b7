package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/dashboard"
)

func courseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Required: true},
		&cli.StringFlag{Name: "description"},
		&cli.Int64Flag{Name: "teacher", Usage: "teacher user ID"},
	}
}

func courseRequest(c *cli.Context) dto.CourseRequest {
	req := dto.CourseRequest{Name: c.String("name"), Description: c.String("description")}
	if c.IsSet("teacher") {
		id := c.Int64("teacher")
		req.TeacherID = &id
	}
	return req
}

func (r *runner) adminUsers(path string, list func(*cli.Context) ([]models.User, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		if _, err := r.enter(path); err != nil {
			return err
		}
		users, err := list(c)
		if err != nil {
			return err
		}
		return printUsers(r.out, users)
	}
}

func (r *runner) adminEnrollment(change func(c *cli.Context, studentID, courseID int64) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		studentID, err := idArg(c, 0, "studentId")
		if err != nil {
			return err
		}
		courseID, err := idArg(c, 1, "courseId")
		if err != nil {
			return err
		}
		if _, err := r.enter("/admin/students"); err != nil {
			return err
		}
		return change(c, studentID, courseID)
	}
}

func (r *runner) adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "administration of users and courses",
		Subcommands: []*cli.Command{
			{
				Name:   "dashboard",
				Usage:  "portal counters and courses",
				Action: r.adminDashboard,
			},
			{
				Name:  "teachers",
				Usage: "list teachers",
				Action: r.adminUsers("/admin/teachers", func(c *cli.Context) ([]models.User, error) {
					return r.app.Gateway.Admin().Teachers(c.Context)
				}),
			},
			{
				Name:  "students",
				Usage: "list students",
				Action: r.adminUsers("/admin/students", func(c *cli.Context) ([]models.User, error) {
					return r.app.Gateway.Admin().Students(c.Context)
				}),
			},
			{
				Name:  "users",
				Usage: "list every account",
				Action: r.adminUsers("/admin/users", func(c *cli.Context) ([]models.User, error) {
					return r.app.Gateway.Admin().Users(c.Context)
				}),
			},
			{
				Name:      "delete-user",
				Usage:     "remove an account",
				ArgsUsage: "<userId>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "userId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/admin/users"); err != nil {
						return err
					}
					if err := r.app.Gateway.Admin().DeleteUser(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Deleted user %d.\n", id)
					return nil
				},
			},
			{
				Name:      "enroll",
				Usage:     "add a student to a course",
				ArgsUsage: "<studentId> <courseId>",
				Action: r.adminEnrollment(func(c *cli.Context, studentID, courseID int64) error {
					if _, err := r.app.Gateway.Admin().Enroll(c.Context, studentID, courseID); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Enrolled student %d in course %d.\n", studentID, courseID)
					return nil
				}),
			},
			{
				Name:      "unenroll",
				Usage:     "remove a student from a course",
				ArgsUsage: "<studentId> <courseId>",
				Action: r.adminEnrollment(func(c *cli.Context, studentID, courseID int64) error {
					if err := r.app.Gateway.Admin().Unenroll(c.Context, studentID, courseID); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Removed student %d from course %d.\n", studentID, courseID)
					return nil
				}),
			},
			{
				Name:  "courses",
				Usage: "list every course",
				Action: func(c *cli.Context) error {
					if _, err := r.enter("/admin/courses"); err != nil {
						return err
					}
					courses, err := r.app.Gateway.Admin().Courses(c.Context)
					if err != nil {
						return err
					}
					return printCourses(r.out, courses)
				},
			},
			{
				Name:  "create-course",
				Usage: "add a course",
				Flags: courseFlags(),
				Action: func(c *cli.Context) error {
					if _, err := r.enter("/admin/courses"); err != nil {
						return err
					}
					course, err := r.app.Gateway.Admin().CreateCourse(c.Context, courseRequest(c))
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Created course %d.\n", course.ID)
					return nil
				},
			},
			{
				Name:      "update-course",
				Usage:     "replace a course's name, description and teacher",
				ArgsUsage: "<courseId>",
				Flags:     courseFlags(),
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "courseId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/admin/courses"); err != nil {
						return err
					}
					if _, err := r.app.Gateway.Admin().UpdateCourse(c.Context, id, courseRequest(c)); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Updated course %d.\n", id)
					return nil
				},
			},
			{
				Name:      "delete-course",
				Usage:     "remove a course with its assignments",
				ArgsUsage: "<courseId>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "courseId")
					if err != nil {
						return err
					}
					if _, err := r.enter("/admin/courses"); err != nil {
						return err
					}
					if err := r.app.Gateway.Admin().DeleteCourse(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "Deleted course %d.\n", id)
					return nil
				},
			},
		},
	}
}

func (r *runner) adminDashboard(c *cli.Context) error {
	if _, err := r.enter("/admin/dashboard"); err != nil {
		return err
	}
	api := r.app.Gateway.Admin()
	view := dashboard.NewView(func(ctx context.Context) (*dashboard.AdminDashboard, error) {
		return dashboard.LoadAdmin(ctx, api)
	})
	defer view.Close()

	d, err := view.Refresh(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Students: %d  Teachers: %d  Courses: %d  Assignments: %d\n\n",
		d.Stats.TotalStudents, d.Stats.TotalTeachers, d.Stats.TotalCourses, d.Stats.TotalAssignments)
	return printCourses(r.out, d.Courses)
}
