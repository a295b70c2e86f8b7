package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/guard"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/session"
)

func (r *runner) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"PORTAL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			user, err := r.app.Sessions.Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, "Logged in as %s (%s).\n", user.Name, user.Role)
			fmt.Fprintf(r.out, "Home: %s\n", guard.HomeFor(user.Role))
			return nil
		},
	}
}

func (r *runner) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the current session",
		Action: func(c *cli.Context) error {
			if err := r.app.Sessions.Logout(); err != nil {
				if errors.Is(err, session.ErrSavedSessionKept) {
					fmt.Fprintln(r.out, "Logged out of this run, but the saved session is still on disk and will be restored next time.")
				}
				return err
			}
			fmt.Fprintln(r.out, "Logged out.")
			return nil
		},
	}
}

func (r *runner) registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account; does not log in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"PORTAL_PASSWORD"}},
			&cli.StringFlag{Name: "role", Value: string(models.RoleStudent), Usage: "ADMIN, TEACHER or STUDENT"},
		},
		Action: func(c *cli.Context) error {
			role, err := models.ParseRole(c.String("role"))
			if err != nil {
				return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
			}
			req := dto.RegisterRequest{
				Name:     c.String("name"),
				Email:    c.String("email"),
				Password: c.String("password"),
				Role:     role,
			}
			if err := r.app.Sessions.Register(c.Context, req); err != nil {
				return err
			}
			fmt.Fprintln(r.out, "Registration successful. Please log in.")
			return nil
		},
	}
}

func (r *runner) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the current session",
		Action: func(c *cli.Context) error {
			s := r.app.Sessions.Snapshot()
			if !s.Authenticated() {
				fmt.Fprintln(r.out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(r.out, "%s <%s>\nRole: %s\nID:   %d\n", s.User.Name, s.User.Email, s.User.Role, s.User.ID)
			return nil
		},
	}
}

func (r *runner) navigateCommand() *cli.Command {
	return &cli.Command{
		Name:      "navigate",
		Usage:     "show what the portal does for a page path",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return apperrors.NewCustomError(apperrors.ErrValidationFailed, "missing argument <path>")
			}
			out, err := r.app.Navigator.Navigate(path)
			if err != nil {
				return apperrors.NewCustomError(apperrors.ErrResourceNotFound, "No page at "+path)
			}
			fmt.Fprintf(r.out, "Route:    %s\n", out.Route.Name)
			fmt.Fprintf(r.out, "Decision: %s\n", out.Decision)
			if out.Target != "" {
				fmt.Fprintf(r.out, "Redirect: %s\n", out.Target)
			}
			if len(out.Params) > 0 {
				pairs := make([]string, 0, len(out.Params))
				for k, v := range out.Params {
					pairs = append(pairs, k+"="+v)
				}
				fmt.Fprintf(r.out, "Params:   %s\n", strings.Join(sortedStrings(pairs), " "))
			}
			return nil
		},
	}
}
