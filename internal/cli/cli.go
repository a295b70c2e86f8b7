// Package cli is the portal's command-line front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"
	"github.com/yigit/collegeportal/internal/bootstrap"
	"github.com/yigit/collegeportal/internal/guard"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/logger"
)

// Loader builds the client application once flags are parsed
type Loader func(c *cli.Context) (*bootstrap.App, error)

type runner struct {
	load Loader
	app  *bootstrap.App
	out  io.Writer
}

// Run executes the portal CLI and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, args, stdout, stderr, loadFromConfig)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, load Loader) int {
	app := New(load, stdout)
	app.ErrWriter = stderr
	if err := app.RunContext(ctx, args); err != nil {
		msg := apperrors.Describe(err)
		fmt.Fprintf(stderr, "Error: %s\n", msg.Text)
		if msg.Retryable {
			fmt.Fprintln(stderr, "The command can be retried.")
		}
		return 1
	}
	return 0
}

// New assembles the command tree
func New(load Loader, out io.Writer) *cli.App {
	r := &runner{load: load, out: out}

	return &cli.App{
		Name:            "portal",
		Usage:           "college management portal client",
		Writer:          out,
		Suggest:         true,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   filepath.Join("configs", "config.yaml"),
				EnvVars: []string{"PORTAL_CONFIG"},
			},
			&cli.StringFlag{Name: "api-url", Usage: "override the backend base URL"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Before: r.before,
		After:  r.after,
		// Errors are rendered by Run, never by os.Exit inside the library
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			r.loginCommand(),
			r.logoutCommand(),
			r.registerCommand(),
			r.whoamiCommand(),
			r.navigateCommand(),
			r.studentCommand(),
			r.teacherCommand(),
			r.adminCommand(),
		},
	}
}

func (r *runner) before(c *cli.Context) error {
	app, err := r.load(c)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

func (r *runner) after(*cli.Context) error {
	if r.app == nil {
		return nil
	}
	err := r.app.Close()
	r.app = nil
	return err
}

func loadFromConfig(c *cli.Context) (*bootstrap.App, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, err
	}
	if u := c.String("api-url"); u != "" {
		cfg.API.BaseURL = u
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
		lgr = logger.Configure(logger.Config{
			Level:  logger.ParseLevel(lvl),
			Pretty: cfg.IsPrettyLogging(),
		})
	}
	return bootstrap.NewApp(cfg, lgr)
}

// enter navigates to path and turns a redirect into the matching error
func (r *runner) enter(path string) (guard.Outcome, error) {
	out, err := r.app.Navigator.Navigate(path)
	if err != nil {
		return out, apperrors.NewCustomError(apperrors.ErrResourceNotFound, "No page at "+path)
	}
	switch out.Decision {
	case guard.RedirectLogin:
		r.app.Logger.Debug().Str("path", path).Msg("Redirecting to login")
		return out, fmt.Errorf("%s: %w", path, apperrors.ErrNotAuthenticated)
	case guard.RedirectUnauthorized:
		r.app.Logger.Debug().Str("path", path).Msg("Redirecting to unauthorized")
		return out, fmt.Errorf("%s: %w", path, apperrors.ErrAuthorizationFailed)
	}
	return out, nil
}

func idArg(c *cli.Context, pos int, name string) (int64, error) {
	raw := c.Args().Get(pos)
	if raw == "" {
		return 0, apperrors.NewCustomError(apperrors.ErrValidationFailed, "missing argument <"+name+">")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewCustomError(apperrors.ErrValidationFailed, fmt.Sprintf("<%s> must be a positive number, got %q", name, raw))
	}
	return id, nil
}
