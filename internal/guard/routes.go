package guard

import (
	"errors"
	"strings"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/session"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// ErrRouteNotFound is returned for paths that match no route
var ErrRouteNotFound = errors.New("route not found")

// Route is a navigable view and the roles allowed to open it
type Route struct {
	Name    string
	Pattern string
	Roles   []models.Role
	Public  bool
}

var (
	adminOnly   = []models.Role{models.RoleAdmin}
	teacherOnly = []models.Role{models.RoleTeacher}
	studentOnly = []models.Role{models.RoleStudent}
)

// DefaultRoutes is the portal's route table
var DefaultRoutes = []Route{
	{Name: "home", Pattern: "/", Public: true},
	{Name: "about", Pattern: "/about", Public: true},
	{Name: "contact", Pattern: "/contact", Public: true},
	{Name: "login", Pattern: LoginPath, Public: true},
	{Name: "register", Pattern: "/register", Public: true},
	{Name: "unauthorized", Pattern: UnauthorizedPath, Public: true},

	{Name: "admin.dashboard", Pattern: "/admin/dashboard", Roles: adminOnly},
	{Name: "admin.users", Pattern: "/admin/users", Roles: adminOnly},
	{Name: "admin.students", Pattern: "/admin/students", Roles: adminOnly},
	{Name: "admin.teachers", Pattern: "/admin/teachers", Roles: adminOnly},
	{Name: "admin.courses", Pattern: "/admin/courses", Roles: adminOnly},

	{Name: "teacher.dashboard", Pattern: "/teacher/dashboard", Roles: teacherOnly},
	{Name: "teacher.courses", Pattern: "/teacher/courses", Roles: teacherOnly},
	{Name: "teacher.assignments", Pattern: "/teacher/assignments", Roles: teacherOnly},
	{Name: "teacher.grades", Pattern: "/teacher/grades", Roles: teacherOnly},
	{Name: "teacher.student", Pattern: "/teacher/students/:id", Roles: teacherOnly},

	{Name: "student.dashboard", Pattern: "/student/dashboard", Roles: studentOnly},
	{Name: "student.assignment", Pattern: "/student/assignments/:assignmentId", Roles: studentOnly},
	{Name: "student.course", Pattern: "/student/courses/:id", Roles: studentOnly},
}

// Match reports whether path fits the route pattern and returns its parameters
func (r Route) Match(path string) (map[string]string, bool) {
	want := splitPath(r.Pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range want {
		if strings.HasPrefix(seg, ":") {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// HomeFor returns the dashboard a role lands on after login
func HomeFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleTeacher:
		return "/teacher/dashboard"
	case models.RoleStudent:
		return "/student/dashboard"
	}
	return "/"
}

// SessionSource supplies the current session on each navigation
type SessionSource interface {
	Snapshot() session.Session
}

// Outcome is the result of one navigation
type Outcome struct {
	Decision Decision
	Route    Route
	Params   map[string]string
	// Target is where the caller should go instead on a redirect
	Target string
}

// Navigator resolves paths against a route table and guards them
type Navigator struct {
	routes   []Route
	sessions SessionSource
}

// NewNavigator creates a navigator; nil routes selects DefaultRoutes
func NewNavigator(sessions SessionSource, routes []Route) *Navigator {
	if routes == nil {
		routes = DefaultRoutes
	}
	return &Navigator{routes: routes, sessions: sessions}
}

// Resolve finds the route for path
func (n *Navigator) Resolve(path string) (Route, map[string]string, error) {
	for _, r := range n.routes {
		if params, ok := r.Match(path); ok {
			return r, params, nil
		}
	}
	return Route{}, nil, ErrRouteNotFound
}

// Navigate evaluates access for path against a fresh session snapshot
func (n *Navigator) Navigate(path string) (Outcome, error) {
	route, params, err := n.Resolve(path)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Route: route, Params: params, Decision: Render}
	if route.Public {
		return out, nil
	}

	out.Decision = Decide(n.sessions.Snapshot(), route.Roles)
	switch out.Decision {
	case RedirectLogin:
		out.Target = LoginPath
	case RedirectUnauthorized:
		out.Target = UnauthorizedPath
	}
	return out, nil
}
