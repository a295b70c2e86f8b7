// Package guard decides whether a session may open a view.
package guard

import (
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/session"
)

// Decision is the outcome of an access check
type Decision int

const (
	Render Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "RENDER"
	case RedirectLogin:
		return "REDIRECT_LOGIN"
	case RedirectUnauthorized:
		return "REDIRECT_UNAUTHORIZED"
	}
	return "UNKNOWN"
}

// Decide is a pure function of the session and the allowed roles.
// An empty role set admits any authenticated session.
func Decide(s session.Session, requiredRoles []models.Role) Decision {
	if s.Token == "" {
		return RedirectLogin
	}
	if len(requiredRoles) > 0 && (s.User == nil || !models.ContainsRole(requiredRoles, s.User.Role)) {
		return RedirectUnauthorized
	}
	return Render
}
