// Package guard decides whether a screen may be shown for the current session.
package guard

import "github.com/paradisepeak/ppadmin/internal/session"

// Redirect destinations.
const (
	Login = "/"
	Home  = "/home"
)

// Decision is the outcome of a guard check. Redirect is set only when Allow is false.
type Decision struct {
	Allow    bool
	Redirect string
}

var allow = Decision{Allow: true}

func redirect(to string) Decision {
	return Decision{Redirect: to}
}

// Guard is a pure predicate over session state.
type Guard func(s session.View) Decision

// Public keeps signed-in users away from login and signup pages.
func Public(s session.View) Decision {
	if s.IsAuthenticated() {
		return redirect(Home)
	}
	return allow
}

// Protected requires a signed-in user.
func Protected(s session.View) Decision {
	if !s.IsAuthenticated() {
		return redirect(Login)
	}
	return allow
}

// Admin requires a signed-in admin. Other signed-in users go home.
func Admin(s session.View) Decision {
	if !s.IsAuthenticated() {
		return redirect(Login)
	}
	if !s.IsAdmin() {
		return redirect(Home)
	}
	return allow
}

// ByName resolves the guard names used in command annotations.
func ByName(name string) (Guard, bool) {
	switch name {
	case "public":
		return Public, true
	case "protected":
		return Protected, true
	case "admin":
		return Admin, true
	}
	return nil, false
}
