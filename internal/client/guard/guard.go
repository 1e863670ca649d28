// Package guard decides whether a protected view may be shown to the
// current session. It is a pure function of the session snapshot and static
// route metadata; it holds no state of its own.
package guard

import (
	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/session"
)

// Outcome is the guard's verdict for one route request.
type Outcome int

const (
	// Render: the session may see the requested view.
	Render Outcome = iota
	// RedirectToLogin: no authenticated session.
	RedirectToLogin
	// RedirectToHome: authenticated, but the role does not match.
	RedirectToHome
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToHome:
		return "redirect_to_home"
	default:
		return "unknown"
	}
}

// Route is the static metadata of a protected destination.
type Route struct {
	// Location identifies the requested view (path or command name).
	Location string
	// RequireAuth gates the route behind any authenticated session.
	RequireAuth bool
	// RequiredRole, when non-empty, additionally restricts the route to
	// sessions holding exactly this role.
	RequiredRole models.Role
}

// Decision is the guard's full answer. From preserves the originally
// requested location on the redirect outcomes so a post-login flow can
// return the user there; Notice is the user-visible denial message, empty
// when the outcome is Render.
type Decision struct {
	Outcome Outcome
	From    string
	Notice  string
}

// Decide evaluates route against the session snapshot.
//
// The authentication check runs before the role check: an anonymous visitor
// to an admin route is sent to login, not home.
func Decide(snap session.Snapshot, route Route) Decision {
	if route.RequireAuth && !snap.Authenticated() {
		return Decision{
			Outcome: RedirectToLogin,
			From:    route.Location,
			Notice:  "Anda harus login untuk mengakses halaman ini.",
		}
	}

	if route.RequiredRole != "" && (snap.User == nil || snap.User.Role != route.RequiredRole) {
		if !snap.Authenticated() {
			return Decision{
				Outcome: RedirectToLogin,
				From:    route.Location,
				Notice:  "Anda harus login untuk mengakses halaman ini.",
			}
		}
		return Decision{
			Outcome: RedirectToHome,
			From:    route.Location,
			Notice:  "Anda tidak memiliki izin untuk mengakses halaman ini.",
		}
	}

	return Decision{Outcome: Render}
}
