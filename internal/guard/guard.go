// Package guard implements the navigation policies gating each area of the
// client.
//
// A guard is a pure function from the current session state to a [Decision];
// it never touches the network and only reads the already-hydrated session.
// The CLI runner turns redirects into actionable errors, the TUI turns them
// into view switches.
package guard

import "distream/internal/session"

// Well-known navigation targets, mirroring the web app's routes.
const (
	RouteLanding        = "/"
	RouteSignIn         = "/login"
	RouteUserDashboard  = "/dashboard"
	RouteAdminDashboard = "/admin/dashboard"
)

// Action is the outcome kind of a guard evaluation.
type Action int

const (
	// ShowLoading renders a neutral placeholder while the session is still
	// hydrating. It is deliberately not a redirect, to avoid a redirect
	// flicker before hydration completes.
	ShowLoading Action = iota
	// Render allows the guarded content.
	Render
	// Redirect sends the user to Decision.Target instead.
	Redirect
)

// Decision is the result of evaluating a guard against a session state.
type Decision struct {
	Action Action
	Target string
}

// Protected admits authenticated sessions only; anonymous sessions are sent
// to the sign-in page.
func Protected(s session.State) Decision {
	switch s.(type) {
	case session.Initializing:
		return Decision{Action: ShowLoading}
	case session.Authenticated:
		return Decision{Action: Render}
	default:
		return Decision{Action: Redirect, Target: RouteSignIn}
	}
}

// Admin admits sessions holding the admin role. A signed-in non-admin is
// redirected to the landing page rather than the sign-in page: the user is
// authenticated, just not authorized for this area.
func Admin(s session.State) Decision {
	switch st := s.(type) {
	case session.Initializing:
		return Decision{Action: ShowLoading}
	case session.Authenticated:
		if st.User.IsAdmin() {
			return Decision{Action: Render}
		}
		return Decision{Action: Redirect, Target: RouteLanding}
	default:
		return Decision{Action: Redirect, Target: RouteLanding}
	}
}

// Guest admits anonymous sessions only; an authenticated session is sent to
// its role-appropriate dashboard.
func Guest(s session.State) Decision {
	switch st := s.(type) {
	case session.Initializing:
		return Decision{Action: ShowLoading}
	case session.Authenticated:
		target := RouteUserDashboard
		if st.User.IsAdmin() {
			target = RouteAdminDashboard
		}
		return Decision{Action: Redirect, Target: target}
	default:
		return Decision{Action: Render}
	}
}
