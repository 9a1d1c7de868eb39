// Package guard implements the authorization predicate evaluated before
// every protected CLI action. Decisions are pure functions of the current
// session snapshot and the action's static requirement; the guard never
// performs I/O. Callers are responsible for completing session bootstrap
// before asking for a decision.
package guard

import (
	"github.com/vmforge/vmforge-cli/internal/session"
)

// Action identifies a protected CLI action, the CLI's equivalent of a
// route in the panel's web UI
type Action string

// Requirement is the static access metadata attached to an action
type Requirement struct {
	RequiresAuth     bool
	RequiresAdmin    bool
	RequiresOperator bool
}

// Decision is the outcome of an access check: either allow, or redirect
// the user to a different action (log in, or back to the landing page)
type Decision struct {
	Allowed  bool
	Redirect Action
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirectTo(target Action) Decision {
	return Decision{Redirect: target}
}

// Decide evaluates the requirement against the session snapshot.
// Authentication is checked before roles: an anonymous user is sent to
// login, never told about missing privileges. An authenticated user
// asking for the login action is sent to the landing action instead.
func Decide(st session.State, action Action, req Requirement) Decision {
	if req.RequiresAuth && !st.Authenticated {
		return redirectTo(ActionLogin)
	}
	if action == ActionLogin && st.Authenticated {
		return redirectTo(ActionDashboard)
	}
	if req.RequiresAdmin && st.Role() != session.RoleAdmin {
		return redirectTo(ActionDashboard)
	}
	if req.RequiresOperator && !st.Role().AtLeast(session.RoleOperator) {
		return redirectTo(ActionDashboard)
	}
	return allow()
}

// Check looks up the action's requirement in the static table and
// evaluates it. Unknown actions require authentication.
func Check(st session.State, action Action) Decision {
	req, ok := Requirements[action]
	if !ok {
		req = Requirement{RequiresAuth: true}
	}
	return Decide(st, action, req)
}
