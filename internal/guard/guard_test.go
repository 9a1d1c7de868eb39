package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmforge/vmforge-cli/internal/session"
)

func anonymous() session.State {
	return session.State{}
}

func authenticatedAs(role session.Role) session.State {
	return session.State{
		User:          &session.User{ID: "u-1", Username: "alice", Role: role},
		Authenticated: true,
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		state        session.State
		action       Action
		req          Requirement
		wantAllowed  bool
		wantRedirect Action
	}{
		{
			name:         "anonymous user on protected action is sent to login",
			state:        anonymous(),
			action:       ActionVMList,
			req:          Requirement{RequiresAuth: true},
			wantRedirect: ActionLogin,
		},
		{
			name:        "anonymous user on public action is allowed",
			state:       anonymous(),
			action:      ActionLogin,
			req:         Requirement{},
			wantAllowed: true,
		},
		{
			name:         "authenticated user asking to log in again lands on dashboard",
			state:        authenticatedAs(session.RoleViewer),
			action:       ActionLogin,
			req:          Requirement{},
			wantRedirect: ActionDashboard,
		},
		{
			name:        "admin passes admin requirement",
			state:       authenticatedAs(session.RoleAdmin),
			action:      ActionUsers,
			req:         Requirement{RequiresAuth: true, RequiresAdmin: true},
			wantAllowed: true,
		},
		{
			name:         "viewer fails admin requirement",
			state:        authenticatedAs(session.RoleViewer),
			action:       ActionUsers,
			req:          Requirement{RequiresAuth: true, RequiresAdmin: true},
			wantRedirect: ActionDashboard,
		},
		{
			name:         "operator fails admin requirement",
			state:        authenticatedAs(session.RoleOperator),
			action:       ActionUsers,
			req:          Requirement{RequiresAuth: true, RequiresAdmin: true},
			wantRedirect: ActionDashboard,
		},
		{
			name:        "operator passes operator requirement",
			state:       authenticatedAs(session.RoleOperator),
			action:      ActionVMControl,
			req:         Requirement{RequiresAuth: true, RequiresOperator: true},
			wantAllowed: true,
		},
		{
			name:        "admin passes operator requirement",
			state:       authenticatedAs(session.RoleAdmin),
			action:      ActionVMControl,
			req:         Requirement{RequiresAuth: true, RequiresOperator: true},
			wantAllowed: true,
		},
		{
			name:         "viewer fails operator requirement",
			state:        authenticatedAs(session.RoleViewer),
			action:       ActionVMControl,
			req:          Requirement{RequiresAuth: true, RequiresOperator: true},
			wantRedirect: ActionDashboard,
		},
		{
			name:   "anonymous user is told to log in before being told about roles",
			state:  anonymous(),
			action: ActionUsers,
			req:    Requirement{RequiresAuth: true, RequiresAdmin: true},
			// Auth precedes role checks: redirect goes to login, not
			// to the landing action.
			wantRedirect: ActionLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.state, tt.action, tt.req)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			assert.Equal(t, tt.wantRedirect, got.Redirect)
		})
	}
}

func TestCheckUsesRequirementTable(t *testing.T) {
	// viewer may list VMs but not control them
	viewer := authenticatedAs(session.RoleViewer)
	assert.True(t, Check(viewer, ActionVMList).Allowed)
	assert.False(t, Check(viewer, ActionVMControl).Allowed)

	// anonymous users are redirected to login everywhere protected
	assert.Equal(t, ActionLogin, Check(anonymous(), ActionDashboard).Redirect)
}

func TestCheckUnknownActionRequiresAuth(t *testing.T) {
	got := Check(anonymous(), Action("not-in-table"))
	assert.False(t, got.Allowed)
	assert.Equal(t, ActionLogin, got.Redirect)

	assert.True(t, Check(authenticatedAs(session.RoleViewer), Action("not-in-table")).Allowed)
}
