package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleOperator, ParseRole("operator"))
	assert.Equal(t, RoleViewer, ParseRole("viewer"))

	// Unknown roles degrade to the least privileged one.
	assert.Equal(t, RoleViewer, ParseRole(""))
	assert.Equal(t, RoleViewer, ParseRole("superuser"))
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleOperator))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleOperator.AtLeast(RoleViewer))
	assert.False(t, RoleOperator.AtLeast(RoleAdmin))
	assert.False(t, RoleViewer.AtLeast(RoleOperator))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "operator", RoleOperator.String())
	assert.Equal(t, "viewer", RoleViewer.String())
}
