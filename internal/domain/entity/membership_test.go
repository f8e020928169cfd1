package entity_test

import (
	"testing"

	"github.com/jhoicas/gestion-pyme/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestRoleAllows(t *testing.T) {
	cases := []struct {
		role                          entity.Role
		read, write, approve, adminis bool
	}{
		{entity.RoleAdmin, true, true, true, true},
		{entity.RoleManager, true, true, true, false},
		{entity.RoleOperator, true, true, false, false},
		{entity.RoleViewer, true, false, false, false},
		{entity.Role("owner"), false, false, false, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.read, c.role.Allows(entity.PermRead), "%s lectura", c.role)
		assert.Equal(t, c.write, c.role.Allows(entity.PermWrite), "%s escritura", c.role)
		assert.Equal(t, c.approve, c.role.Allows(entity.PermApprove), "%s aprobación", c.role)
		assert.Equal(t, c.adminis, c.role.Allows(entity.PermAdminister), "%s administración", c.role)
	}
}

func TestRolesWith(t *testing.T) {
	assert.Equal(t, []entity.Role{entity.RoleAdmin, entity.RoleManager}, entity.RolesWith(entity.PermApprove))
	assert.Len(t, entity.RolesWith(entity.PermRead), 4)
}

func TestParseRole(t *testing.T) {
	r, ok := entity.ParseRole("manager")
	assert.True(t, ok)
	assert.Equal(t, entity.RoleManager, r)

	_, ok = entity.ParseRole("root")
	assert.False(t, ok)
}
