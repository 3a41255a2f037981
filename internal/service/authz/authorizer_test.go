package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

func TestAuthorizeDefaultPolicy(t *testing.T) {
	t.Parallel()

	a := NewAuthorizer()

	tests := []struct {
		name    string
		op      Operation
		caller  domain.Role
		wantErr bool
	}{
		{name: "viewer cannot create", op: OpTaskCreate, caller: domain.RoleViewer, wantErr: true},
		{name: "admin can create", op: OpTaskCreate, caller: domain.RoleAdmin},
		{name: "owner can create", op: OpTaskCreate, caller: domain.RoleOwner},
		{name: "viewer cannot reorder", op: OpTaskReorder, caller: domain.RoleViewer, wantErr: true},
		{name: "viewer cannot read audit log", op: OpAuditList, caller: domain.RoleViewer, wantErr: true},
		{name: "admin can read audit log", op: OpAuditList, caller: domain.RoleAdmin},
		{name: "list is ungated for viewer", op: OpTaskList, caller: domain.RoleViewer},
		{name: "absent role forbidden on gated op", op: OpTaskDelete, caller: domain.Role(""), wantErr: true},
		{name: "unknown op is ungated", op: Operation("task.export"), caller: domain.RoleViewer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := a.Authorize(tt.op, tt.caller)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Any operation gated at role r must also succeed for every role above r.
func TestAuthorizeMonotonicity(t *testing.T) {
	t.Parallel()

	roles := []domain.Role{domain.RoleViewer, domain.RoleAdmin, domain.RoleOwner}

	for _, gate := range roles {
		a := &Authorizer{policy: map[Operation]domain.Role{"op": gate}}
		for _, caller := range roles {
			err := a.Authorize("op", caller)
			if caller.Weight() >= gate.Weight() {
				assert.NoError(t, err, "gate=%s caller=%s", gate, caller)
			} else {
				assert.ErrorIs(t, err, ErrForbidden, "gate=%s caller=%s", gate, caller)
			}
		}
	}
}

func TestRequireReducesToMaxWeight(t *testing.T) {
	t.Parallel()

	a := &Authorizer{policy: make(map[Operation]domain.Role)}
	a.Require("op", domain.RoleViewer, domain.RoleOwner, domain.RoleAdmin)

	required, ok := a.RequiredRole("op")
	require.True(t, ok)
	assert.Equal(t, domain.RoleOwner, required)

	// A later weaker declaration must not lower the gate.
	a.Require("op", domain.RoleViewer)
	required, _ = a.RequiredRole("op")
	assert.Equal(t, domain.RoleOwner, required)
}
