// Package authz decides whether an authenticated identity may perform an
// operation. Decisions are pure and side-effect-free: a weight comparison on
// the total role order against a static policy table. It is an authorization
// policy only; authentication must already have happened upstream.
package authz

import (
	"errors"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// ErrForbidden indicates the caller's role is insufficient for the operation
// or the target belongs to another organization.
var ErrForbidden = errors.New("forbidden")

// Operation names a guarded API operation in the policy table.
type Operation string

const (
	OpTaskList    Operation = "task.list"
	OpTaskCreate  Operation = "task.create"
	OpTaskUpdate  Operation = "task.update"
	OpTaskDelete  Operation = "task.delete"
	OpTaskReorder Operation = "task.reorder"
	OpAuditList   Operation = "audit.list"
)

// Authorizer holds the operation-to-minimum-role policy table. The table is
// explicit data consulted before dispatch; there is no reflection or
// per-handler metadata.
type Authorizer struct {
	policy map[Operation]domain.Role
}

// NewAuthorizer returns an Authorizer loaded with the application policy:
// every task write and the audit log require admin, listing tasks requires
// authentication only (no table entry).
func NewAuthorizer() *Authorizer {
	a := &Authorizer{policy: make(map[Operation]domain.Role)}
	a.Require(OpTaskCreate, domain.RoleAdmin)
	a.Require(OpTaskUpdate, domain.RoleAdmin)
	a.Require(OpTaskDelete, domain.RoleAdmin)
	a.Require(OpTaskReorder, domain.RoleAdmin)
	a.Require(OpAuditList, domain.RoleAdmin)
	return a
}

// Require declares the minimum role for an operation. Declaring several
// roles at once reduces to the maximum weight among them, so
// Require(op, admin, owner) gates at owner.
func (a *Authorizer) Require(op Operation, roles ...domain.Role) {
	required, ok := a.policy[op]
	for _, r := range roles {
		if !ok || r.Weight() > required.Weight() {
			required = r
			ok = true
		}
	}
	if ok {
		a.policy[op] = required
	}
}

// RequiredRole returns the minimum role for the operation, and whether the
// operation is gated at all.
func (a *Authorizer) RequiredRole(op Operation) (domain.Role, bool) {
	r, ok := a.policy[op]
	return r, ok
}

// Authorize allows the call iff the caller's role weighs at least as much as
// the operation's required role. Operations without a table entry are open
// to any authenticated caller. An absent or invalid caller role is always
// forbidden on gated operations; there is no anonymous fallback.
func (a *Authorizer) Authorize(op Operation, caller domain.Role) error {
	required, ok := a.policy[op]
	if !ok {
		return nil
	}
	if !caller.AtLeast(required) {
		return ErrForbidden
	}
	return nil
}
