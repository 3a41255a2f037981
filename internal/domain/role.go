package domain

import "fmt"

// Role is the closed set of roles a user can hold within an organization.
// Roles form a total order: viewer < admin < owner. Permissions are strictly
// increasing along that order, so every authorization decision is a weight
// comparison rather than a membership check.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// roleWeights assigns each role its rank in the total order.
var roleWeights = map[Role]int{
	RoleViewer: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// ParseRole converts a raw string into a Role.
// Returns ErrInvalidRole for anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleWeights[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleWeights[r]
	return ok
}

// Weight returns the role's rank in the total order (viewer=1, admin=2,
// owner=3). Unknown roles rank below every valid role.
func (r Role) Weight() int {
	return roleWeights[r]
}

// AtLeast reports whether r grants at least the permissions of required.
// A higher role always satisfies a lower requirement, so an owner passes
// every admin gate. An invalid role satisfies nothing.
func (r Role) AtLeast(required Role) bool {
	if !r.Valid() {
		return false
	}
	return r.Weight() >= required.Weight()
}

func (r Role) String() string {
	return string(r)
}
