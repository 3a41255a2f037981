package domain

import "time"

// Organization is the tenant boundary: tasks and users belong to exactly one.
// Organizations form a two-level hierarchy; a root organization has a nil
// ParentID. The hierarchy is informational only and plays no part in
// authorization or ordering, which scope strictly by organization ID.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the Organization has valid data.
func (o *Organization) Validate() error {
	if o.Name == "" {
		return ErrEmptyOrganizationName
	}
	return nil
}
