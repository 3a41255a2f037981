package domain

import (
	"strings"
	"time"
)

// Task is a single entry in an organization's ordered task list.
//
// Position defines the task's rank within its organization: positions are
// unique per organization and form a dense ascending sequence starting at 1
// in display order. Deleting a task leaves a gap; gaps are tolerated and
// reconciled lazily on the next full reorder. A zero position marks a row
// that predates position tracking and is repaired during list.
type Task struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"` // e.g. Work, Personal
	Done           bool      `json:"done"`
	Position       int       `json:"position"`
	OrganizationID int64     `json:"organization_id"`
	OwnerID        *int64    `json:"owner_id,omitempty"` // creator
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewTask creates a task ready for insertion. The title is trimmed and
// required; the position is assigned by the store at insert time.
func NewTask(title, category string, orgID int64, ownerID int64) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	now := time.Now().UTC()
	return &Task{
		Title:          title,
		Category:       category,
		Done:           false,
		OrganizationID: orgID,
		OwnerID:        &ownerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// TaskPatch describes a partial update to a task. Nil fields are left
// untouched; only fields explicitly present in the request change.
type TaskPatch struct {
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
	Done     *bool   `json:"done,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Category == nil && p.Done == nil
}

// Validate rejects patches that would blank out required fields.
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
