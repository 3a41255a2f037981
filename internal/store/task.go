package store

import (
	"context"
	"database/sql"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskStore defines the interface for task data persistence. All queries are
// scoped by organization; callers are responsible for passing the tenant of
// the authenticated identity, never a client-supplied value.
type TaskStore interface {
	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByOrganization returns all tasks for the organization ordered by
	// (position ascending, id ascending). The id tie-break makes the order
	// deterministic even when positions collide transiently.
	ListByOrganization(ctx context.Context, orgID int64) ([]*domain.Task, error)

	// FilterIDsByOrganization narrows ids to those that exist and belong to
	// the organization, preserving no particular order. Unknown or foreign
	// ids are simply absent from the result.
	FilterIDsByOrganization(ctx context.Context, orgID int64, ids []int64) (map[int64]struct{}, error)

	// Create inserts the task and assigns its position as
	// max(position in organization)+1, or 1 for an empty organization.
	// The read-then-write is serialized per organization so two concurrent
	// creates cannot collide on the same position. The task's ID and
	// Position fields are populated on return.
	Create(ctx context.Context, task *domain.Task) error

	// UpdateFields applies a partial patch to the task. Nil patch fields are
	// left untouched. Position is never modified through this method.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateFields(ctx context.Context, id int64, patch domain.TaskPatch) error

	// Delete removes a task. Surrounding positions are not compacted; the
	// resulting gap is reconciled on the next reorder.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// BulkSetPositions rewrites the position of every task in the map in a
	// single atomic operation: either all writes take effect or none do.
	BulkSetPositions(ctx context.Context, positions map[int64]int) error

	// BackfillMissingPositions sets position = id for every task in the
	// organization whose position is zero or missing. Idempotent; rows with
	// a valid position are never disturbed.
	BackfillMissingPositions(ctx context.Context, orgID int64) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
