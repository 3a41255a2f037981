package store

import (
	"context"
	"database/sql"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// OrganizationStore defines the interface for organization persistence.
// The ordering and authorization core only ever uses organizations for
// scoping, so the surface is deliberately small.
type OrganizationStore interface {
	// Create saves a new organization to the store.
	Create(ctx context.Context, org *domain.Organization) error

	// GetByID retrieves an organization by its unique ID.
	// Returns ErrOrganizationNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)

	// GetByName retrieves an organization by name.
	// Returns ErrOrganizationNotFound if it does not exist.
	GetByName(ctx context.Context, name string) (*domain.Organization, error)

	// WithTx returns a new OrganizationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) OrganizationStore
}
