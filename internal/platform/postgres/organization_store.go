package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresOrganizationStore implements the store.OrganizationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresOrganizationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOrganizationStore creates a new PostgreSQL implementation of the
// OrganizationStore interface.
func NewPostgresOrganizationStore(db store.DBTX, logger *slog.Logger) *PostgresOrganizationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOrganizationStore{
		db:     db,
		logger: logger.With(slog.String("component", "organization_store")),
	}
}

// Ensure PostgresOrganizationStore implements store.OrganizationStore interface
var _ store.OrganizationStore = (*PostgresOrganizationStore)(nil)

const organizationColumns = "id, name, parent_id, created_at, updated_at"

func scanOrganization(row interface{ Scan(dest ...any) error }) (*domain.Organization, error) {
	var org domain.Organization
	var parentID sql.NullInt64
	err := row.Scan(
		&org.ID,
		&org.Name,
		&parentID,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		org.ParentID = &parentID.Int64
	}
	return &org, nil
}

// Create implements store.OrganizationStore.Create
func (s *PostgresOrganizationStore) Create(ctx context.Context, org *domain.Organization) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := org.Validate(); err != nil {
		log.Warn("organization validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO organizations (name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		org.Name,
		org.ParentID,
		org.CreatedAt,
		org.UpdatedAt,
	).Scan(&org.ID)

	if err != nil {
		log.Error("failed to create organization",
			slog.String("error", err.Error()),
			slog.String("name", org.Name))
		return MapError(err)
	}

	log.Info("organization created successfully",
		slog.Int64("organization_id", org.ID),
		slog.String("name", org.Name))
	return nil
}

// GetByID implements store.OrganizationStore.GetByID
// Returns store.ErrOrganizationNotFound if it does not exist.
func (s *PostgresOrganizationStore) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`

	org, err := scanOrganization(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("organization not found", slog.Int64("organization_id", id))
			return nil, store.ErrOrganizationNotFound
		}
		log.Error("failed to get organization by ID",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", id))
		return nil, MapError(err)
	}
	return org, nil
}

// GetByName implements store.OrganizationStore.GetByName
// Returns store.ErrOrganizationNotFound if it does not exist.
func (s *PostgresOrganizationStore) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE name = $1`

	org, err := scanOrganization(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("organization not found", slog.String("name", name))
			return nil, store.ErrOrganizationNotFound
		}
		log.Error("failed to get organization by name",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, MapError(err)
	}
	return org, nil
}

// WithTx implements store.OrganizationStore.WithTx
// It returns a new OrganizationStore instance that uses the provided transaction.
func (s *PostgresOrganizationStore) WithTx(tx *sql.Tx) store.OrganizationStore {
	return &PostgresOrganizationStore{
		db:     tx,
		logger: s.logger,
	}
}
