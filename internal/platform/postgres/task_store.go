package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = "id, title, category, done, position, organization_id, owner_id, created_at, updated_at"

func scanTask(row interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var task domain.Task
	var ownerID sql.NullInt64
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Category,
		&task.Done,
		&task.Position,
		&task.OrganizationID,
		&ownerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ownerID.Valid {
		task.OwnerID = &ownerID.Int64
	}
	return &task, nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}
	return task, nil
}

// ListByOrganization implements store.TaskStore.ListByOrganization
// Tasks come back ordered by (position, id); the id tie-break keeps the order
// deterministic when positions collide transiently.
func (s *PostgresTaskStore) ListByOrganization(ctx context.Context, orgID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE organization_id = $1
		ORDER BY position ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		log.Error("failed to query tasks by organization",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", orgID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no tasks found
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// FilterIDsByOrganization implements store.TaskStore.FilterIDsByOrganization
// Unknown ids and ids belonging to other organizations are simply absent from
// the result; no error is raised for them.
func (s *PostgresTaskStore) FilterIDsByOrganization(
	ctx context.Context,
	orgID int64,
	ids []int64,
) (map[int64]struct{}, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	allowed := make(map[int64]struct{}, len(ids))
	if len(ids) == 0 {
		return allowed, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, orgID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`SELECT id FROM tasks WHERE organization_id = $1 AND id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to filter task ids",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", orgID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan task id", slog.String("error", err.Error()))
			return nil, err
		}
		allowed[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return allowed, nil
}

// Create implements store.TaskStore.Create
// The organization row is locked first so the max(position) read and the
// insert are serialized per organization; two concurrent creates cannot
// observe the same maximum. Must run inside a transaction for the lock to
// hold until commit.
// Returns store.ErrOrganizationNotFound if the organization does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var lockedID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM organizations WHERE id = $1 FOR UPDATE`,
		task.OrganizationID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: id %d", store.ErrOrganizationNotFound, task.OrganizationID)
		}
		log.Error("failed to lock organization row",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", task.OrganizationID))
		return MapError(err)
	}

	query := `
		INSERT INTO tasks (title, category, done, position, organization_id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM tasks WHERE organization_id = $4),
			$4, $5, $6, $7)
		RETURNING id, position
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Category,
		task.Done,
		task.OrganizationID,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID, &task.Position)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", task.OrganizationID))
		return MapError(err)
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int("position", task.Position),
		slog.Int64("organization_id", task.OrganizationID))
	return nil
}

// UpdateFields implements store.TaskStore.UpdateFields
// Only the fields present in the patch are written; position is never touched.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) UpdateFields(ctx context.Context, id int64, patch domain.TaskPatch) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Empty() {
		return nil
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(strings.TrimSpace(*patch.Title)))
	}
	if patch.Category != nil {
		sets = append(sets, "category = "+arg(*patch.Category))
	}
	if patch.Done != nil {
		sets = append(sets, "done = "+arg(*patch.Done))
	}
	sets = append(sets, "updated_at = "+arg(time.Now().UTC()))

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = %s",
		strings.Join(sets, ", "), arg(id))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("task not found for update", slog.Int64("task_id", id))
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete
// Positions around the deleted task are left as-is; the resulting gap is
// reconciled on the next full reorder.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return store.ErrTaskNotFound
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// BulkSetPositions implements store.TaskStore.BulkSetPositions
// Must run inside a transaction; the per-row updates are only atomic as a
// group when the caller wraps them.
func (s *PostgresTaskStore) BulkSetPositions(ctx context.Context, positions map[int64]int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	for id, pos := range positions {
		_, err := s.db.ExecContext(ctx,
			`UPDATE tasks SET position = $1, updated_at = $2 WHERE id = $3`,
			pos, now, id,
		)
		if err != nil {
			log.Error("failed to set task position",
				slog.String("error", err.Error()),
				slog.Int64("task_id", id),
				slog.Int("position", pos))
			return MapError(err)
		}
	}
	return nil
}

// BackfillMissingPositions implements store.TaskStore.BackfillMissingPositions
// Rows that predate position tracking get position = id, which preserves
// their creation order. Idempotent.
func (s *PostgresTaskStore) BackfillMissingPositions(ctx context.Context, orgID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET position = id
		WHERE organization_id = $1 AND (position = 0 OR position IS NULL)
	`
	result, err := s.db.ExecContext(ctx, query, orgID)
	if err != nil {
		log.Error("failed to backfill task positions",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", orgID))
		return MapError(err)
	}

	if repaired, err := result.RowsAffected(); err == nil && repaired > 0 {
		log.Info("backfilled missing task positions",
			slog.Int64("organization_id", orgID),
			slog.Int64("repaired", repaired))
	}
	return nil
}

// WithTx implements store.TaskStore.WithTx
// It returns a new TaskStore instance that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}
