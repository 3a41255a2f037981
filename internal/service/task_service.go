package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service/audit"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/service/authz"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Bounded retry for write paths that can fail transiently under contention.
// Authorization failures are never retried.
const (
	maxWriteAttempts  = 3
	writeRetryBackoff = 50 * time.Millisecond
)

// TaskService exposes the task operations consumed by the API layer. Every
// method takes the authenticated identity claims; the claims are the only
// source of role and organization used for authorization and scoping.
type TaskService interface {
	// List returns the tasks of the caller's organization ordered by
	// (position, id). Any role may list; only authentication is required.
	List(ctx context.Context, identity *auth.Claims) ([]*domain.Task, error)

	// Create appends a task at the end of the caller's organization list.
	Create(ctx context.Context, identity *auth.Claims, title, category string) (*domain.Task, error)

	// Update applies a partial patch to the task. Absent fields are left
	// untouched; position never changes through Update.
	Update(ctx context.Context, identity *auth.Claims, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task. Deleting an absent task succeeds as a no-op.
	Delete(ctx context.Context, identity *auth.Claims, id int64) error

	// Reorder rewrites the positions of the submitted ids to 1..k in the
	// given order, atomically. Ids that don't exist or belong to another
	// organization are silently dropped. Ids omitted from the sequence keep
	// their previous position, so the caller is expected to submit the full
	// current id set in the desired order.
	Reorder(ctx context.Context, identity *auth.Claims, ids []int64) error
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	taskStore  store.TaskStore
	authorizer *authz.Authorizer
	audit      *audit.Recorder
	logger     *slog.Logger

	// runInTx wraps a function in a database transaction. Injectable so unit
	// tests can run against a fake store without a live database.
	runInTx func(ctx context.Context, fn store.TxFn) error
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskStore store.TaskStore,
	authorizer *authz.Authorizer,
	auditLog *audit.Recorder,
	db *sql.DB,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore:  taskStore,
		authorizer: authorizer,
		audit:      auditLog,
		logger:     logger.With("component", "task_service"),
		runInTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
	}
}

// orgOf extracts the caller's organization, rejecting identities without one.
func orgOf(identity *auth.Claims) (int64, error) {
	if identity == nil || identity.OrganizationID == nil {
		return 0, domain.ErrMissingOrganization
	}
	return *identity.OrganizationID, nil
}

// canWrite enforces the write gate: role at least admin AND the task's
// organization must be the caller's own. An owner of another organization is
// still forbidden; tenancy is independent of role.
func (s *TaskServiceImpl) canWrite(identity *auth.Claims, taskOrgID int64) error {
	if !identity.Role.AtLeast(domain.RoleAdmin) {
		return authz.ErrForbidden
	}
	if identity.OrganizationID == nil || *identity.OrganizationID != taskOrgID {
		return authz.ErrForbidden
	}
	return nil
}

// List implements TaskService.List.
//
// Before reading, it repairs any task in the organization whose position is
// zero or missing by setting position = id. The repair is an idempotent shim
// for rows that predate position tracking; valid positions are never touched.
func (s *TaskServiceImpl) List(ctx context.Context, identity *auth.Claims) ([]*domain.Task, error) {
	orgID, err := orgOf(identity)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.BackfillMissingPositions(ctx, orgID); err != nil {
		s.logger.Error("failed to backfill task positions",
			"error", err,
			"org_id", orgID)
		return nil, fmt.Errorf("failed to backfill task positions: %w", err)
	}

	tasks, err := s.taskStore.ListByOrganization(ctx, orgID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"org_id", orgID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Create implements TaskService.Create.
//
// The new task's position is max(position in organization)+1, computed and
// written inside one transaction so two concurrent creates in the same
// organization cannot observe the same maximum.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	identity *auth.Claims,
	title, category string,
) (*domain.Task, error) {
	if err := s.authorizer.Authorize(authz.OpTaskCreate, identity.Role); err != nil {
		return nil, err
	}
	orgID, err := orgOf(identity)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(title, category, orgID, identity.UserID)
	if err != nil {
		return nil, err
	}

	err = s.withWriteRetry(ctx, "create", func(ctx context.Context) error {
		return s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return s.taskStore.WithTx(tx).Create(ctx, task)
		})
	})
	if err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"org_id", orgID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.audit.Record(ctx, "task.create", map[string]any{
		"user_id": identity.UserID,
		"task_id": task.ID,
	})
	return task, nil
}

// Update implements TaskService.Update.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	identity *auth.Claims,
	id int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if err := s.authorizer.Authorize(authz.OpTaskUpdate, identity.Role); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canWrite(identity, task.OrganizationID); err != nil {
		return nil, err
	}

	if patch.Empty() {
		return task, nil
	}

	if err := s.taskStore.UpdateFields(ctx, id, patch); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", id)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "task.update", map[string]any{
		"user_id": identity.UserID,
		"task_id": id,
	})
	return updated, nil
}

// Delete implements TaskService.Delete. Deleting a task that does not exist
// is a success no-op; positions around a deleted task are not compacted.
func (s *TaskServiceImpl) Delete(ctx context.Context, identity *auth.Claims, id int64) error {
	if err := s.authorizer.Authorize(authz.OpTaskDelete, identity.Role); err != nil {
		return err
	}

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil
		}
		return err
	}
	if err := s.canWrite(identity, task.OrganizationID); err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil
		}
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.audit.Record(ctx, "task.delete", map[string]any{
		"user_id": identity.UserID,
		"task_id": id,
	})
	return nil
}

// Reorder implements TaskService.Reorder.
//
// The submitted ids are filtered to those that exist in the caller's
// organization; survivors get position = their index+1 in the filtered
// sequence. All position writes happen in a single transaction, so a failure
// rolls the organization back to its pre-reorder state.
func (s *TaskServiceImpl) Reorder(ctx context.Context, identity *auth.Claims, ids []int64) error {
	if err := s.authorizer.Authorize(authz.OpTaskReorder, identity.Role); err != nil {
		return err
	}
	orgID, err := orgOf(identity)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	err = s.withWriteRetry(ctx, "reorder", func(ctx context.Context) error {
		return s.runInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.taskStore.WithTx(tx)

			allowed, err := txStore.FilterIDsByOrganization(ctx, orgID, ids)
			if err != nil {
				return err
			}

			positions := make(map[int64]int, len(allowed))
			pos := 0
			seen := make(map[int64]struct{}, len(ids))
			for _, id := range ids {
				if _, ok := allowed[id]; !ok {
					continue // ignore foreign or unknown ids
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				pos++
				positions[id] = pos
			}
			if len(positions) == 0 {
				return nil
			}

			return txStore.BulkSetPositions(ctx, positions)
		})
	})
	if err != nil {
		s.logger.Error("failed to reorder tasks",
			"error", err,
			"org_id", orgID)
		return fmt.Errorf("failed to reorder tasks: %w", err)
	}

	s.audit.Record(ctx, "task.reorder", map[string]any{
		"user_id": identity.UserID,
		"ids":     ids,
	})
	return nil
}

// withWriteRetry runs fn, retrying a bounded number of times with linear
// backoff when the store reports a transient failure (lock contention,
// serialization conflicts). Any other error returns immediately.
func (s *TaskServiceImpl) withWriteRetry(
	ctx context.Context,
	op string,
	fn func(ctx context.Context) error,
) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, store.ErrTransient) {
			return err
		}
		if attempt == maxWriteAttempts {
			break
		}

		s.logger.Warn("transient store failure, retrying",
			"op", op,
			"attempt", attempt,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * writeRetryBackoff):
		}
	}
	return err
}
