package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/store"
	"github.com/taskdeck/taskdeck-api/internal/testdb"
)

// createTestOrganization inserts a fresh organization so each test works in
// its own tenant and leaves other rows in a shared database untouched.
func createTestOrganization(t *testing.T, db *sql.DB) *domain.Organization {
	t.Helper()
	now := time.Now().UTC()
	org := &domain.Organization{
		Name:      "org-" + uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	orgStore := postgres.NewPostgresOrganizationStore(db, nil)
	require.NoError(t, orgStore.Create(context.Background(), org))
	return org
}

func createTestTask(t *testing.T, db *sql.DB, taskStore *postgres.PostgresTaskStore, orgID int64, title string) *domain.Task {
	t.Helper()
	now := time.Now().UTC()
	task := &domain.Task{
		Title:          title,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return taskStore.WithTx(tx).Create(ctx, task)
	})
	require.NoError(t, err)
	return task
}

// Concurrent creates in one organization must serialize on the organization
// row lock so every task gets a distinct position.
func TestTaskStoreConcurrentCreatePositions(t *testing.T) {
	t.Parallel()

	db := testdb.Get(t)
	org := createTestOrganization(t, db)
	taskStore := postgres.NewPostgresTaskStore(db, nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			now := time.Now().UTC()
			task := &domain.Task{
				Title:          fmt.Sprintf("concurrent %d", n),
				OrganizationID: org.ID,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			errs[n] = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
				return taskStore.WithTx(tx).Create(ctx, task)
			})
		}(i)
	}
	wg.Wait()

	for n, err := range errs {
		require.NoError(t, err, "worker %d", n)
	}

	tasks, err := taskStore.ListByOrganization(context.Background(), org.ID)
	require.NoError(t, err)
	require.Len(t, tasks, workers)
	for i, task := range tasks {
		assert.Equal(t, i+1, task.Position, "positions must form a dense unique sequence")
	}
}

// A position write batch that fails partway through must leave no partial
// state behind once its transaction rolls back.
func TestTaskStorePositionWritesRollBack(t *testing.T) {
	t.Parallel()

	db := testdb.Get(t)
	org := createTestOrganization(t, db)
	taskStore := postgres.NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		task := createTestTask(t, db, taskStore, org.ID, fmt.Sprintf("task %d", i))
		ids = append(ids, task.ID)
	}

	failure := errors.New("batch abandoned after a partial write")
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := taskStore.WithTx(tx)
		if err := txStore.BulkSetPositions(ctx, map[int64]int{ids[0]: 99}); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	tasks, err := taskStore.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, ids[i], task.ID)
		assert.Equal(t, i+1, task.Position, "rolled back writes must leave positions untouched")
	}
}

// End-to-end reorder through raw store calls: filter, renumber, commit.
func TestTaskStoreReorderRoundTrip(t *testing.T) {
	t.Parallel()

	db := testdb.Get(t)
	org := createTestOrganization(t, db)
	taskStore := postgres.NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	a := createTestTask(t, db, taskStore, org.ID, "A")
	b := createTestTask(t, db, taskStore, org.ID, "B")
	c := createTestTask(t, db, taskStore, org.ID, "C")

	desired := []int64{c.ID, a.ID, b.ID}
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := taskStore.WithTx(tx)
		allowed, err := txStore.FilterIDsByOrganization(ctx, org.ID, desired)
		if err != nil {
			return err
		}
		positions := make(map[int64]int, len(allowed))
		next := 1
		for _, id := range desired {
			if _, ok := allowed[id]; ok {
				positions[id] = next
				next++
			}
		}
		return txStore.BulkSetPositions(ctx, positions)
	})
	require.NoError(t, err)

	tasks, err := taskStore.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int64{c.ID, a.ID, b.ID}, []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}
