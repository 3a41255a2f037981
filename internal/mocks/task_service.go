package mocks

import (
	"context"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	// ListFn allows test cases to mock the List behavior
	ListFn func(ctx context.Context, identity *auth.Claims) ([]*domain.Task, error)

	// CreateFn allows test cases to mock the Create behavior
	CreateFn func(ctx context.Context, identity *auth.Claims, title, category string) (*domain.Task, error)

	// UpdateFn allows test cases to mock the Update behavior
	UpdateFn func(ctx context.Context, identity *auth.Claims, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteFn allows test cases to mock the Delete behavior
	DeleteFn func(ctx context.Context, identity *auth.Claims, id int64) error

	// ReorderFn allows test cases to mock the Reorder behavior
	ReorderFn func(ctx context.Context, identity *auth.Claims, ids []int64) error

	// Default values used when functions aren't explicitly defined
	Task  *domain.Task
	Tasks []*domain.Task
	Err   error
}

var _ service.TaskService = (*MockTaskService)(nil)

// List implements the service.TaskService interface
func (m *MockTaskService) List(ctx context.Context, identity *auth.Claims) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, identity)
	}
	return m.Tasks, m.Err
}

// Create implements the service.TaskService interface
func (m *MockTaskService) Create(
	ctx context.Context,
	identity *auth.Claims,
	title, category string,
) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, identity, title, category)
	}
	return m.Task, m.Err
}

// Update implements the service.TaskService interface
func (m *MockTaskService) Update(
	ctx context.Context,
	identity *auth.Claims,
	id int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, identity, id, patch)
	}
	return m.Task, m.Err
}

// Delete implements the service.TaskService interface
func (m *MockTaskService) Delete(ctx context.Context, identity *auth.Claims, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, identity, id)
	}
	return m.Err
}

// Reorder implements the service.TaskService interface
func (m *MockTaskService) Reorder(ctx context.Context, identity *auth.Claims, ids []int64) error {
	if m.ReorderFn != nil {
		return m.ReorderFn(ctx, identity, ids)
	}
	return m.Err
}
