package api

import (
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service/audit"
)

// Common request/response structures

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
// Expiry travels inside the token's exp claim, not alongside it.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID int64 `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title    string `json:"title"    validate:"required,min=1,max=500"`
	Category string `json:"category" validate:"max=100"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields leave the stored value untouched.
type UpdateTaskRequest struct {
	Title    *string `json:"title,omitempty"    validate:"omitempty,min=1,max=500"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Done     *bool   `json:"done,omitempty"`
}

// Patch converts the request into a domain patch.
func (r UpdateTaskRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:    r.Title,
		Category: r.Category,
		Done:     r.Done,
	}
}

// ReorderTasksRequest defines the payload for the reorder endpoint. The ids
// express the desired display order, first id first.
type ReorderTasksRequest struct {
	IDs []int64 `json:"ids" validate:"required"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Done      bool      `json:"done"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskResponse maps a domain task to its wire representation. The
// organization id is deliberately absent: the caller already knows their own
// tenant and must never learn another's.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Category:  task.Category,
		Done:      task.Done,
		Position:  task.Position,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// NewTaskListResponse maps a slice of domain tasks, preserving order.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = NewTaskResponse(task)
	}
	return out
}

// AuditEntryResponse is the wire representation of an audit log entry.
type AuditEntryResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewAuditLogResponse maps recorder entries, newest first.
func NewAuditLogResponse(entries []audit.Entry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			ID:        e.ID.String(),
			Type:      e.Type,
			Data:      e.Data,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}
