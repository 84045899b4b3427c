package dto

import (
	"time"

	"github.com/dkovalev/todo-service/internal/models"
)

// TodoCreateRequest is the payload for creating a todo. Completed defaults
// to false when omitted.
type TodoCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
}

// TodoUpdateRequest is the payload for a partial update. Every field is
// optional; omitted fields are left untouched and explicit nulls are applied
// as given.
type TodoUpdateRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
}

// Empty reports whether the request carries no fields at all.
func (r TodoUpdateRequest) Empty() bool {
	return !r.Title.Set && !r.Description.Set && !r.Completed.Set
}

// TodoResponse is the outward-facing todo representation
type TodoResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

// NewTodoResponse converts a todo entity into its response form
func NewTodoResponse(t *models.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.UpdatedAt != nil {
		updated := t.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	return resp
}

// NewTodoListResponse converts a todo slice, returning an empty (non-nil)
// slice for empty input so lists serialize as [] rather than null.
func NewTodoListResponse(todos []models.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, NewTodoResponse(&todos[i]))
	}
	return out
}
