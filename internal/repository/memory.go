package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dkovalev/todo-service/internal/models"
)

// MemoryStore is an in-memory Store implementation backing the test suite
// and the memory database driver. It mirrors the Postgres repository's
// semantics: serial ids, unique username/email, (nil, nil) for absent rows.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]models.User
	todos      map[int64]models.Todo
	byUsername map[string]int64
	byEmail    map[string]int64
	nextUserID int64
	nextTodoID int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int64]models.User),
		todos:      make(map[int64]models.Todo),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
	}
}

var _ Store = (*MemoryStore)(nil)

// CreateUser stores a new user, enforcing the same uniqueness the database
// schema does
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[user.Username]; exists {
		return fmt.Errorf("create user %q: %w", user.Username, ErrDuplicate)
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return fmt.Errorf("create user %q: %w", user.Username, ErrDuplicate)
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.IsActive = true
	user.CreatedAt = time.Now()

	s.users[user.ID] = *user
	s.byUsername[user.Username] = user.ID
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetUserByID retrieves a user by id
func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username
func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, nil
	}
	u := s.users[id]
	return &u, nil
}

// GetUserByEmail retrieves a user by email
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := s.users[id]
	return &u, nil
}

// ListActiveUsers returns all active users ordered by id
func (s *MemoryStore) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.User
	for _, u := range s.users {
		if u.IsActive {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// CreateTodo stores a new todo owned by todo.UserID
func (s *MemoryStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTodoID++
	todo.ID = s.nextTodoID
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = nil

	s.todos[todo.ID] = *todo
	return nil
}

// GetTodo retrieves a todo scoped by both ids
func (s *MemoryStore) GetTodo(ctx context.Context, todoID, userID int64) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.todos[todoID]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	return &t, nil
}

// ListTodos returns the user's todos ordered by id with SQL-like paging:
// a negative offset reads from the start, limit <= 0 yields nothing.
func (s *MemoryStore) ListTodos(ctx context.Context, userID int64, offset, limit int, completed *bool) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var todos []models.Todo
	for _, t := range s.todos {
		if t.UserID != userID {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		todos = append(todos, t)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })

	if offset < 0 {
		offset = 0
	}
	if offset >= len(todos) || limit <= 0 {
		return nil, nil
	}
	todos = todos[offset:]
	if limit < len(todos) {
		todos = todos[:limit]
	}
	return todos, nil
}

// UpdateTodo writes the todo back, scoped by (id, user_id), and stamps the
// update time
func (s *MemoryStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.todos[todo.ID]
	if !ok || old.UserID != todo.UserID {
		return fmt.Errorf("failed to update todo %d: no matching row", todo.ID)
	}

	now := time.Now()
	todo.UpdatedAt = &now
	s.todos[todo.ID] = *todo
	return nil
}

// DeleteTodo removes a todo scoped by (id, user_id); false when no row matched
func (s *MemoryStore) DeleteTodo(ctx context.Context, todoID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[todoID]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(s.todos, todoID)
	return true, nil
}

// CountPendingTodos counts the user's incomplete todos
func (s *MemoryStore) CountPendingTodos(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.todos {
		if t.UserID == userID && !t.Completed {
			count++
		}
	}
	return count, nil
}
