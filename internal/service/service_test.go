package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkovalev/todo-service/internal/config"
	"github.com/dkovalev/todo-service/internal/dto"
	"github.com/dkovalev/todo-service/internal/models"
	"github.com/dkovalev/todo-service/internal/repository"
	"github.com/dkovalev/todo-service/internal/service"

	"github.com/sirupsen/logrus"
)

func newService(t *testing.T) (*service.Service, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	return service.NewService(store, log, cfg, nil), store
}

func register(t *testing.T, svc *service.Service, username, email, password string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return user
}

func TestRegister(t *testing.T) {
	svc, _ := newService(t)
	user := register(t, svc, "alice", "alice@x.com", "secret")

	if user.Username != "alice" || user.Email != "alice@x.com" {
		t.Errorf("user = %+v, want alice/alice@x.com", user)
	}
	if user.ID == 0 {
		t.Error("Register did not assign an id")
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}
	if user.PasswordHash == "secret" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")); err != nil {
		t.Errorf("stored hash does not verify against the password: %v", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc, "alice", "alice@x.com", "secret")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice", Email: "new@x.com", Password: "secret",
	})
	if !errors.Is(err, service.ErrUserExists) {
		t.Errorf("duplicate username: got %v, want ErrUserExists", err)
	}

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice2", Email: "alice@x.com", Password: "secret",
	})
	if !errors.Is(err, service.ErrUserExists) {
		t.Errorf("duplicate email: got %v, want ErrUserExists", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	user := register(t, svc, "alice", "alice@x.com", "secret")

	token, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token.AccessToken == "" {
		t.Error("empty access token")
	}
	if token.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", token.TokenType)
	}
	if token.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", token.UserID, user.ID)
	}
}

func TestLogin_Invalid(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc, "alice", "alice@x.com", "secret")

	// Wrong password and unknown user must be indistinguishable
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "secret"})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestCreateTodo_Defaults(t *testing.T) {
	svc, _ := newService(t)
	alice := register(t, svc, "alice", "alice@x.com", "secret")

	todo, err := svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{Title: "buy milk"})
	if err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}
	if todo.Completed {
		t.Error("completed should default to false")
	}
	if todo.Description != nil {
		t.Errorf("description = %v, want nil", *todo.Description)
	}
	if todo.UserID != alice.ID {
		t.Errorf("UserID = %d, want %d", todo.UserID, alice.ID)
	}
	if todo.UpdatedAt != nil {
		t.Error("fresh todo should have nil updated_at")
	}
}

func TestUpdateTodo_PartialFields(t *testing.T) {
	svc, _ := newService(t)
	alice := register(t, svc, "alice", "alice@x.com", "secret")

	desc := "two liters"
	todo, err := svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{
		Title:       "buy milk",
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	updated, err := svc.UpdateTodo(context.Background(), todo.ID, alice.ID, dto.TodoUpdateRequest{
		Completed: dto.Optional[bool]{Set: true, Value: true},
	})
	if err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}
	if !updated.Completed {
		t.Error("completed not applied")
	}
	if updated.Title != "buy milk" {
		t.Errorf("title changed to %q, want untouched", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "two liters" {
		t.Errorf("description changed to %v, want untouched", updated.Description)
	}
	if updated.UpdatedAt == nil {
		t.Error("updated_at not stamped")
	}
}

func TestUpdateTodo_EmptyRequestIsNoop(t *testing.T) {
	svc, store := newService(t)
	alice := register(t, svc, "alice", "alice@x.com", "secret")
	todo, _ := svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{Title: "buy milk"})

	updated, err := svc.UpdateTodo(context.Background(), todo.ID, alice.ID, dto.TodoUpdateRequest{})
	if err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}
	if updated.Title != "buy milk" || updated.Completed {
		t.Errorf("record changed by empty update: %+v", updated)
	}

	// No write happened, so the stored record keeps a nil update timestamp
	stored, _ := store.GetTodo(context.Background(), todo.ID, alice.ID)
	if stored.UpdatedAt != nil {
		t.Error("empty update wrote to the store")
	}
}

func TestUpdateTodo_NullClearsDescription(t *testing.T) {
	svc, _ := newService(t)
	alice := register(t, svc, "alice", "alice@x.com", "secret")

	desc := "two liters"
	todo, _ := svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{
		Title:       "buy milk",
		Description: &desc,
	})

	updated, err := svc.UpdateTodo(context.Background(), todo.ID, alice.ID, dto.TodoUpdateRequest{
		Description: dto.Optional[string]{Set: true, Null: true},
	})
	if err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}
	if updated.Description != nil {
		t.Errorf("description = %v, want cleared", *updated.Description)
	}
}

func TestUpdateTodo_Absent(t *testing.T) {
	svc, _ := newService(t)
	alice := register(t, svc, "alice", "alice@x.com", "secret")
	bob := register(t, svc, "bob", "bob@x.com", "secret")
	todo, _ := svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{Title: "buy milk"})

	// Missing id and foreign owner both come back as (nil, nil)
	got, err := svc.UpdateTodo(context.Background(), 999, alice.ID, dto.TodoUpdateRequest{})
	if got != nil || err != nil {
		t.Errorf("missing todo: got (%v, %v), want (nil, nil)", got, err)
	}
	got, err = svc.UpdateTodo(context.Background(), todo.ID, bob.ID, dto.TodoUpdateRequest{
		Completed: dto.Optional[bool]{Set: true, Value: true},
	})
	if got != nil || err != nil {
		t.Errorf("foreign todo: got (%v, %v), want (nil, nil)", got, err)
	}

	// And the record is untouched
	stored, _ := svc.GetTodo(context.Background(), todo.ID, alice.ID)
	if stored.Completed {
		t.Error("foreign update modified the record")
	}
}

func TestDeleteTodo_Lifecycle(t *testing.T) {
	svc, _ := newService(t)
	alice := register(t, svc, "alice", "alice@x.com", "secret")
	todo, _ := svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{Title: "buy milk"})

	deleted, err := svc.DeleteTodo(context.Background(), todo.ID, alice.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteTodo = (%v, %v), want (true, nil)", deleted, err)
	}

	got, err := svc.GetTodo(context.Background(), todo.ID, alice.ID)
	if got != nil || err != nil {
		t.Errorf("GetTodo after delete = (%v, %v), want (nil, nil)", got, err)
	}

	deleted, err = svc.DeleteTodo(context.Background(), todo.ID, alice.ID)
	if err != nil || deleted {
		t.Errorf("second DeleteTodo = (%v, %v), want (false, nil)", deleted, err)
	}
}

func TestListTodos_FilterAndIsolation(t *testing.T) {
	svc, _ := newService(t)
	alice := register(t, svc, "alice", "alice@x.com", "secret")
	bob := register(t, svc, "bob", "bob@x.com", "secret")

	svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{Title: "open"})
	svc.CreateTodo(context.Background(), alice.ID, dto.TodoCreateRequest{Title: "done", Completed: true})
	svc.CreateTodo(context.Background(), bob.ID, dto.TodoCreateRequest{Title: "bobs done", Completed: true})

	completed := true
	todos, err := svc.ListTodos(context.Background(), alice.ID, 0, 100, &completed)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "done" {
		t.Errorf("ListTodos = %v, want only alice's completed todo", todos)
	}
}
