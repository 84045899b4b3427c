package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkovalev/todo-service/internal/config"
	"github.com/dkovalev/todo-service/internal/dto"
	"github.com/dkovalev/todo-service/internal/middleware"
	"github.com/dkovalev/todo-service/internal/models"
	"github.com/dkovalev/todo-service/internal/repository"
	"github.com/dkovalev/todo-service/internal/utils/email"
)

// ErrUserExists is returned when a registration collides with an existing
// username or email.
var ErrUserExists = errors.New("username or email already taken")

// ErrInvalidCredentials is returned for both unknown users and wrong
// passwords, so a login failure never reveals which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service handles business logic
type Service struct {
	store  repository.Store
	log    *logrus.Logger
	config *config.Config
	mail   *email.Sender // nil when SMTP is unconfigured
}

// NewService initializes a new service
func NewService(store repository.Store, log *logrus.Logger, cfg *config.Config, mail *email.Sender) *Service {
	return &Service{store: store, log: log, config: cfg, mail: mail}
}

// Register creates a new user with a bcrypt-hashed password. Uniqueness is
// enforced by the store's constraints rather than a pre-check read; the
// duplicate error is translated here.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	if s.mail != nil {
		if err := s.mail.SendWelcome(user.Email, user.Username); err != nil {
			s.log.Warnf("Welcome email to %s failed: %v", user.Email, err)
		}
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates a user and returns an access token
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenString, err := middleware.GenerateToken(user.ID, user.Username, s.config)
	if err != nil {
		return nil, err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return &dto.TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		UserID:      user.ID,
	}, nil
}

// GetUser looks up a user by id; (nil, nil) when absent
func (s *Service) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// CreateTodo persists a new todo owned by userID
func (s *Service) CreateTodo(ctx context.Context, userID int64, req dto.TodoCreateRequest) (*models.Todo, error) {
	todo := &models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if err := s.store.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.log.Infof("Todo %d created for user %d", todo.ID, userID)
	return todo, nil
}

// GetTodo looks up a todo scoped to its owner; (nil, nil) when absent or
// owned by someone else
func (s *Service) GetTodo(ctx context.Context, todoID, userID int64) (*models.Todo, error) {
	return s.store.GetTodo(ctx, todoID, userID)
}

// ListTodos returns the user's todos with paging and an optional completed
// filter
func (s *Service) ListTodos(ctx context.Context, userID int64, offset, limit int, completed *bool) ([]models.Todo, error) {
	return s.store.ListTodos(ctx, userID, offset, limit, completed)
}

// UpdateTodo applies a partial update: ownership is revalidated first, then
// only the fields present in the request are merged onto the stored record.
// An empty request returns the record untouched without writing. Returns
// (nil, nil) when the todo is absent.
func (s *Service) UpdateTodo(ctx context.Context, todoID, userID int64, req dto.TodoUpdateRequest) (*models.Todo, error) {
	todo, err := s.store.GetTodo(ctx, todoID, userID)
	if err != nil || todo == nil {
		return nil, err
	}

	if req.Empty() {
		return todo, nil
	}

	if req.Title.Set {
		todo.Title = req.Title.Value
	}
	if req.Description.Set {
		if req.Description.Null {
			todo.Description = nil
		} else {
			value := req.Description.Value
			todo.Description = &value
		}
	}
	if req.Completed.Set {
		todo.Completed = req.Completed.Value
	}

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.log.Infof("Todo %d updated for user %d", todoID, userID)
	return todo, nil
}

// DeleteTodo removes a todo after revalidating ownership; false when there
// was nothing to delete
func (s *Service) DeleteTodo(ctx context.Context, todoID, userID int64) (bool, error) {
	deleted, err := s.store.DeleteTodo(ctx, todoID, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Infof("Todo %d deleted for user %d", todoID, userID)
	}
	return deleted, nil
}
