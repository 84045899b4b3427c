package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/dkovalev/todo-service/internal/dto"
	"github.com/dkovalev/todo-service/internal/middleware"
	"github.com/dkovalev/todo-service/internal/service"
	"github.com/dkovalev/todo-service/internal/utils"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username, email, and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid email", "Email must be a valid address")
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			utils.WriteErrorResponse(w, http.StatusConflict, "User already exists", "Username or email already registered")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.NewUserResponse(user))
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Username and password are required")
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid username or password")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to log in", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, token)
}

// Me returns the authenticated user's own profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Missing authentication")
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get user", err.Error())
		return
	}
	if user == nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "User not found")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponse(user))
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
