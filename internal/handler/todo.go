package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dkovalev/todo-service/internal/dto"
	"github.com/dkovalev/todo-service/internal/export"
	"github.com/dkovalev/todo-service/internal/middleware"
	"github.com/dkovalev/todo-service/internal/utils"
)

const defaultListLimit = 100

// CreateTodo handles todo creation for the authenticated user
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Missing authentication")
		return
	}

	var req dto.TodoCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Title == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Title is required")
		return
	}

	todo, err := h.svc.CreateTodo(r.Context(), userID, req)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create todo", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.NewTodoResponse(todo))
}

// ListTodos returns the authenticated user's todos, with offset/limit paging
// and an optional completed filter
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Missing authentication")
		return
	}

	offset, limit, completed, err := listParams(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid query parameter", err.Error())
		return
	}

	todos, err := h.svc.ListTodos(r.Context(), userID, offset, limit, completed)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to list todos", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTodoListResponse(todos))
}

// GetTodo returns a single todo; 404 covers both nonexistence and foreign
// ownership
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Missing authentication")
		return
	}

	todoID, err := pathID(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid todo id", err.Error())
		return
	}

	todo, err := h.svc.GetTodo(r.Context(), todoID, userID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get todo", err.Error())
		return
	}
	if todo == nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "Todo not found")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTodoResponse(todo))
}

// UpdateTodo applies a partial update to a todo
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Missing authentication")
		return
	}

	todoID, err := pathID(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid todo id", err.Error())
		return
	}

	var req dto.TodoUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	todo, err := h.svc.UpdateTodo(r.Context(), todoID, userID, req)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update todo", err.Error())
		return
	}
	if todo == nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "Todo not found")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewTodoResponse(todo))
}

// DeleteTodo removes a todo; deleting an absent todo is a 404, not an error
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Missing authentication")
		return
	}

	todoID, err := pathID(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid todo id", err.Error())
		return
	}

	deleted, err := h.svc.DeleteTodo(r.Context(), todoID, userID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete todo", err.Error())
		return
	}
	if !deleted {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", "Todo not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportTodos renders the authenticated user's todos as an XML document.
// It takes the same paging parameters as ListTodos.
func (h *Handler) ExportTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Missing authentication")
		return
	}

	offset, limit, completed, err := listParams(r)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid query parameter", err.Error())
		return
	}

	todos, err := h.svc.ListTodos(r.Context(), userID, offset, limit, completed)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to export todos", err.Error())
		return
	}

	doc := export.Todos(userID, todos)
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	doc.WriteTo(w)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func listParams(r *http.Request) (offset, limit int, completed *bool, err error) {
	offset = 0
	limit = defaultListLimit
	q := r.URL.Query()

	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, nil, err
		}
	}
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, nil, err
		}
	}
	if v := q.Get("completed"); v != "" {
		c, err := strconv.ParseBool(v)
		if err != nil {
			return 0, 0, nil, err
		}
		completed = &c
	}
	return offset, limit, completed, nil
}
