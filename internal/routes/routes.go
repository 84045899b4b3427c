package routes

import (
	"github.com/gorilla/mux"

	"github.com/dkovalev/todo-service/internal/config"
	"github.com/dkovalev/todo-service/internal/handler"
	"github.com/dkovalev/todo-service/internal/middleware"
)

// SetupRoutes builds the application router: public registration, login and
// health endpoints plus a Bearer-token protected todo subrouter.
func SetupRoutes(h *handler.Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Protected routes
	me := r.PathPrefix("/me").Subrouter()
	me.Use(middleware.AuthMiddleware(cfg))
	me.HandleFunc("", h.Me).Methods("GET")

	authRouter := r.PathPrefix("/todos").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("", h.CreateTodo).Methods("POST")
	authRouter.HandleFunc("", h.ListTodos).Methods("GET")
	authRouter.HandleFunc("/export", h.ExportTodos).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}", h.GetTodo).Methods("GET")
	authRouter.HandleFunc("/{id:[0-9]+}", h.UpdateTodo).Methods("PATCH")
	authRouter.HandleFunc("/{id:[0-9]+}", h.DeleteTodo).Methods("DELETE")

	return r
}
