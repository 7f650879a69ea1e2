package users

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes — всё под гейтом и authorize("Admin").
func RegisterRoutes(r *mux.Router, h *Handler, gate, adminOnly mux.MiddlewareFunc) {
	sub := r.PathPrefix("/users").Subrouter()
	sub.Use(gate, adminOnly)
	sub.HandleFunc("", h.List).Methods(http.MethodGet)
	sub.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
	sub.HandleFunc("/{id:[0-9]+}/status", h.SetStatus).Methods(http.MethodPut)
}
