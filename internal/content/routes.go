package content

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes: чтение открыто, запись — за гейтом + authorize("Admin").
func RegisterRoutes(r *mux.Router, h *Handler, gate, adminOnly mux.MiddlewareFunc) {
	admin := func(fn http.HandlerFunc) http.Handler { return gate(adminOnly(fn)) }

	c := r.PathPrefix("/contents").Subrouter()
	c.HandleFunc("", h.List).Methods(http.MethodGet)
	c.HandleFunc("/{id:[0-9]+}", h.GetByID).Methods(http.MethodGet)
	c.HandleFunc("/slug/{slug}", h.GetBySlug).Methods(http.MethodGet)
	c.Handle("", admin(h.Create)).Methods(http.MethodPost)
	c.Handle("/{id:[0-9]+}", admin(h.Update)).Methods(http.MethodPut)
	c.Handle("/{id:[0-9]+}/publish", admin(h.TogglePublish)).Methods(http.MethodPatch)
	c.Handle("/{id:[0-9]+}", admin(h.Delete)).Methods(http.MethodDelete)

	cc := r.PathPrefix("/content-categories").Subrouter()
	cc.HandleFunc("", h.ListCategories).Methods(http.MethodGet)
	cc.HandleFunc("/{id:[0-9]+}", h.GetCategoryByID).Methods(http.MethodGet)
	cc.HandleFunc("/slug/{slug}", h.GetCategoryBySlug).Methods(http.MethodGet)
	cc.HandleFunc("/{id:[0-9]+}/contents", h.CategoryContents).Methods(http.MethodGet)
	cc.Handle("", admin(h.CreateCategory)).Methods(http.MethodPost)
	cc.Handle("/{id:[0-9]+}", admin(h.UpdateCategory)).Methods(http.MethodPut)
	cc.Handle("/{id:[0-9]+}", admin(h.DeleteCategory)).Methods(http.MethodDelete)
}
