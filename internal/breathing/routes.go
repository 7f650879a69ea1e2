package breathing

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes: чтение открыто (токен опционально расширяет видимость
// приватных конфигураций), запись конфигураций — за гейтом, типы — Admin.
func RegisterRoutes(r *mux.Router, h *Handler, gate, optional, adminOnly mux.MiddlewareFunc) {
	admin := func(fn http.HandlerFunc) http.Handler { return gate(adminOnly(fn)) }

	bt := r.PathPrefix("/breathing-types").Subrouter()
	bt.HandleFunc("", h.ListTypes).Methods(http.MethodGet)
	bt.HandleFunc("/{id:[0-9]+}", h.GetTypeByID).Methods(http.MethodGet)
	bt.Handle("", admin(h.CreateType)).Methods(http.MethodPost)
	bt.Handle("/{id:[0-9]+}", admin(h.UpdateType)).Methods(http.MethodPut)
	bt.Handle("/{id:[0-9]+}", admin(h.DeleteType)).Methods(http.MethodDelete)

	bc := r.PathPrefix("/breathing-configs").Subrouter()
	bc.Handle("", optional(http.HandlerFunc(h.ListConfigs))).Methods(http.MethodGet)
	bc.Handle("/{id:[0-9]+}", optional(http.HandlerFunc(h.GetConfigByID))).Methods(http.MethodGet)
	bc.Handle("", gate(http.HandlerFunc(h.CreateConfig))).Methods(http.MethodPost)
	bc.Handle("/{id:[0-9]+}", gate(http.HandlerFunc(h.UpdateConfig))).Methods(http.MethodPut)
	bc.Handle("/{id:[0-9]+}", gate(http.HandlerFunc(h.DeleteConfig))).Methods(http.MethodDelete)
}
