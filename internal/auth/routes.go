package auth

import (
	"net/http"

	"github.com/gorilla/mux"

	"cesizen/internal/models"
)

// RegisterRoutes вешает auth-эндпоинты. Защита — per-route, как цепочка
// middleware в исходном API: гейт, затем (где нужно) authorize по роли.
func RegisterRoutes(r *mux.Router, h *Handler) {
	gate := Authenticate(h.issuer)
	adminOnly := Authorize(h.users, h.roles, models.RoleAdmin)

	sub := r.PathPrefix("/auth").Subrouter()
	sub.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	sub.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	sub.HandleFunc("/refresh", h.Refresh).Methods(http.MethodPost)

	sub.Handle("/register-admin",
		gate(adminOnly(http.HandlerFunc(h.RegisterAdmin)))).Methods(http.MethodPost)
	sub.Handle("/profile", gate(http.HandlerFunc(h.GetProfile))).Methods(http.MethodGet)
	sub.Handle("/profile", gate(http.HandlerFunc(h.UpdateProfile))).Methods(http.MethodPut)
	sub.Handle("/change-password", gate(http.HandlerFunc(h.ChangePassword))).Methods(http.MethodPut)
}
