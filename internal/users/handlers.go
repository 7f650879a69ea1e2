package users

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cesizen/internal/models"
	"cesizen/internal/repo"
)

// Store — административные операции над пользователями.
type Store interface {
	GetAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	SetActiveStatus(ctx context.Context, id uint, active bool) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler { return &Handler{store: store} }

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// GET /users — список без паролей.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.GetAll(r.Context())
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	views := make([]models.UserView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].View())
	}
	models.WriteJSON(w, http.StatusOK, views)
}

// DELETE /users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	deleted, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Utilisateur non trouvé.")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "Utilisateur supprimé avec succès",
		"deletedUser": deleted.View(),
	})
}

type statusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// PUT /users/{id}/status — флип isActive; выключенный аккаунт отсекается
// авторизацией уже на следующем запросе, не дожидаясь истечения токена.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	var req statusRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SetActiveStatus(r.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			models.WriteMessage(w, http.StatusNotFound, "Utilisateur non trouvé.")
			return
		}
		models.WriteServerError(w, err)
		return
	}
	user, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Statut mis à jour avec succès",
		"user":    user.View(),
	})
}
