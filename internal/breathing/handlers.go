package breathing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cesizen/internal/auth"
	"cesizen/internal/models"
	"cesizen/internal/repo"
)

type Handler struct {
	types   *repo.BreathingTypeStore
	configs *repo.BreathingConfigStore
}

func NewHandler(types *repo.BreathingTypeStore, configs *repo.BreathingConfigStore) *Handler {
	return &Handler{types: types, configs: configs}
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ---------- Types (справочник) ----------

type typeRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// GET /breathing-types
func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.types.List(r.Context())
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

// GET /breathing-types/{id}
func (h *Handler) GetTypeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	t, err := h.types.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Type d'exercice respiratoire non trouvé")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, t)
}

// POST /breathing-types (Admin)
func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	t := &models.BreathingExerciseType{Name: req.Name, Description: req.Description}
	if err := h.types.Create(r.Context(), t); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			models.WriteMessage(w, http.StatusBadRequest, "Un type avec ce nom existe déjà")
			return
		}
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Type créé avec succès",
		"type":    t,
	})
}

// PUT /breathing-types/{id} (Admin)
func (h *Handler) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	var req typeRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.types.Update(r.Context(), id, map[string]any{
		"name":        req.Name,
		"description": req.Description,
	})
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Type d'exercice respiratoire non trouvé")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Type mis à jour avec succès",
		"type":    t,
	})
}

// DELETE /breathing-types/{id} (Admin)
func (h *Handler) DeleteType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	if err := h.types.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			models.WriteMessage(w, http.StatusNotFound, "Type d'exercice respiratoire non trouvé")
			return
		}
		models.WriteServerError(w, err)
		return
	}
	models.WriteMessage(w, http.StatusOK, "Type supprimé avec succès")
}

// ---------- Configurations ----------

type configRequest struct {
	Name           string `json:"name" validate:"required,max=255"`
	InhaleTime     int    `json:"inhaleTime" validate:"required,gt=0"`
	HoldInhaleTime int    `json:"holdInhaleTime" validate:"gte=0"`
	ExhaleTime     int    `json:"exhaleTime" validate:"required,gt=0"`
	HoldExhaleTime int    `json:"holdExhaleTime" validate:"gte=0"`
	Cycles         int    `json:"cycles" validate:"required,gt=0"`
	Description    string `json:"description"`
	IsPublic       bool   `json:"isPublic"`
	TypeID         uint   `json:"typeId" validate:"required"`
}

// GET /breathing-configs — публичные, плюс собственные при валидном токене.
func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	var userID uint
	if claims, ok := auth.ClaimsFrom(r); ok {
		userID = claims.UserID
	}
	rows, err := h.configs.ListVisible(r.Context(), userID)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

// GET /breathing-configs/{id} — приватная конфигурация видна только владельцу.
func (h *Handler) GetConfigByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	c, err := h.configs.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Configuration d'exercice respiratoire non trouvée")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if !c.IsPublic {
		claims, ok := auth.ClaimsFrom(r)
		if !ok || claims.UserID != c.UserID {
			models.WriteMessage(w, http.StatusForbidden, "Vous n'avez pas accès à cette configuration privée")
			return
		}
	}
	models.WriteJSON(w, http.StatusOK, c)
}

// POST /breathing-configs (аутентифицировано; владелец — автор запроса)
func (h *Handler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r)
	if !ok {
		models.WriteMessage(w, http.StatusUnauthorized, auth.MsgNotAuthenticated)
		return
	}
	var req configRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.types.FindByID(r.Context(), req.TypeID); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, "Le type spécifié n'existe pas")
		return
	}
	c, err := h.configs.Create(r.Context(), &models.BreathingExerciseConfiguration{
		Name:           req.Name,
		InhaleTime:     req.InhaleTime,
		HoldInhaleTime: req.HoldInhaleTime,
		ExhaleTime:     req.ExhaleTime,
		HoldExhaleTime: req.HoldExhaleTime,
		Cycles:         req.Cycles,
		Description:    req.Description,
		IsPublic:       req.IsPublic,
		TypeID:         req.TypeID,
		UserID:         claims.UserID,
	})
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":       "Configuration créée avec succès",
		"configuration": c,
	})
}

func (h *Handler) ownedConfig(w http.ResponseWriter, r *http.Request) (*models.BreathingExerciseConfiguration, bool) {
	claims, ok := auth.ClaimsFrom(r)
	if !ok {
		models.WriteMessage(w, http.StatusUnauthorized, auth.MsgNotAuthenticated)
		return nil, false
	}
	id, idOK := pathID(r)
	if !idOK {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return nil, false
	}
	c, err := h.configs.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Configuration d'exercice respiratoire non trouvée")
		return nil, false
	}
	if err != nil {
		models.WriteServerError(w, err)
		return nil, false
	}
	if c.UserID != claims.UserID {
		models.WriteMessage(w, http.StatusForbidden, "Cette configuration ne vous appartient pas")
		return nil, false
	}
	return c, true
}

// PUT /breathing-configs/{id} (только владелец)
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	c, ok := h.ownedConfig(w, r)
	if !ok {
		return
	}
	var req configRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.types.FindByID(r.Context(), req.TypeID); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, "Le type spécifié n'existe pas")
		return
	}
	c, err := h.configs.Update(r.Context(), c.ID, map[string]any{
		"name":             req.Name,
		"inhale_time":      req.InhaleTime,
		"hold_inhale_time": req.HoldInhaleTime,
		"exhale_time":      req.ExhaleTime,
		"hold_exhale_time": req.HoldExhaleTime,
		"cycles":           req.Cycles,
		"description":      req.Description,
		"is_public":        req.IsPublic,
		"type_id":          req.TypeID,
	})
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message":       "Configuration mise à jour avec succès",
		"configuration": c,
	})
}

// DELETE /breathing-configs/{id} (только владелец)
func (h *Handler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	c, ok := h.ownedConfig(w, r)
	if !ok {
		return
	}
	if err := h.configs.Delete(r.Context(), c.ID); err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteMessage(w, http.StatusOK, "Configuration supprimée avec succès")
}
