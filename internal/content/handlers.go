package content

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"

	"cesizen/internal/models"
	"cesizen/internal/repo"
)

type Handler struct {
	contents   *repo.ContentStore
	categories *repo.CategoryStore
}

func NewHandler(contents *repo.ContentStore, categories *repo.CategoryStore) *Handler {
	return &Handler{contents: contents, categories: categories}
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ---------- Contents ----------

type createContentRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	Slug       string `json:"slug" validate:"omitempty,max=255"`
	Content    string `json:"content" validate:"required"`
	Published  *bool  `json:"published"`
	CategoryID uint   `json:"categoryId" validate:"required"`
}

type updateContentRequest struct {
	Title      *string `json:"title" validate:"omitempty,max=255"`
	Slug       *string `json:"slug" validate:"omitempty,max=255"`
	Content    *string `json:"content"`
	Published  *bool   `json:"published"`
	CategoryID *uint   `json:"categoryId"`
}

// GET /contents?published=true|false
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var published *bool
	if v := r.URL.Query().Get("published"); v != "" {
		b := v == "true"
		published = &b
	}
	rows, err := h.contents.List(r.Context(), published)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

// GET /contents/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	c, err := h.contents.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Contenu non trouvé")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

// GET /contents/slug/{slug}
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.contents.FindBySlug(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Contenu non trouvé")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

// POST /contents (Admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContentRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	s := req.Slug
	if s == "" {
		s = slug.Make(req.Title)
	}
	exists, err := h.contents.SlugExists(r.Context(), s, 0)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if exists {
		models.WriteMessage(w, http.StatusBadRequest, "Un contenu avec ce slug existe déjà")
		return
	}
	if _, err := h.categories.FindByID(r.Context(), req.CategoryID); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, "La catégorie spécifiée n'existe pas")
		return
	}
	published := false
	if req.Published != nil {
		published = *req.Published
	}
	c, err := h.contents.Create(r.Context(), &models.Content{
		Title:      req.Title,
		Slug:       s,
		Content:    req.Content,
		Published:  published,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Contenu créé avec succès",
		"content": c,
	})
}

// PUT /contents/{id} (Admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	var req updateContentRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.contents.FindByID(r.Context(), id); errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Contenu non trouvé")
		return
	}
	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Slug != nil {
		exists, err := h.contents.SlugExists(r.Context(), *req.Slug, id)
		if err != nil {
			models.WriteServerError(w, err)
			return
		}
		if exists {
			models.WriteMessage(w, http.StatusBadRequest, "Un contenu avec ce slug existe déjà")
			return
		}
		patch["slug"] = *req.Slug
	}
	if req.Content != nil {
		patch["content"] = *req.Content
	}
	if req.Published != nil {
		patch["published"] = *req.Published
	}
	if req.CategoryID != nil {
		if _, err := h.categories.FindByID(r.Context(), *req.CategoryID); err != nil {
			models.WriteMessage(w, http.StatusBadRequest, "La catégorie spécifiée n'existe pas")
			return
		}
		patch["category_id"] = *req.CategoryID
	}
	c, err := h.contents.Update(r.Context(), id, patch)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Contenu mis à jour avec succès",
		"content": c,
	})
}

// PATCH /contents/{id}/publish (Admin)
func (h *Handler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	c, err := h.contents.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Contenu non trouvé")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	c, err = h.contents.Update(r.Context(), id, map[string]any{"published": !c.Published})
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Statut de publication mis à jour",
		"content": c,
	})
}

// DELETE /contents/{id} (Admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	if err := h.contents.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			models.WriteMessage(w, http.StatusNotFound, "Contenu non trouvé")
			return
		}
		models.WriteServerError(w, err)
		return
	}
	models.WriteMessage(w, http.StatusOK, "Contenu supprimé avec succès")
}

// ---------- Categories ----------

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	Description string `json:"description"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

// GET /content-categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.categories.List(r.Context())
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

// GET /content-categories/{id}
func (h *Handler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	c, err := h.categories.FindByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Catégorie non trouvée")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

// GET /content-categories/slug/{slug}
func (h *Handler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.FindBySlug(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Catégorie non trouvée")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, c)
}

// GET /content-categories/{id}/contents — опубликованные статьи рубрики.
func (h *Handler) CategoryContents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	rows, err := h.categories.ContentsOf(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Catégorie non trouvée")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

// POST /content-categories (Admin)
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	s := req.Slug
	if s == "" {
		s = slug.Make(req.Name)
	}
	if _, err := h.categories.FindBySlug(r.Context(), s); err == nil {
		models.WriteMessage(w, http.StatusBadRequest, "Une catégorie avec ce slug existe déjà")
		return
	}
	c, err := h.categories.Create(r.Context(), &models.ContentCategory{
		Name:        req.Name,
		Slug:        s,
		Description: req.Description,
	})
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "Catégorie créée avec succès",
		"category": c,
	})
}

// PUT /content-categories/{id} (Admin)
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	var req updateCategoryRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Slug != nil {
		if other, err := h.categories.FindBySlug(r.Context(), *req.Slug); err == nil && other.ID != id {
			models.WriteMessage(w, http.StatusBadRequest, "Une catégorie avec ce slug existe déjà")
			return
		}
		patch["slug"] = *req.Slug
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	c, err := h.categories.Update(r.Context(), id, patch)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, "Catégorie non trouvée")
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Catégorie mise à jour avec succès",
		"category": c,
	})
}

// DELETE /content-categories/{id} (Admin)
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		models.WriteMessage(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			models.WriteMessage(w, http.StatusNotFound, "Catégorie non trouvée")
			return
		}
		models.WriteServerError(w, err)
		return
	}
	models.WriteMessage(w, http.StatusOK, "Catégorie supprimée avec succès")
}
