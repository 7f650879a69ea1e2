package auth

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"cesizen/internal/logs"
	"cesizen/internal/models"
	"cesizen/internal/repo"
)

type Handler struct {
	users  UserStore
	roles  RoleStore
	issuer *Issuer
}

func NewHandler(users UserStore, roles RoleStore, iss *Issuer) *Handler {
	return &Handler{users: users, roles: roles, issuer: iss}
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"omitempty,max=255"`
	LastName  string `json:"lastName" validate:"omitempty,max=255"`
	// Роль клиента игнорируется: всегда "User", админов создаёт
	// только /auth/register-admin.
	Role string `json:"role,omitempty" validate:"-"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=255"`
	LastName  *string `json:"lastName" validate:"omitempty,max=255"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type loginResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         models.UserView `json:"user"`
}

type userResponse struct {
	Message string          `json:"message"`
	User    models.UserView `json:"user"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request, roleName, okMsg string) {
	var req RegisterRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	exists, err := h.users.Exists(r.Context(), req.Username, req.Email)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if exists {
		models.WriteMessage(w, http.StatusBadRequest, MsgUserExists)
		return
	}
	role, err := h.roles.FindByName(r.Context(), roleName)
	if err != nil {
		models.WriteMessage(w, http.StatusNotFound, MsgRoleNotFound)
		return
	}
	user, err := h.users.Create(r.Context(), repo.CreateUserInput{
		UserName:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    role.ID,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		models.WriteMessage(w, http.StatusBadRequest, MsgUserExists)
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, userResponse{Message: okMsg, User: user.View()})
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.createUser(w, r, models.RoleUser, MsgUserCreated)
}

// POST /auth/register-admin (за гейтом + authorize("Admin"))
func (h *Handler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	h.createUser(w, r, models.RoleAdmin, MsgAdminCreated)
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	// «неизвестный пользователь» и «неверный пароль» не различаются
	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusBadRequest, MsgBadCredentials)
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if !user.IsActive {
		models.WriteMessage(w, http.StatusForbidden, MsgAccountDisabled)
		return
	}
	if bcrypt.CompareHashAndPassword(user.Password, []byte(req.Password)) != nil {
		models.WriteMessage(w, http.StatusBadRequest, MsgBadCredentials)
		return
	}
	role, err := h.roles.FindByID(r.Context(), user.RoleID)
	if err != nil {
		logs.Logger.Errorf("login: user %d references missing role %d", user.ID, user.RoleID)
		models.WriteMessage(w, http.StatusNotFound, MsgRoleNotFound)
		return
	}
	h.writeTokenPair(w, http.StatusOK, user, role)
}

// POST /auth/refresh — принимает refresh-токен, перечитывает живое состояние
// пользователя и выдаёт новую пару.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, err := h.issuer.Parse(req.RefreshToken)
	if err != nil {
		models.WriteMessage(w, http.StatusUnauthorized, MsgTokenInvalid)
		return
	}
	if claims.Type != TokenTypeRefresh {
		models.WriteMessage(w, http.StatusUnauthorized, MsgTokenType)
		return
	}
	user, err := h.users.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if !user.IsActive {
		models.WriteMessage(w, http.StatusForbidden, MsgAccountDisabled)
		return
	}
	role, err := h.roles.FindByID(r.Context(), user.RoleID)
	if err != nil {
		models.WriteMessage(w, http.StatusNotFound, MsgRoleNotFound)
		return
	}
	h.writeTokenPair(w, http.StatusOK, user, role)
}

func (h *Handler) writeTokenPair(w http.ResponseWriter, status int, user *models.User, role *models.Role) {
	access, err := h.issuer.Access(user, role.Name)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	refresh, err := h.issuer.Refresh(user, role.Name)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	view := user.View()
	view.Role = role
	models.WriteJSON(w, status, loginResponse{Token: access, RefreshToken: refresh, User: view})
}

// GET /auth/profile — живое состояние, как в Authorizer: 404/403 те же.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r)
	if !ok {
		models.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}
	user, err := h.users.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if !user.IsActive {
		models.WriteMessage(w, http.StatusForbidden, MsgAccountDisabled)
		return
	}
	models.WriteJSON(w, http.StatusOK, user.View())
}

// PUT /auth/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r)
	if !ok {
		models.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}
	var req UpdateProfileRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email != nil {
		other, err := h.users.FindByEmail(r.Context(), *req.Email)
		if err == nil && other.ID != claims.UserID {
			models.WriteMessage(w, http.StatusBadRequest, MsgEmailTaken)
			return
		}
	}
	user, err := h.users.UpdateProfile(r.Context(), claims.UserID, repo.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, userResponse{Message: MsgProfileUpdated, User: user.View()})
}

// PUT /auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r)
	if !ok {
		models.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}
	var req ChangePasswordRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.users.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword(user.Password, []byte(req.CurrentPassword)) != nil {
		models.WriteMessage(w, http.StatusBadRequest, MsgWrongPassword)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 10)
	if err != nil {
		models.WriteServerError(w, err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), claims.UserID, hash); err != nil {
		models.WriteServerError(w, err)
		return
	}
	models.WriteMessage(w, http.StatusOK, MsgPasswordChanged)
}
