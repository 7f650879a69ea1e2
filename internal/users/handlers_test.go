package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"cesizen/internal/auth"
	"cesizen/internal/models"
	"cesizen/internal/repo"
)

type fixture struct {
	t      *testing.T
	router *mux.Router
	mem    *repo.MemoryStore
	iss    *auth.Issuer

	adminTok string
	userTok  string
	userID   uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := repo.NewMemoryStore()
	iss, err := auth.NewIssuer("test-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	admin, err := mem.Create(context.Background(), repo.CreateUserInput{
		UserName: "root", Email: "root@cesizen.fr", Password: "rootpass", RoleID: 1,
	})
	require.NoError(t, err)
	user, err := mem.Create(context.Background(), repo.CreateUserInput{
		UserName: "alice", Email: "alice@cesizen.fr", Password: "secret123", RoleID: 2,
	})
	require.NoError(t, err)

	adminTok, err := iss.Access(admin, models.RoleAdmin)
	require.NoError(t, err)
	userTok, err := iss.Access(user, models.RoleUser)
	require.NoError(t, err)

	r := mux.NewRouter().StrictSlash(true)
	gate := auth.Authenticate(iss)
	adminOnly := auth.Authorize(mem, mem.Roles(), models.RoleAdmin)
	RegisterRoutes(r, NewHandler(mem), gate, adminOnly)

	return &fixture{t: t, router: r, mem: mem, iss: iss,
		adminTok: adminTok, userTok: userTok, userID: user.ID}
}

func (f *fixture) call(method, path, token string, in any) *httptest.ResponseRecorder {
	f.t.Helper()
	body := bytes.NewBuffer(nil)
	if in != nil {
		raw, err := json.Marshal(in)
		require.NoError(f.t, err)
		body = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestList_AdminOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// без токена
	rec := f.call(http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// обычный пользователь
	rec = f.call(http.MethodGet, "/users", f.userTok, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// админ
	rec = f.call(http.MethodGet, "/users", f.adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []models.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	// ни одного поля с паролем в сыром JSON
	require.NotContains(t, rec.Body.String(), "password")
}

func TestSetStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	off := false
	rec := f.call(http.MethodPut, "/users/2/status", f.adminTok, statusRequest{IsActive: &off})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	u, err := f.mem.FindByID(context.Background(), f.userID)
	require.NoError(t, err)
	require.False(t, u.IsActive)

	// выключенный пользователь отсекается авторизацией немедленно,
	// даже с ещё валидным токеном
	rec = f.call(http.MethodGet, "/users", f.userTok, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	on := true
	rec = f.call(http.MethodPut, "/users/2/status", f.adminTok, statusRequest{IsActive: &on})
	require.Equal(t, http.StatusOK, rec.Code)

	u, err = f.mem.FindByID(context.Background(), f.userID)
	require.NoError(t, err)
	require.True(t, u.IsActive)
}

func TestSetStatus_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// isActive обязателен
	rec := f.call(http.MethodPut, "/users/2/status", f.adminTok, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	off := false
	rec = f.call(http.MethodPut, "/users/999/status", f.adminTok, statusRequest{IsActive: &off})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.call(http.MethodDelete, "/users/2", f.adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Message     string          `json:"message"`
		DeletedUser models.UserView `json:"deletedUser"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.DeletedUser.UserName)

	_, err := f.mem.FindByID(context.Background(), f.userID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	// повторное удаление
	rec = f.call(http.MethodDelete, "/users/2", f.adminTok, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
