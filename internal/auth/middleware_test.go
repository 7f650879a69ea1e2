package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cesizen/internal/models"
	"cesizen/internal/repo"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return iss
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bodyMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var msg models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	return msg.Message
}

func TestAuthenticate_NoHeader(t *testing.T) {
	t.Parallel()

	gate := Authenticate(newTestIssuer(t))
	rec := doRequest(gate(okHandler()), "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, MsgTokenRequired, bodyMessage(t, rec))
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	t.Parallel()

	gate := Authenticate(newTestIssuer(t))
	rec := doRequest(gate(okHandler()), "garbage")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, MsgTokenInvalid, bodyMessage(t, rec))
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(t)
	tok, err := iss.Refresh(testUser(), models.RoleUser)
	require.NoError(t, err)

	rec := doRequest(Authenticate(iss)(okHandler()), tok)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, MsgTokenType, bodyMessage(t, rec))
}

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(t)
	tok, err := iss.Access(testUser(), models.RoleUser)
	require.NoError(t, err)

	var got *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFrom(r)
		w.WriteHeader(http.StatusOK)
	})
	rec := doRequest(Authenticate(iss)(next), tok)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, uint(42), got.UserID)
	require.Equal(t, models.RoleUser, got.Role)
}

func TestAuthenticate_NilIssuer(t *testing.T) {
	t.Parallel()

	rec := doRequest(Authenticate(nil)(okHandler()), "anything")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, MsgServerConfig, bodyMessage(t, rec))
}

func TestAuthenticateOptional(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(t)
	tok, err := iss.Access(testUser(), models.RoleUser)
	require.NoError(t, err)

	var got *Claims
	var hasClaims bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, hasClaims = ClaimsFrom(r)
		w.WriteHeader(http.StatusOK)
	})
	optional := AuthenticateOptional(iss)

	// без токена — пропускает без claims
	rec := doRequest(optional(next), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, hasClaims)

	// битый токен — тоже пропускает, но без claims
	rec = doRequest(optional(next), "garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, hasClaims)

	// валидный — claims на месте
	rec = doRequest(optional(next), tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, hasClaims)
	require.Equal(t, uint(42), got.UserID)
}

// authFixture — пользователь в памяти + токен, выписанный на него.
func authFixture(t *testing.T, roleID uint) (*repo.MemoryStore, *Issuer, *models.User, string) {
	t.Helper()
	mem := repo.NewMemoryStore()
	u, err := mem.Create(context.Background(), repo.CreateUserInput{
		UserName: "alice",
		Email:    "alice@cesizen.fr",
		Password: "secret123",
		RoleID:   roleID,
	})
	require.NoError(t, err)

	iss := newTestIssuer(t)
	tok, err := iss.Access(u, u.Role.Name)
	require.NoError(t, err)
	return mem, iss, u, tok
}

func TestAuthorize_NoClaims(t *testing.T) {
	t.Parallel()

	mem := repo.NewMemoryStore()
	guard := Authorize(mem, mem.Roles())

	// без гейта впереди — claims нет
	rec := doRequest(guard(okHandler()), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, MsgNotAuthenticated, bodyMessage(t, rec))
}

func TestAuthorize_EmptyAllowListAdmitsActiveUser(t *testing.T) {
	t.Parallel()

	mem, iss, _, tok := authFixture(t, 2)
	h := Authenticate(iss)(Authorize(mem, mem.Roles())(okHandler()))

	rec := doRequest(h, tok)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthorize_RoleMismatch(t *testing.T) {
	t.Parallel()

	mem, iss, _, tok := authFixture(t, 2)
	h := Authenticate(iss)(Authorize(mem, mem.Roles(), models.RoleAdmin)(okHandler()))

	rec := doRequest(h, tok)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, MsgForbidden, bodyMessage(t, rec))
}

func TestAuthorize_LiveRoleRecheck(t *testing.T) {
	t.Parallel()

	mem, iss, u, tok := authFixture(t, 2)
	h := Authenticate(iss)(Authorize(mem, mem.Roles(), models.RoleAdmin)(okHandler()))

	// токен выписан на роль User — доступа нет
	rec := doRequest(h, tok)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// повышение роли действует сразу, тот же токен проходит
	require.NoError(t, mem.SetRole(context.Background(), u.ID, 1))
	rec = doRequest(h, tok)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthorize_DisabledAccount(t *testing.T) {
	t.Parallel()

	mem, iss, u, tok := authFixture(t, 2)
	require.NoError(t, mem.SetActiveStatus(context.Background(), u.ID, false))

	h := Authenticate(iss)(Authorize(mem, mem.Roles())(okHandler()))
	rec := doRequest(h, tok)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, MsgAccountDisabled, bodyMessage(t, rec))
}

func TestAuthorize_DeletedUser(t *testing.T) {
	t.Parallel()

	mem, iss, u, tok := authFixture(t, 2)
	require.NoError(t, mem.Delete(context.Background(), u.ID))

	h := Authenticate(iss)(Authorize(mem, mem.Roles())(okHandler()))
	rec := doRequest(h, tok)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, MsgUserNotFound, bodyMessage(t, rec))
}

func TestAuthorize_MissingRole(t *testing.T) {
	t.Parallel()

	mem, iss, _, tok := authFixture(t, 2)
	roles := mem.Roles()
	roles.DropRole(2)

	h := Authenticate(iss)(Authorize(mem, roles)(okHandler()))
	rec := doRequest(h, tok)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, MsgRoleNotFound, bodyMessage(t, rec))
}

func TestAuthorize_Idempotent(t *testing.T) {
	t.Parallel()

	mem, iss, _, tok := authFixture(t, 1)
	h := Authenticate(iss)(Authorize(mem, mem.Roles(), models.RoleAdmin)(okHandler()))

	for i := 0; i < 3; i++ {
		rec := doRequest(h, tok)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
