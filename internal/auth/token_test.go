package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cesizen/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: 42, UserName: "alice", Email: "a@x.com", IsActive: true, RoleID: 2}
}

func TestIssuer_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer("super-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	tok, err := iss.Access(testUser(), models.RoleUser)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, models.RoleUser, claims.Role)
	require.Equal(t, TokenTypeAccess, claims.Type)
}

func TestIssuer_RefreshType(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer("super-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	tok, err := iss.Refresh(testUser(), models.RoleUser)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, claims.Type)
}

func TestIssuer_Expired(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer("super-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	tok, err := iss.sign(testUser(), models.RoleUser, TokenTypeAccess, -time.Second)
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	right, err := NewIssuer("right-secret", time.Hour, time.Hour)
	require.NoError(t, err)
	wrong, err := NewIssuer("wrong-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	tok, err := right.Access(testUser(), models.RoleUser)
	require.NoError(t, err)

	_, err = wrong.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestIssuer_Malformed(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer("k", time.Hour, time.Hour)
	require.NoError(t, err)

	_, err = iss.Parse("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestNewIssuer_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("", time.Hour, time.Hour)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewIssuer("   ", time.Hour, time.Hour)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewIssuer("k", 0, time.Hour)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewIssuer("k", time.Hour, 0)
	require.ErrorIs(t, err, ErrConfiguration)
}
