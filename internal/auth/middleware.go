package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cesizen/internal/models"
	"cesizen/internal/repo"
)

// UserStore — контракт auth-пакета к хранилищу пользователей.
// Реализуется repo.UserStore (GORM) и repo.MemoryStore.
type UserStore interface {
	Create(ctx context.Context, in repo.CreateUserInput) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uint, in repo.UpdateProfileInput) (*models.User, error)
	UpdatePassword(ctx context.Context, id uint, hash []byte) error
}

// RoleStore — контракт к справочнику ролей.
type RoleStore interface {
	FindByID(ctx context.Context, id uint) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
}

type ctxKey string

const claimsKey ctxKey = "auth.claims"

func withClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// ClaimsFrom достаёт расшифрованный payload, положенный гейтом.
func ClaimsFrom(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

// Authenticate — гейт: разбирает Authorization: Bearer <token>, проверяет
// подпись/срок/тип и кладёт Claims в контекст запроса. Чисто CPU-проверка,
// в БД не ходит.
//
// Исторически сервис отвечал 403 на протухший токен; здесь принята
// классическая схема: 401 — проблема с credential, 403 — нехватка прав.
func Authenticate(iss *Issuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if iss == nil || len(iss.secret) == 0 {
				models.WriteMessage(w, http.StatusInternalServerError, MsgServerConfig)
				return
			}
			const p = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, p) || strings.TrimPrefix(header, p) == "" {
				models.WriteMessage(w, http.StatusUnauthorized, MsgTokenRequired)
				return
			}
			claims, err := iss.Parse(strings.TrimPrefix(header, p))
			if err != nil {
				models.WriteMessage(w, http.StatusUnauthorized, MsgTokenInvalid)
				return
			}
			if claims.Type != "" && claims.Type != TokenTypeAccess {
				models.WriteMessage(w, http.StatusUnauthorized, MsgTokenType)
				return
			}
			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// AuthenticateOptional кладёт Claims в контекст, если предъявлен валидный
// access-токен, и молча пропускает запрос дальше в остальных случаях.
// Для публичных чтений, где аутентификация лишь расширяет видимость.
func AuthenticateOptional(iss *Issuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const p = "Bearer "
			header := r.Header.Get("Authorization")
			if iss != nil && strings.HasPrefix(header, p) {
				if claims, err := iss.Parse(strings.TrimPrefix(header, p)); err == nil {
					if claims.Type == "" || claims.Type == TokenTypeAccess {
						r = withClaims(r, claims)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize перечитывает живое состояние пользователя и его роли из
// хранилища и сверяет с allow-list. Роль из токена — только снимок: смена
// роли или выключение аккаунта действует со следующего же запроса.
// Пустой allow-list пропускает любого активного существующего пользователя.
func Authorize(users UserStore, roles RoleStore, allowed ...string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r)
			if !ok {
				models.WriteMessage(w, http.StatusUnauthorized, MsgNotAuthenticated)
				return
			}
			user, err := users.FindByID(r.Context(), claims.UserID)
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
			role, err := roles.FindByID(r.Context(), user.RoleID)
			if errors.Is(err, repo.ErrNotFound) {
				models.WriteMessage(w, http.StatusNotFound, MsgRoleNotFound)
				return
			}
			if err != nil {
				models.WriteServerError(w, err)
				return
			}
			if len(allowed) > 0 {
				found := false
				for _, name := range allowed {
					if role.Name == name {
						found = true
						break
					}
				}
				if !found {
					models.WriteMessage(w, http.StatusForbidden, MsgForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
