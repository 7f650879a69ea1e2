package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cesizen/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims — полезная нагрузка токена: id/username плюс имя роли на момент
// выдачи. Роль в токене — снимок; авторизация всегда перечитывает её из БД.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type,omitempty"`
}

// Issuer подписывает и проверяет токены. Секрет и сроки берутся из
// конфигурации один раз на старте процесса.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrConfiguration
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, ErrConfiguration
	}
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

func (i *Issuer) sign(u *models.User, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   u.ID,
		Username: u.UserName,
		Role:     role,
		Type:     typ,
	})
	return token.SignedString(i.secret)
}

// Access выдаёт короткоживущий access-токен.
func (i *Issuer) Access(u *models.User, role string) (string, error) {
	return i.sign(u, role, TokenTypeAccess, i.accessTTL)
}

// Refresh выдаёт refresh-токен (тип проверяется в /auth/refresh и в гейте).
func (i *Issuer) Refresh(u *models.User, role string) (string, error) {
	return i.sign(u, role, TokenTypeRefresh, i.refreshTTL)
}

// Parse проверяет подпись и срок; любая проблема — ErrInvalidCredential.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}
