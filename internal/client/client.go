// Package client — Go-клиент API с прозрачным обновлением токена:
// на 401 выполняется ровно одна попытка refresh (конкурентные запросы
// сливаются в один in-flight refresh через singleflight), затем исходный
// запрос повторяется один раз с новым токеном. 403 — проблема прав,
// refresh не запускается.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cesizen/internal/models"
)

// APIError — ответ сервера с кодом и телом {"message": ...}.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string

	refresh singleflight.Group
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	c.accessToken, c.refreshToken = access, refresh
	c.mu.Unlock()
}

func (c *Client) Tokens() (access, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

func (c *Client) ClearTokens() { c.SetTokens("", "") }

func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

func decodeError(resp *http.Response) *APIError {
	var m models.Message
	_ = json.NewDecoder(resp.Body).Decode(&m)
	return &APIError{Status: resp.StatusCode, Message: m.Message}
}

// do выполняет запрос; на 401 — один shared refresh и один повтор.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}

	access, _ := c.Tokens()
	resp, err := c.send(ctx, method, path, body, access)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := decodeError(resp)
		resp.Body.Close()

		_, refresh := c.Tokens()
		if refresh == "" {
			c.ClearTokens()
			return apiErr
		}
		if _, err, _ := c.refresh.Do("refresh", func() (any, error) {
			return nil, c.doRefresh(ctx)
		}); err != nil {
			c.ClearTokens()
			return apiErr
		}

		access, _ = c.Tokens()
		resp, err = c.send(ctx, method, path, body, access)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// doRefresh меняет refresh-токен на новую пару. Вызывается только из
// singleflight — параллельные 401 ждут общий результат.
func (c *Client) doRefresh(ctx context.Context) error {
	_, refresh := c.Tokens()
	body, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return err
	}
	resp, err := c.send(ctx, http.MethodPost, "/auth/refresh", body, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	var pair struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return err
	}
	c.SetTokens(pair.Token, pair.RefreshToken)
	return nil
}

// ---------- Типизированные вызовы ----------

type LoginResult struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         models.UserView `json:"user"`
}

// Login аутентифицируется и запоминает полученную пару токенов.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"username": username, "password": password}, &res)
	if err != nil {
		return nil, err
	}
	c.SetTokens(res.Token, res.RefreshToken)
	return &res, nil
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*models.UserView, error) {
	var res struct {
		User models.UserView `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) Profile(ctx context.Context) (*models.UserView, error) {
	var res models.UserView
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, "/auth/change-password",
		map[string]string{"currentPassword": current, "newPassword": next}, nil)
}

func (c *Client) Contents(ctx context.Context) ([]models.Content, error) {
	var rows []models.Content
	if err := c.do(ctx, http.MethodGet, "/contents", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) BreathingConfigs(ctx context.Context) ([]models.BreathingExerciseConfiguration, error) {
	var rows []models.BreathingExerciseConfiguration
	if err := c.do(ctx, http.MethodGet, "/breathing-configs", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Users — административный список пользователей.
func (c *Client) Users(ctx context.Context) ([]models.UserView, error) {
	var rows []models.UserView
	if err := c.do(ctx, http.MethodGet, "/users", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
