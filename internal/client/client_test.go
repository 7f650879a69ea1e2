package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cesizen/internal/models"
)

// fakeAPI — минимальный сервер для клиента: профиль за Bearer-токеном,
// refresh с ротацией пары и счётчиком вызовов.
type fakeAPI struct {
	mu          sync.Mutex
	validAccess map[string]bool
	gen         int

	refreshCalls  int64
	refreshDelay  time.Duration
	refreshBroken bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{validAccess: map[string]bool{}}
}

func (f *fakeAPI) issuePair() (access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	access = fmt.Sprintf("access-%d", f.gen)
	refresh = fmt.Sprintf("refresh-%d", f.gen)
	f.validAccess[access] = true
	return access, refresh
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.refreshCalls, 1)
		if f.refreshDelay > 0 {
			time.Sleep(f.refreshDelay)
		}
		if f.refreshBroken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.Message{Message: "Token invalide ou expiré."})
			return
		}
		access, refresh := f.issuePair()
		_ = json.NewEncoder(w).Encode(map[string]string{"token": access, "refreshToken": refresh})
	})

	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		tok := r.Header.Get("Authorization")
		f.mu.Lock()
		ok := f.validAccess[trimBearer(tok)]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.Message{Message: "Token invalide ou expiré."})
			return
		}
		_ = json.NewEncoder(w).Encode(models.UserView{ID: 1, UserName: "alice"})
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		access, refresh := f.issuePair()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":        access,
			"refreshToken": refresh,
			"user":         models.UserView{ID: 1, UserName: "alice"},
		})
	})

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(models.Message{Message: "Accès refusé. Vous n'avez pas les permissions nécessaires."})
	})

	return mux
}

func trimBearer(h string) string {
	const p = "Bearer "
	if len(h) > len(p) && h[:len(p)] == p {
		return h[len(p):]
	}
	return ""
}

func TestClient_LoginStoresTokens(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Login(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, "alice", res.User.UserName)

	access, refresh := c.Tokens()
	require.Equal(t, res.Token, access)
	require.Equal(t, res.RefreshToken, refresh)

	// токен принимается защищённым эндпоинтом без refresh
	_, err = c.Profile(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, atomic.LoadInt64(&f.refreshCalls))
}

func TestClient_RefreshOn401AndRetry(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	_, refresh := f.issuePair()
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("stale-access", refresh)

	view, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", view.UserName)
	require.EqualValues(t, 1, atomic.LoadInt64(&f.refreshCalls))

	// пара обновлена
	access, newRefresh := c.Tokens()
	require.NotEqual(t, "stale-access", access)
	require.NotEqual(t, refresh, newRefresh)
}

func TestClient_ConcurrentRefreshCoalesced(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.refreshDelay = 250 * time.Millisecond
	_, refresh := f.issuePair()
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("stale-access", refresh)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = c.Profile(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	// все 401 слились в один in-flight refresh
	require.EqualValues(t, 1, atomic.LoadInt64(&f.refreshCalls))
}

func TestClient_ForbiddenDoesNotRefresh(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	access, refresh := f.issuePair()
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens(access, refresh)

	_, err := c.Users(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.Status)
	require.EqualValues(t, 0, atomic.LoadInt64(&f.refreshCalls))

	// 403 — не повод терять сессию
	gotAccess, gotRefresh := c.Tokens()
	require.Equal(t, access, gotAccess)
	require.Equal(t, refresh, gotRefresh)
}

func TestClient_RefreshFailureClearsTokens(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.refreshBroken = true
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("stale-access", "stale-refresh")

	_, err := c.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.EqualValues(t, 1, atomic.LoadInt64(&f.refreshCalls))

	access, refresh := c.Tokens()
	require.Empty(t, access)
	require.Empty(t, refresh)
}

func TestClient_NoRefreshTokenNoRetry(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := New(srv.URL)
	c.SetTokens("stale-access", "")

	_, err := c.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.EqualValues(t, 0, atomic.LoadInt64(&f.refreshCalls))
}
