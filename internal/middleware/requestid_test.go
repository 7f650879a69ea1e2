package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func serveWithRequestID(t *testing.T, inbound string) (ctxID string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r)
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set("X-Request-Id", inbound)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec
}

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	ctxID, rec := serveWithRequestID(t, "")
	require.NotEmpty(t, ctxID)
	require.Equal(t, ctxID, rec.Header().Get("X-Request-Id"))
	_, err := uuid.Parse(ctxID)
	require.NoError(t, err)
}

func TestRequestID_InboundAccepted(t *testing.T) {
	t.Parallel()

	ctxID, rec := serveWithRequestID(t, "trace-42.a_b")
	require.Equal(t, "trace-42.a_b", ctxID)
	require.Equal(t, "trace-42.a_b", rec.Header().Get("X-Request-Id"))
}

func TestRequestID_InboundRejected(t *testing.T) {
	t.Parallel()

	// спецсимволы не должны утекать в логи
	ctxID, _ := serveWithRequestID(t, "abc\ndef")
	require.NotEqual(t, "abc\ndef", ctxID)
	_, err := uuid.Parse(ctxID)
	require.NoError(t, err)

	// слишком длинное значение
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	ctxID, _ = serveWithRequestID(t, string(long))
	require.NotEqual(t, string(long), ctxID)
}
