package middleware

import (
	"net/http"
	"runtime/debug"

	"cesizen/internal/logs"
	"cesizen/internal/models"
)

// Recoverer перехватывает панику в обработчике, пишет лог со стеком
// и возвращает 500 в формате API ({"message": ...}).
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				reqid := GetRequestID(r)
				logs.Logger.Errorf("panic: %v reqid=%s uri=%s method=%s\nstack:\n%s",
					rec, reqid, r.RequestURI, r.Method, string(debug.Stack()))
				models.WriteMessage(w, http.StatusInternalServerError, "Erreur serveur")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
