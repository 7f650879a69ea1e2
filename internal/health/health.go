package health

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"cesizen/internal/models"
)

type status struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// RegisterRoutes — liveness: процесс жив и отвечает.
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		models.WriteJSON(w, http.StatusOK, status{Status: "ok"})
	}).Methods(http.MethodGet)
}

// RegisterRoutesWithDB — liveness + readiness. Готовность означает живое
// соединение с БД: без него отдавать трафик на контент и конфигурации нельзя.
func RegisterRoutesWithDB(r *mux.Router, db *gorm.DB) {
	RegisterRoutes(r)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if db == nil {
			models.WriteMessage(w, http.StatusServiceUnavailable, "Base de données non configurée.")
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			models.WriteMessage(w, http.StatusServiceUnavailable, "Base de données indisponible.")
			return
		}
		if err := sqlDB.Ping(); err != nil {
			models.WriteMessage(w, http.StatusServiceUnavailable, "Base de données indisponible.")
			return
		}
		models.WriteJSON(w, http.StatusOK, status{Status: "ok", Database: "up"})
	}).Methods(http.MethodGet)
}
