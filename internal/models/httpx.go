package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Message — стандартное тело ответа API: {"message": "..."}.
type Message struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage отдаёт {"message": ...} с нужным статусом.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Message{Message: msg})
}

// WriteServerError — единый ответ 500 в стиле API ("Erreur serveur").
func WriteServerError(w http.ResponseWriter, err error) {
	m := Message{Message: "Erreur serveur"}
	if err != nil {
		m.Error = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, m)
}

// DecodeJSON читает и валидирует тело запроса по validate-тегам структуры.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("corps de requête vide")
		}
		return err
	}
	return validate.Struct(dst)
}
