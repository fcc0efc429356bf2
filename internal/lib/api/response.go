package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"route-api/internal/auth"
	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Success(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	render.Status(r, status)
	render.JSON(w, r, Response{Status: StatusSuccess, Message: message, Data: data})
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	render.Status(r, status)
	render.JSON(w, r, Response{Status: StatusError, Message: message, Data: data})
}

// ErrorData is the data payload of unexpected failures.
func ErrorData(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

// StatusFromError maps typed store and auth errors to an HTTP status.
// Anything unrecognised gets fallback.
func StatusFromError(err error, fallback int) int {
	var verr *storage.ValidationError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr),
		errors.Is(err, storage.ErrDuplicate),
		errors.Is(err, storage.ErrAlreadyDeleted),
		errors.Is(err, storage.ErrAlreadyActive),
		errors.Is(err, storage.ErrInactive),
		errors.Is(err, storage.ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, procedure.ErrConnectivity):
		return http.StatusInternalServerError
	default:
		return fallback
	}
}
