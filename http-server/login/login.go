package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"route-api/internal/lib/api"
	"route-api/internal/storage"
)

type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (int64, error)
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

func New(log *slog.Logger, auth Authenticator, tokens TokenIssuer, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login"

		log := log.With(slog.String("op", op))

		var req Request
		err := render.DecodeJSON(r.Body, &req)
		if errors.Is(err, io.EOF) {
			api.Error(w, r, http.StatusBadRequest, "Request body is required", nil)
			return
		}
		if err != nil {
			log.Warn("invalid request body", slog.String("error", err.Error()))
			api.Error(w, r, http.StatusBadRequest, "Invalid request body", api.ErrorData(err))
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			api.Error(w, r, http.StatusBadRequest, "Username and password are required", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		userID, err := auth.Authenticate(ctx, req.Username, req.Password)
		if errors.Is(err, storage.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("username", req.Username))
			api.Error(w, r, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		if err != nil {
			log.Error("failed to authenticate", slog.String("error", err.Error()))
			api.Error(w, r, http.StatusInternalServerError, "Login failed", api.ErrorData(err))
			return
		}

		token, err := tokens.Issue(userID)
		if err != nil {
			log.Error("failed to issue token", slog.String("error", err.Error()))
			api.Error(w, r, http.StatusInternalServerError, "Login failed", nil)
			return
		}

		api.Success(w, r, http.StatusOK, "Login successful", map[string]string{"token": token})
	}
}
