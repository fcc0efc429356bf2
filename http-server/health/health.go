package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"route-api/internal/lib/api"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func New(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Error("database is unreachable", slog.String("op", "handlers.health"), slog.String("error", err.Error()))
			api.Error(w, r, http.StatusServiceUnavailable, "Database unavailable", nil)
			return
		}

		api.Success(w, r, http.StatusOK, "OK", nil)
	}
}
