package route

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"route-api/internal/lib/api"
	"route-api/internal/service/routecard"
)

type CardGenerator interface {
	Generate(ctx context.Context, routeID int64) (*routecard.File, error)
}

// Export answers POST /route/export {id} with the route card workbook,
// giving the generator up to timeout.
func Export(log *slog.Logger, gen CardGenerator, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.route.export"

		id, ok, err := api.ParseID(r)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("invalid request body")
			api.Error(w, r, http.StatusBadRequest, "Invalid request body", api.ErrorData(err))
			return
		}
		if !ok {
			api.Error(w, r, http.StatusBadRequest, "Route ID is required", nil)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		file, err := gen.Generate(ctx, id)
		if err != nil {
			status := api.StatusFromError(err, http.StatusInternalServerError)
			message := "Failed to export route"
			if status == http.StatusNotFound {
				message = "Route not found"
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error(message)
			api.Error(w, r, status, message, api.ErrorData(err))
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(file.Name))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(file.Data); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to write route card")
		}
	}
}
