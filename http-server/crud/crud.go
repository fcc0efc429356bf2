package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"route-api/internal/auth"
	"route-api/internal/lib/api"
	"route-api/internal/storage"
)

// Names are the entity names used in envelope messages, e.g. "Unit"/"Units".
type Names struct {
	One  string
	Many string
}

func (n Names) lower() string { return strings.ToLower(n.One) }

func (n Names) op(verb string) string {
	return "handlers." + n.lower() + "." + verb
}

// failure picks the envelope message and data for err.
func (n Names) failure(verb, subject string, err error) (string, any) {
	var verr *storage.ValidationError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return n.One + " not found", nil
	case errors.Is(err, storage.ErrAlreadyDeleted):
		return n.One + " already deleted", nil
	case errors.Is(err, storage.ErrAlreadyActive):
		return n.One + " already active", nil
	case errors.Is(err, storage.ErrInactive):
		return "Cannot update inactive " + n.lower(), nil
	case errors.Is(err, storage.ErrDuplicate):
		return n.One + " already exists", nil
	case errors.As(err, &verr):
		return fmt.Sprintf("Failed to %s %s", verb, subject), api.ErrorData(verr)
	default:
		return fmt.Sprintf("Failed to %s %s", verb, subject), api.ErrorData(err)
	}
}

func (n Names) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, verb string, fallback int, err error) {
	n.failAs(w, r, log, verb, n.lower(), fallback, err)
}

func (n Names) failAs(w http.ResponseWriter, r *http.Request, log *slog.Logger, verb, subject string, fallback int, err error) {
	status := api.StatusFromError(err, fallback)
	message, data := n.failure(verb, subject, err)

	l := log.With(slog.String("op", n.op(verb)), slog.String("error", err.Error()))
	if status >= http.StatusInternalServerError {
		l.Error(message)
	} else {
		l.Warn(message)
	}

	api.Error(w, r, status, message, data)
}

func actor(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		api.Error(w, r, http.StatusUnauthorized, "Token required", nil)
	}
	return id, ok
}

type CreateFunc[In, Out any] func(ctx context.Context, in In, actor int64) (*Out, error)

func Create[In, Out any](log *slog.Logger, n Names, create CreateFunc[In, Out], timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := actor(w, r)
		if !ok {
			return
		}

		var in In
		if err := api.DecodeJSON(r, &in); err != nil {
			log.With(slog.String("op", n.op("create")), slog.String("error", err.Error())).Warn("invalid request body")
			api.Error(w, r, http.StatusBadRequest, "Invalid request body", api.ErrorData(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out, err := create(ctx, in, userID)
		if err != nil {
			n.fail(w, r, log, "create", http.StatusBadRequest, err)
			return
		}

		api.Success(w, r, http.StatusCreated, n.One+" created successfully", out)
	}
}

type ListFunc[Out any] func(ctx context.Context, q storage.ListQuery) (*storage.Page[Out], error)

func List[Out any](log *slog.Logger, n Names, list ListFunc[Out], timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.ListRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			log.With(slog.String("op", n.op("list")), slog.String("error", err.Error())).Warn("invalid request body")
			api.Error(w, r, http.StatusBadRequest, "Invalid request body", api.ErrorData(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		page, err := list(ctx, req.Query())
		if err != nil {
			n.failAs(w, r, log, "retrieve", strings.ToLower(n.Many), http.StatusInternalServerError, err)
			return
		}

		api.Success(w, r, http.StatusOK, n.Many+" retrieved successfully", page)
	}
}

type GetFunc[Out any] func(ctx context.Context, id int64) (*Out, error)

func Get[Out any](log *slog.Logger, n Names, get GetFunc[Out], timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := n.id(w, r, log, "get")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out, err := get(ctx, id)
		if err != nil {
			n.fail(w, r, log, "retrieve", http.StatusInternalServerError, err)
			return
		}

		api.Success(w, r, http.StatusOK, n.One+" retrieved successfully", out)
	}
}

type UpdateFunc[Patch, Out any] func(ctx context.Context, patch Patch, actor int64) (*Out, error)

func Update[Patch, Out any](log *slog.Logger, n Names, update UpdateFunc[Patch, Out], timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := actor(w, r)
		if !ok {
			return
		}

		var patch Patch
		if err := api.DecodeJSON(r, &patch); err != nil {
			log.With(slog.String("op", n.op("update")), slog.String("error", err.Error())).Warn("invalid request body")
			api.Error(w, r, http.StatusBadRequest, "Invalid request body", api.ErrorData(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out, err := update(ctx, patch, userID)
		if err != nil {
			n.fail(w, r, log, "update", http.StatusBadRequest, err)
			return
		}

		api.Success(w, r, http.StatusOK, n.One+" updated successfully", out)
	}
}

type LifecycleFunc[Out any] func(ctx context.Context, id, actor int64) (*Out, error)

func Delete[Out any](log *slog.Logger, n Names, del LifecycleFunc[Out], timeout time.Duration) http.HandlerFunc {
	return lifecycle(log, n, "delete", "deleted", del, timeout)
}

func Reactivate[Out any](log *slog.Logger, n Names, reactivate LifecycleFunc[Out], timeout time.Duration) http.HandlerFunc {
	return lifecycle(log, n, "reactivate", "reactivated", reactivate, timeout)
}

func lifecycle[Out any](log *slog.Logger, n Names, verb, done string, fn LifecycleFunc[Out], timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := actor(w, r)
		if !ok {
			return
		}

		id, ok := n.id(w, r, log, verb)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out, err := fn(ctx, id, userID)
		if err != nil {
			n.fail(w, r, log, verb, http.StatusBadRequest, err)
			return
		}

		api.Success(w, r, http.StatusOK, n.One+" "+done+" successfully", out)
	}
}

// id reads {id} from the body, answering 400 itself when it is missing.
func (n Names) id(w http.ResponseWriter, r *http.Request, log *slog.Logger, verb string) (int64, bool) {
	id, ok, err := api.ParseID(r)
	if err != nil {
		log.With(slog.String("op", n.op(verb)), slog.String("error", err.Error())).Warn("invalid request body")
		api.Error(w, r, http.StatusBadRequest, "Invalid request body", api.ErrorData(err))
		return 0, false
	}
	if !ok {
		api.Error(w, r, http.StatusBadRequest, n.One+" ID is required", nil)
		return 0, false
	}

	return id, true
}
