package process

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"route-api/http-server/crud"
	"route-api/internal/storage"
)

// Store covers processes and their technical values.
type Store interface {
	CreateProcess(ctx context.Context, in storage.ProcessInput, actor int64) (*storage.Process, error)
	ListProcesses(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Process], error)
	GetProcess(ctx context.Context, id int64) (*storage.Process, error)
	UpdateProcess(ctx context.Context, patch storage.ProcessPatch, actor int64) (*storage.Process, error)
	DeleteProcess(ctx context.Context, id, actor int64) (*storage.Process, error)
	ReactivateProcess(ctx context.Context, id, actor int64) (*storage.Process, error)
}

var names = crud.Names{One: "Process", Many: "Processes"}

func Create(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Create(log, names, s.CreateProcess, timeout)
}

func List(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.List(log, names, s.ListProcesses, timeout)
}

func Get(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Get(log, names, s.GetProcess, timeout)
}

func Update(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Update(log, names, s.UpdateProcess, timeout)
}

func Delete(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Delete(log, names, s.DeleteProcess, timeout)
}

func Reactivate(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Reactivate(log, names, s.ReactivateProcess, timeout)
}
