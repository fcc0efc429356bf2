package workstation

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"route-api/http-server/crud"
	"route-api/internal/storage"
)

// Store is the part of the storage the workstation endpoints need. Shift
// assignments are created and read together with their workstation.
type Store interface {
	CreateWorkstation(ctx context.Context, in storage.WorkstationInput, actor int64) (*storage.Workstation, error)
	ListWorkstations(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Workstation], error)
	GetWorkstation(ctx context.Context, id int64) (*storage.Workstation, error)
	UpdateWorkstation(ctx context.Context, patch storage.WorkstationPatch, actor int64) (*storage.Workstation, error)
	DeleteWorkstation(ctx context.Context, id, actor int64) (*storage.Workstation, error)
	ReactivateWorkstation(ctx context.Context, id, actor int64) (*storage.Workstation, error)
}

var names = crud.Names{One: "Workstation", Many: "Workstations"}

func Create(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Create(log, names, s.CreateWorkstation, timeout)
}

func List(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.List(log, names, s.ListWorkstations, timeout)
}

func Get(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Get(log, names, s.GetWorkstation, timeout)
}

func Update(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Update(log, names, s.UpdateWorkstation, timeout)
}

func Delete(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Delete(log, names, s.DeleteWorkstation, timeout)
}

func Reactivate(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Reactivate(log, names, s.ReactivateWorkstation, timeout)
}
