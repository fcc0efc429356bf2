package unit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"route-api/http-server/crud"
	"route-api/internal/storage"
)

type Store interface {
	CreateUnit(ctx context.Context, in storage.UnitInput, actor int64) (*storage.Unit, error)
	ListUnits(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Unit], error)
	GetUnit(ctx context.Context, id int64) (*storage.Unit, error)
	UpdateUnit(ctx context.Context, patch storage.UnitPatch, actor int64) (*storage.Unit, error)
	DeleteUnit(ctx context.Context, id, actor int64) (*storage.Unit, error)
	ReactivateUnit(ctx context.Context, id, actor int64) (*storage.Unit, error)
}

var names = crud.Names{One: "Unit", Many: "Units"}

func Create(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Create(log, names, s.CreateUnit, timeout)
}

func List(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.List(log, names, s.ListUnits, timeout)
}

func Get(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Get(log, names, s.GetUnit, timeout)
}

func Update(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Update(log, names, s.UpdateUnit, timeout)
}

func Delete(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Delete(log, names, s.DeleteUnit, timeout)
}

func Reactivate(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Reactivate(log, names, s.ReactivateUnit, timeout)
}
