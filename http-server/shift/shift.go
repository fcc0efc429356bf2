package shift

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"route-api/http-server/crud"
	"route-api/internal/storage"
)

type Store interface {
	CreateShift(ctx context.Context, in storage.ShiftInput, actor int64) (*storage.Shift, error)
	ListShifts(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Shift], error)
	GetShift(ctx context.Context, id int64) (*storage.Shift, error)
	UpdateShift(ctx context.Context, patch storage.ShiftPatch, actor int64) (*storage.Shift, error)
	DeleteShift(ctx context.Context, id, actor int64) (*storage.Shift, error)
	ReactivateShift(ctx context.Context, id, actor int64) (*storage.Shift, error)
}

// Shifts are stored in MasterShifts.
var names = crud.Names{One: "Shift", Many: "Shifts"}

func Create(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Create(log, names, s.CreateShift, timeout)
}

func List(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.List(log, names, s.ListShifts, timeout)
}

func Get(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Get(log, names, s.GetShift, timeout)
}

func Update(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Update(log, names, s.UpdateShift, timeout)
}

func Delete(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Delete(log, names, s.DeleteShift, timeout)
}

func Reactivate(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Reactivate(log, names, s.ReactivateShift, timeout)
}
