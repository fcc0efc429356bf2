package route

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"route-api/http-server/crud"
	"route-api/internal/storage"
)

type Store interface {
	CreateRoute(ctx context.Context, in storage.RouteInput, actor int64) (*storage.Route, error)
	ListRoutes(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Route], error)
	GetRoute(ctx context.Context, id int64) (*storage.Route, error)
	UpdateRoute(ctx context.Context, patch storage.RoutePatch, actor int64) (*storage.Route, error)
	DeleteRoute(ctx context.Context, id, actor int64) (*storage.Route, error)
	ReactivateRoute(ctx context.Context, id, actor int64) (*storage.Route, error)
}

var names = crud.Names{One: "Route", Many: "Routes"}

func Create(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Create(log, names, s.CreateRoute, timeout)
}

func List(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.List(log, names, s.ListRoutes, timeout)
}

func Get(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Get(log, names, s.GetRoute, timeout)
}

func Update(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Update(log, names, s.UpdateRoute, timeout)
}

func Delete(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Delete(log, names, s.DeleteRoute, timeout)
}

func Reactivate(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Reactivate(log, names, s.ReactivateRoute, timeout)
}
