package product

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"route-api/http-server/crud"
	"route-api/internal/storage"
)

type Store interface {
	CreateProduct(ctx context.Context, in storage.ProductInput, actor int64) (*storage.Product, error)
	ListProducts(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Product], error)
	GetProduct(ctx context.Context, id int64) (*storage.Product, error)
	UpdateProduct(ctx context.Context, patch storage.ProductPatch, actor int64) (*storage.Product, error)
	DeleteProduct(ctx context.Context, id, actor int64) (*storage.Product, error)
	ReactivateProduct(ctx context.Context, id, actor int64) (*storage.Product, error)
}

var names = crud.Names{One: "Product", Many: "Products"}

func Create(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Create(log, names, s.CreateProduct, timeout)
}

func List(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.List(log, names, s.ListProducts, timeout)
}

func Get(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Get(log, names, s.GetProduct, timeout)
}

func Update(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Update(log, names, s.UpdateProduct, timeout)
}

func Delete(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Delete(log, names, s.DeleteProduct, timeout)
}

func Reactivate(log *slog.Logger, s Store, timeout time.Duration) http.HandlerFunc {
	return crud.Reactivate(log, names, s.ReactivateProduct, timeout)
}
