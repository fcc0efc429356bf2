package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

var products = table{
	entity:  "Product",
	name:    "Products",
	columns: "id, productName, description, mainRouteId, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt",
	search:  []string{"productName", "description"},
	sort: storage.SortRule{
		Default: "productName",
		Allowed: []string{"productName", "id", "mainRouteId", "createdAt"},
	},
}

func (s *Storage) CreateProduct(ctx context.Context, in storage.ProductInput, actor int64) (*storage.Product, error) {
	const op = "storage.sqlstore.CreateProduct"

	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var product *storage.Product
	err := s.inv.InTx(ctx, func(tx procedure.Session) error {
		if err := requireActive(ctx, tx, routes.name, "mainRouteId", in.MainRouteID); err != nil {
			return err
		}

		res, err := tx.Exec(ctx, procedure.Call{
			Procedure: products.proc("Create"),
			Args:      []any{in.Name, in.Description, in.MainRouteID, actor, actor},
			Fallback: `INSERT INTO Products (productName, description, mainRouteId, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt)
				VALUES (?, ?, ?, 1, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		})
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		id, err := insertedID(res)
		if err != nil {
			return err
		}

		product, err = getActive[storage.Product](ctx, tx, products, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

func (s *Storage) ListProducts(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Product], error) {
	const op = "storage.sqlstore.ListProducts"

	q = q.Clamp()
	items, total, err := listPage[storage.Product](ctx, s.inv, products, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return storage.NewPage(items, total, q), nil
}

func (s *Storage) GetProduct(ctx context.Context, id int64) (*storage.Product, error) {
	const op = "storage.sqlstore.GetProduct"

	product, err := getActive[storage.Product](ctx, s.inv, products, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

func (s *Storage) UpdateProduct(ctx context.Context, patch storage.ProductPatch, actor int64) (*storage.Product, error) {
	const op = "storage.sqlstore.UpdateProduct"

	if err := s.check(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var product *storage.Product
	err := updateActive(ctx, s, products, patch.ID, func(tx procedure.Session, current *storage.Product) error {
		merged := storage.ProductInput{
			Name:        strings.TrimSpace(patch.Name.Or(current.Name)),
			Description: patch.Description.OrNullable(current.Description),
			MainRouteID: patch.MainRouteID.Or(current.MainRouteID),
		}
		if err := s.check(merged); err != nil {
			return err
		}

		if merged.MainRouteID != current.MainRouteID {
			if err := requireActive(ctx, tx, routes.name, "mainRouteId", merged.MainRouteID); err != nil {
				return err
			}
		}

		_, err := tx.Exec(ctx, procedure.Call{
			Procedure: products.proc("Update"),
			Args:      []any{merged.Name, merged.Description, merged.MainRouteID, actor, patch.ID},
			Fallback: `UPDATE Products SET productName = ?, description = ?, mainRouteId = ?, UpdatedBy = ?, updatedAt = CURRENT_TIMESTAMP
			WHERE id = ? AND isActive = 1`,
		})
		if err != nil {
			return err
		}

		product, err = getActive[storage.Product](ctx, tx, products, patch.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

func (s *Storage) DeleteProduct(ctx context.Context, id, actor int64) (*storage.Product, error) {
	const op = "storage.sqlstore.DeleteProduct"

	product, err := setActive[storage.Product](ctx, s, products, id, actor, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

func (s *Storage) ReactivateProduct(ctx context.Context, id, actor int64) (*storage.Product, error) {
	const op = "storage.sqlstore.ReactivateProduct"

	product, err := setActive[storage.Product](ctx, s, products, id, actor, true, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}
