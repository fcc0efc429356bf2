package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

var units = table{
	entity:  "Unit",
	name:    "Units",
	columns: "id, unitName, description, unitSymbol, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt",
	search:  []string{"unitName", "description", "unitSymbol"},
	sort: storage.SortRule{
		Default: "unitName",
		Allowed: []string{"unitName", "id", "description", "unitSymbol"},
	},
}

func (s *Storage) CreateUnit(ctx context.Context, in storage.UnitInput, actor int64) (*storage.Unit, error) {
	const op = "storage.sqlstore.CreateUnit"

	in.Name = strings.TrimSpace(in.Name)
	in.Symbol = strings.TrimSpace(in.Symbol)
	if err := s.check(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := uniqueUnit(ctx, s.inv, in.Name, in.Symbol, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.inv.Exec(ctx, procedure.Call{
		Procedure: units.proc("Create"),
		Args:      []any{in.Name, in.Description, in.Symbol, actor},
		Commit:    true,
		Fallback: `INSERT INTO Units (unitName, description, unitSymbol, isActive, CreatedBy, createdAt, updatedAt)
			VALUES (?, ?, ?, 1, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	id, err := insertedID(res)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	unit, err := getActive[storage.Unit](ctx, s.inv, units, id)
	if err != nil {
		return nil, fmt.Errorf("%s: reload %d: %w", op, id, err)
	}

	return unit, nil
}

func (s *Storage) ListUnits(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Unit], error) {
	const op = "storage.sqlstore.ListUnits"

	q = q.Clamp()
	items, total, err := listPage[storage.Unit](ctx, s.inv, units, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return storage.NewPage(items, total, q), nil
}

func (s *Storage) GetUnit(ctx context.Context, id int64) (*storage.Unit, error) {
	const op = "storage.sqlstore.GetUnit"

	unit, err := getActive[storage.Unit](ctx, s.inv, units, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return unit, nil
}

func (s *Storage) UpdateUnit(ctx context.Context, patch storage.UnitPatch, actor int64) (*storage.Unit, error) {
	const op = "storage.sqlstore.UpdateUnit"

	if err := s.check(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var unit *storage.Unit
	err := updateActive(ctx, s, units, patch.ID, func(tx procedure.Session, current *storage.Unit) error {
		merged := storage.UnitInput{
			Name:        strings.TrimSpace(patch.Name.Or(current.Name)),
			Symbol:      strings.TrimSpace(patch.Symbol.Or(current.Symbol)),
			Description: patch.Description.OrNullable(current.Description),
		}
		if err := s.check(merged); err != nil {
			return err
		}

		if err := uniqueUnit(ctx, tx, merged.Name, merged.Symbol, patch.ID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, procedure.Call{
			Procedure: units.proc("Update"),
			Args:      []any{merged.Name, merged.Description, merged.Symbol, actor, patch.ID},
			Fallback: `UPDATE Units SET unitName = ?, description = ?, unitSymbol = ?, UpdatedBy = ?, updatedAt = CURRENT_TIMESTAMP
			WHERE id = ? AND isActive = 1`,
		})
		if err != nil {
			return err
		}

		unit, err = getActive[storage.Unit](ctx, tx, units, patch.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return unit, nil
}

func (s *Storage) DeleteUnit(ctx context.Context, id, actor int64) (*storage.Unit, error) {
	const op = "storage.sqlstore.DeleteUnit"

	unit, err := setActive[storage.Unit](ctx, s, units, id, actor, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return unit, nil
}

// ReactivateUnit fails with ErrDuplicate when an active unit took the same
// name and symbol in the meantime.
func (s *Storage) ReactivateUnit(ctx context.Context, id, actor int64) (*storage.Unit, error) {
	const op = "storage.sqlstore.ReactivateUnit"

	unit, err := setActive(ctx, s, units, id, actor, true, func(tx procedure.Session, current *storage.Unit) error {
		return uniqueUnit(ctx, tx, current.Name, current.Symbol, id)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return unit, nil
}

func uniqueUnit(ctx context.Context, ses procedure.Session, name, symbol string, excludeID int64) error {
	clash, err := uniqueClash(ctx, ses, units.name, []string{"unitName", "unitSymbol"}, []any{name, symbol}, excludeID)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if clash {
		return fmt.Errorf("unit %q (%s): %w", name, symbol, storage.ErrDuplicate)
	}

	return nil
}
