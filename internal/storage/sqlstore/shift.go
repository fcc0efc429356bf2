package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

var shifts = table{
	entity:  "Shift",
	name:    "MasterShifts",
	columns: "id, name, startTime, endTime, duration, colorCode, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt",
	search:  []string{"name", "colorCode"},
	sort: storage.SortRule{
		Default: "name",
		Allowed: []string{"name", "id", "startTime", "endTime", "duration", "colorCode"},
	},
}

var shiftKey = []string{"name", "startTime", "endTime"}

func (s *Storage) CreateShift(ctx context.Context, in storage.ShiftInput, actor int64) (*storage.Shift, error) {
	const op = "storage.sqlstore.CreateShift"

	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := uniqueShift(ctx, s.inv, in.Name, in.StartTime, in.EndTime, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.inv.Exec(ctx, procedure.Call{
		Procedure: shifts.proc("Create"),
		Args:      []any{in.Name, in.StartTime, in.EndTime, in.Duration, in.ColorCode, actor},
		Commit:    true,
		Fallback: `INSERT INTO MasterShifts (name, startTime, endTime, duration, colorCode, isActive, CreatedBy, createdAt, updatedAt)
			VALUES (?, ?, ?, ?, ?, 1, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	id, err := insertedID(res)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shift, err := getActive[storage.Shift](ctx, s.inv, shifts, id)
	if err != nil {
		return nil, fmt.Errorf("%s: reload %d: %w", op, id, err)
	}

	return shift, nil
}

func (s *Storage) ListShifts(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Shift], error) {
	const op = "storage.sqlstore.ListShifts"

	q = q.Clamp()
	items, total, err := listPage[storage.Shift](ctx, s.inv, shifts, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return storage.NewPage(items, total, q), nil
}

func (s *Storage) GetShift(ctx context.Context, id int64) (*storage.Shift, error) {
	const op = "storage.sqlstore.GetShift"

	shift, err := getActive[storage.Shift](ctx, s.inv, shifts, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return shift, nil
}

func (s *Storage) UpdateShift(ctx context.Context, patch storage.ShiftPatch, actor int64) (*storage.Shift, error) {
	const op = "storage.sqlstore.UpdateShift"

	if err := s.check(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var shift *storage.Shift
	err := updateActive(ctx, s, shifts, patch.ID, func(tx procedure.Session, current *storage.Shift) error {
		merged := storage.ShiftInput{
			Name:      strings.TrimSpace(patch.Name.Or(current.Name)),
			StartTime: patch.StartTime.Or(current.StartTime),
			EndTime:   patch.EndTime.Or(current.EndTime),
			Duration:  patch.Duration.OrNullable(current.Duration),
			ColorCode: patch.ColorCode.OrNullable(current.ColorCode),
		}
		if err := s.check(merged); err != nil {
			return err
		}

		if err := uniqueShift(ctx, tx, merged.Name, merged.StartTime, merged.EndTime, patch.ID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, procedure.Call{
			Procedure: shifts.proc("Update"),
			Args:      []any{merged.Name, merged.StartTime, merged.EndTime, merged.Duration, merged.ColorCode, actor, patch.ID},
			Fallback: `UPDATE MasterShifts SET name = ?, startTime = ?, endTime = ?, duration = ?, colorCode = ?,
			UpdatedBy = ?, updatedAt = CURRENT_TIMESTAMP
			WHERE id = ? AND isActive = 1`,
		})
		if err != nil {
			return err
		}

		shift, err = getActive[storage.Shift](ctx, tx, shifts, patch.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return shift, nil
}

func (s *Storage) DeleteShift(ctx context.Context, id, actor int64) (*storage.Shift, error) {
	const op = "storage.sqlstore.DeleteShift"

	shift, err := setActive[storage.Shift](ctx, s, shifts, id, actor, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return shift, nil
}

func (s *Storage) ReactivateShift(ctx context.Context, id, actor int64) (*storage.Shift, error) {
	const op = "storage.sqlstore.ReactivateShift"

	shift, err := setActive(ctx, s, shifts, id, actor, true, func(tx procedure.Session, current *storage.Shift) error {
		return uniqueShift(ctx, tx, current.Name, current.StartTime, current.EndTime, id)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return shift, nil
}

func uniqueShift(ctx context.Context, ses procedure.Session, name, start, end string, excludeID int64) error {
	clash, err := uniqueClash(ctx, ses, shifts.name, shiftKey, []any{name, start, end}, excludeID)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if clash {
		return fmt.Errorf("shift %q %s-%s: %w", name, start, end, storage.ErrDuplicate)
	}

	return nil
}
