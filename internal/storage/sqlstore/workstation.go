package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

var workstations = table{
	entity:  "Workstation",
	name:    "Workstations",
	columns: "id, workstationName, description, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt",
	search:  []string{"workstationName", "description"},
	sort: storage.SortRule{
		Default: "workstationName",
		Allowed: []string{"workstationName", "id", "createdAt"},
	},
}

func (s *Storage) CreateWorkstation(ctx context.Context, in storage.WorkstationInput, actor int64) (*storage.Workstation, error) {
	const op = "storage.sqlstore.CreateWorkstation"

	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var ws *storage.Workstation
	err := s.inv.InTx(ctx, func(tx procedure.Session) error {
		res, err := tx.Exec(ctx, procedure.Call{
			Procedure: workstations.proc("Create"),
			Args:      []any{in.Name, in.Description, actor, actor},
			Fallback: `INSERT INTO Workstations (workstationName, description, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt)
				VALUES (?, ?, 1, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		})
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		id, err := insertedID(res)
		if err != nil {
			return err
		}

		for _, a := range in.Shifts {
			if err := requireActive(ctx, tx, shifts.name, "shiftId", a.ShiftID); err != nil {
				return err
			}

			_, err := tx.Exec(ctx, procedure.Call{
				Procedure: "sp_WorkstationShift_Create",
				Args:      []any{id, a.ShiftID, a.StartDate, a.EndDate},
				Fallback: `INSERT INTO WorkstationShifts (workstationId, shiftId, startDate, endDate, isActive, createdAt, updatedAt)
					VALUES (?, ?, ?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			})
			if err != nil {
				return fmt.Errorf("assign shift %d: %w", a.ShiftID, err)
			}
		}

		ws, err = s.workstationWithShifts(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ws, nil
}

func (s *Storage) ListWorkstations(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Workstation], error) {
	const op = "storage.sqlstore.ListWorkstations"

	q = q.Clamp()
	items, total, err := listPage[storage.Workstation](ctx, s.inv, workstations, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		items[i].Shifts, err = s.workstationShifts(ctx, s.inv, items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: shifts of %d: %w", op, items[i].ID, err)
		}
	}

	return storage.NewPage(items, total, q), nil
}

func (s *Storage) GetWorkstation(ctx context.Context, id int64) (*storage.Workstation, error) {
	const op = "storage.sqlstore.GetWorkstation"

	ws, err := s.workstationWithShifts(ctx, s.inv, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ws, nil
}

func (s *Storage) UpdateWorkstation(ctx context.Context, patch storage.WorkstationPatch, actor int64) (*storage.Workstation, error) {
	const op = "storage.sqlstore.UpdateWorkstation"

	if err := s.check(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var ws *storage.Workstation
	err := updateActive(ctx, s, workstations, patch.ID, func(tx procedure.Session, current *storage.Workstation) error {
		merged := storage.WorkstationInput{
			Name:        strings.TrimSpace(patch.Name.Or(current.Name)),
			Description: patch.Description.OrNullable(current.Description),
		}
		if err := s.check(merged); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, procedure.Call{
			Procedure: workstations.proc("Update"),
			Args:      []any{merged.Name, merged.Description, actor, patch.ID},
			Fallback: `UPDATE Workstations SET workstationName = ?, description = ?, UpdatedBy = ?, updatedAt = CURRENT_TIMESTAMP
			WHERE id = ? AND isActive = 1`,
		})
		if err != nil {
			return err
		}

		ws, err = s.workstationWithShifts(ctx, tx, patch.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ws, nil
}

func (s *Storage) DeleteWorkstation(ctx context.Context, id, actor int64) (*storage.Workstation, error) {
	const op = "storage.sqlstore.DeleteWorkstation"

	ws, err := setActive[storage.Workstation](ctx, s, workstations, id, actor, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ws, nil
}

func (s *Storage) ReactivateWorkstation(ctx context.Context, id, actor int64) (*storage.Workstation, error) {
	const op = "storage.sqlstore.ReactivateWorkstation"

	ws, err := setActive[storage.Workstation](ctx, s, workstations, id, actor, true, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ws, nil
}

func (s *Storage) workstationWithShifts(ctx context.Context, ses procedure.Session, id int64) (*storage.Workstation, error) {
	ws, err := getActive[storage.Workstation](ctx, ses, workstations, id)
	if err != nil {
		return nil, err
	}

	ws.Shifts, err = s.workstationShifts(ctx, ses, id)
	if err != nil {
		return nil, err
	}

	return ws, nil
}

func (s *Storage) workstationShifts(ctx context.Context, ses procedure.Session, workstationID int64) ([]storage.WorkstationShift, error) {
	cur, err := ses.Query(ctx, procedure.Call{
		Procedure: "sp_WorkstationShift_GetByWorkstationId",
		Args:      []any{workstationID},
		Fallback: `SELECT ws.id AS shiftAssignmentId, ws.shiftId AS shiftId, ms.name AS shiftName,
				ws.startDate AS startDate, ws.endDate AS endDate
			FROM WorkstationShifts ws
			JOIN MasterShifts ms ON ms.id = ws.shiftId
			WHERE ws.workstationId = ? AND ws.isActive = 1
			ORDER BY ws.id`,
	})
	if err != nil {
		return nil, err
	}

	return procedure.All[storage.WorkstationShift](cur)
}
