package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

var processes = table{
	entity:  "Process",
	name:    "Processes",
	columns: "id, processName, description, workstationId, processTime, setupTime, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt",
	search:  []string{"processName", "description"},
	sort: storage.SortRule{
		Default: "processName",
		Allowed: []string{"processName", "id", "processTime", "setupTime", "createdAt"},
	},
}

func (s *Storage) CreateProcess(ctx context.Context, in storage.ProcessInput, actor int64) (*storage.Process, error) {
	const op = "storage.sqlstore.CreateProcess"

	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var p *storage.Process
	err := s.inv.InTx(ctx, func(tx procedure.Session) error {
		if err := requireActive(ctx, tx, workstations.name, "workstationId", in.WorkstationID); err != nil {
			return err
		}

		res, err := tx.Exec(ctx, procedure.Call{
			Procedure: processes.proc("Create"),
			Args:      []any{in.Name, in.Description, in.WorkstationID, *in.ProcessTime, *in.SetupTime, actor, actor},
			Fallback: `INSERT INTO Processes (processName, description, workstationId, processTime, setupTime,
					isActive, CreatedBy, UpdatedBy, createdAt, updatedAt)
				VALUES (?, ?, ?, ?, ?, 1, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		})
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		id, err := insertedID(res)
		if err != nil {
			return err
		}

		for _, tv := range in.TechnicalValues {
			if tv.UnitID != nil {
				if err := requireActive(ctx, tx, units.name, "unitId", *tv.UnitID); err != nil {
					return err
				}
			}

			_, err := tx.Exec(ctx, procedure.Call{
				Procedure: "sp_ProcessTechnical_Create",
				Args:      []any{id, tv.UnitID, tv.Name, tv.Value.Ptr(), actor, actor},
				Fallback: `INSERT INTO ProcessTechnicals (processId, unitId, name, value, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt)
					VALUES (?, ?, ?, ?, 1, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			})
			if err != nil {
				return fmt.Errorf("technical value %q: %w", tv.Name, err)
			}
		}

		p, err = s.processWithTechnicals(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) ListProcesses(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Process], error) {
	const op = "storage.sqlstore.ListProcesses"

	q = q.Clamp()
	items, total, err := listPage[storage.Process](ctx, s.inv, processes, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		items[i].TechnicalValues, err = s.processTechnicals(ctx, s.inv, items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: technical values of %d: %w", op, items[i].ID, err)
		}
	}

	return storage.NewPage(items, total, q), nil
}

func (s *Storage) GetProcess(ctx context.Context, id int64) (*storage.Process, error) {
	const op = "storage.sqlstore.GetProcess"

	p, err := s.processWithTechnicals(ctx, s.inv, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) UpdateProcess(ctx context.Context, patch storage.ProcessPatch, actor int64) (*storage.Process, error) {
	const op = "storage.sqlstore.UpdateProcess"

	if err := s.check(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var p *storage.Process
	err := updateActive(ctx, s, processes, patch.ID, func(tx procedure.Session, current *storage.Process) error {
		processTime := patch.ProcessTime.Or(current.ProcessTime)
		setupTime := patch.SetupTime.Or(current.SetupTime)
		merged := storage.ProcessInput{
			Name:          strings.TrimSpace(patch.Name.Or(current.Name)),
			Description:   patch.Description.OrNullable(current.Description),
			WorkstationID: patch.WorkstationID.Or(current.WorkstationID),
			ProcessTime:   &processTime,
			SetupTime:     &setupTime,
		}
		if err := s.check(merged); err != nil {
			return err
		}

		if merged.WorkstationID != current.WorkstationID {
			if err := requireActive(ctx, tx, workstations.name, "workstationId", merged.WorkstationID); err != nil {
				return err
			}
		}

		_, err := tx.Exec(ctx, procedure.Call{
			Procedure: processes.proc("Update"),
			Args:      []any{merged.Name, merged.Description, merged.WorkstationID, processTime, setupTime, actor, patch.ID},
			Fallback: `UPDATE Processes SET processName = ?, description = ?, workstationId = ?, processTime = ?, setupTime = ?,
				UpdatedBy = ?, updatedAt = CURRENT_TIMESTAMP
			WHERE id = ? AND isActive = 1`,
		})
		if err != nil {
			return err
		}

		p, err = s.processWithTechnicals(ctx, tx, patch.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) DeleteProcess(ctx context.Context, id, actor int64) (*storage.Process, error) {
	const op = "storage.sqlstore.DeleteProcess"

	p, err := setActive[storage.Process](ctx, s, processes, id, actor, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) ReactivateProcess(ctx context.Context, id, actor int64) (*storage.Process, error) {
	const op = "storage.sqlstore.ReactivateProcess"

	p, err := setActive[storage.Process](ctx, s, processes, id, actor, true, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) processWithTechnicals(ctx context.Context, ses procedure.Session, id int64) (*storage.Process, error) {
	p, err := getActive[storage.Process](ctx, ses, processes, id)
	if err != nil {
		return nil, err
	}

	p.TechnicalValues, err = s.processTechnicals(ctx, ses, id)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Storage) processTechnicals(ctx context.Context, ses procedure.Session, processID int64) ([]storage.ProcessTechnical, error) {
	cur, err := ses.Query(ctx, procedure.Call{
		Procedure: "sp_ProcessTechnical_GetByProcessId",
		Args:      []any{processID},
		Fallback: `SELECT id, processId, unitId, name, value, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt
			FROM ProcessTechnicals
			WHERE processId = ? AND isActive = 1
			ORDER BY id`,
	})
	if err != nil {
		return nil, err
	}

	return procedure.All[storage.ProcessTechnical](cur)
}
