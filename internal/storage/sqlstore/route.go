package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

var routes = table{
	entity:  "Route",
	name:    "Routes",
	columns: "id, routeName, description, isMainRoute, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt",
	search:  []string{"routeName", "description"},
	sort: storage.SortRule{
		Default: "routeName",
		Allowed: []string{"routeName", "id", "isMainRoute", "createdAt"},
	},
}

func (s *Storage) CreateRoute(ctx context.Context, in storage.RouteInput, actor int64) (*storage.Route, error) {
	const op = "storage.sqlstore.CreateRoute"

	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	isMain := true
	if in.IsMainRoute != nil {
		isMain = *in.IsMainRoute
	}

	var route *storage.Route
	err := s.inv.InTx(ctx, func(tx procedure.Session) error {
		res, err := tx.Exec(ctx, procedure.Call{
			Procedure: routes.proc("Create"),
			Args:      []any{in.Name, in.Description, isMain, actor, actor},
			Fallback: `INSERT INTO Routes (routeName, description, isMainRoute, isActive, CreatedBy, UpdatedBy, createdAt, updatedAt)
				VALUES (?, ?, ?, 1, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		})
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		id, err := insertedID(res)
		if err != nil {
			return err
		}

		for i, step := range in.ProcessSequence {
			order := step.ProcessOrder
			if order == 0 {
				order = i + 1
			}

			if err := requireActive(ctx, tx, processes.name, "processId", step.ProcessID); err != nil {
				return err
			}

			_, err := tx.Exec(ctx, procedure.Call{
				Procedure: "sp_RouteProcess_Create",
				Args:      []any{id, step.ProcessID, order},
				Fallback:  `INSERT INTO RouteProcess (routeId, processId, processOrder, isActive) VALUES (?, ?, ?, 1)`,
			})
			if err != nil {
				return fmt.Errorf("sequence step %d: %w", order, err)
			}
		}

		route, err = s.routeWithSequence(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return route, nil
}

func (s *Storage) ListRoutes(ctx context.Context, q storage.ListQuery) (*storage.Page[storage.Route], error) {
	const op = "storage.sqlstore.ListRoutes"

	q = q.Clamp()
	items, total, err := listPage[storage.Route](ctx, s.inv, routes, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		items[i].ProcessSequence, err = s.routeSequence(ctx, s.inv, items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: sequence of %d: %w", op, items[i].ID, err)
		}
	}

	return storage.NewPage(items, total, q), nil
}

func (s *Storage) GetRoute(ctx context.Context, id int64) (*storage.Route, error) {
	const op = "storage.sqlstore.GetRoute"

	route, err := s.routeWithSequence(ctx, s.inv, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return route, nil
}

// GetRouteCard returns the active route with its ordered processes resolved,
// for the route card export.
func (s *Storage) GetRouteCard(ctx context.Context, id int64) (*storage.Route, []storage.Process, error) {
	const op = "storage.sqlstore.GetRouteCard"

	route, err := s.routeWithSequence(ctx, s.inv, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	steps := make([]storage.Process, 0, len(route.ProcessSequence))
	for _, rp := range route.ProcessSequence {
		p, err := getAny[storage.Process](ctx, s.inv, processes, rp.ProcessID)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: process %d: %w", op, rp.ProcessID, err)
		}

		p.TechnicalValues, err = s.processTechnicals(ctx, s.inv, p.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: technical values of %d: %w", op, p.ID, err)
		}

		steps = append(steps, *p)
	}

	return route, steps, nil
}

func (s *Storage) UpdateRoute(ctx context.Context, patch storage.RoutePatch, actor int64) (*storage.Route, error) {
	const op = "storage.sqlstore.UpdateRoute"

	if err := s.check(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var route *storage.Route
	err := updateActive(ctx, s, routes, patch.ID, func(tx procedure.Session, current *storage.Route) error {
		isMain := patch.IsMainRoute.Or(current.IsMainRoute)
		merged := storage.RouteInput{
			Name:        strings.TrimSpace(patch.Name.Or(current.Name)),
			Description: patch.Description.OrNullable(current.Description),
			IsMainRoute: &isMain,
		}
		if err := s.check(merged); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, procedure.Call{
			Procedure: routes.proc("Update"),
			Args:      []any{merged.Name, merged.Description, isMain, actor, patch.ID},
			Fallback: `UPDATE Routes SET routeName = ?, description = ?, isMainRoute = ?, UpdatedBy = ?, updatedAt = CURRENT_TIMESTAMP
			WHERE id = ? AND isActive = 1`,
		})
		if err != nil {
			return err
		}

		route, err = s.routeWithSequence(ctx, tx, patch.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return route, nil
}

func (s *Storage) DeleteRoute(ctx context.Context, id, actor int64) (*storage.Route, error) {
	const op = "storage.sqlstore.DeleteRoute"

	route, err := setActive[storage.Route](ctx, s, routes, id, actor, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return route, nil
}

func (s *Storage) ReactivateRoute(ctx context.Context, id, actor int64) (*storage.Route, error) {
	const op = "storage.sqlstore.ReactivateRoute"

	route, err := setActive[storage.Route](ctx, s, routes, id, actor, true, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return route, nil
}

func (s *Storage) routeWithSequence(ctx context.Context, ses procedure.Session, id int64) (*storage.Route, error) {
	route, err := getActive[storage.Route](ctx, ses, routes, id)
	if err != nil {
		return nil, err
	}

	route.ProcessSequence, err = s.routeSequence(ctx, ses, id)
	if err != nil {
		return nil, err
	}

	return route, nil
}

func (s *Storage) routeSequence(ctx context.Context, ses procedure.Session, routeID int64) ([]storage.RouteProcess, error) {
	cur, err := ses.Query(ctx, procedure.Call{
		Procedure: "sp_RouteProcess_GetByRouteId",
		Args:      []any{routeID},
		Fallback: `SELECT id, routeId, processId, processOrder, isActive
			FROM RouteProcess
			WHERE routeId = ? AND isActive = 1
			ORDER BY processOrder ASC, id ASC`,
	})
	if err != nil {
		return nil, err
	}

	return procedure.All[storage.RouteProcess](cur)
}
