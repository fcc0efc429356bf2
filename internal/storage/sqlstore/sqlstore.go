package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"

	"route-api/internal/config"
	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type Storage struct {
	inv      *procedure.Invoker
	validate *validator.Validate
}

func New(inv *procedure.Invoker) *Storage {
	return &Storage{inv: inv, validate: newValidator()}
}

// Connect opens the configured database and wraps it in a Storage.
func Connect(ctx context.Context, cfg config.Database, log *slog.Logger) (*Storage, error) {
	const op = "storage.sqlstore.Connect"

	dsn, err := DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, dialect, err := procedure.Open(ctx, cfg.Driver, dsn, procedure.Pool{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return New(procedure.New(db, dialect, log)), nil
}

func DSN(cfg config.Database) (string, error) {
	switch cfg.Driver {
	case procedure.DriverMySQL:
		c := mysql.NewConfig()
		c.User = cfg.User
		c.Passwd = cfg.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		c.DBName = cfg.Name
		c.ParseTime = true
		// Affected rows must count matched rows for the conditional updates.
		c.ClientFoundRows = true
		return c.FormatDSN(), nil
	case procedure.DriverSQLite:
		return "file:" + cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// ApplySchema creates the tables shipped for the current dialect. It is used
// for local sqlite runs and tests; production schemas are managed elsewhere.
func (s *Storage) ApplySchema(ctx context.Context) error {
	const op = "storage.sqlstore.ApplySchema"

	ddl, err := schemaFS.ReadFile("schema/" + s.inv.Dialect().Name() + ".sql")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, stmt := range strings.Split(string(ddl), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.inv.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.inv.DB().PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.inv.DB().Close()
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check turns validator failures into a storage.ValidationError naming the
// json fields.
func (s *Storage) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
			field = rest
		}

		switch fe.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "gte":
			problems = append(problems, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid", field))
		}
	}

	return &storage.ValidationError{Problems: problems}
}

// table describes one entity table for the shared read and lifecycle helpers.
type table struct {
	entity  string
	name    string
	columns string
	search  []string
	sort    storage.SortRule
}

func (t table) proc(verb string) string {
	return "sp_" + t.entity + "_" + verb
}

// getActive reads an active row through sp_<Entity>_GetById.
func getActive[T any](ctx context.Context, ses procedure.Session, t table, id int64) (*T, error) {
	cur, err := ses.Query(ctx, procedure.Call{
		Procedure: t.proc("GetById"),
		Args:      []any{id},
		Fallback:  fmt.Sprintf("SELECT %s FROM %s WHERE id = ? AND isActive = 1", t.columns, t.name),
	})
	if err != nil {
		return nil, err
	}

	row, err := procedure.One[T](cur)
	if procedure.IsNoRows(err) {
		return nil, storage.ErrNotFound
	}

	return row, err
}

// getAny reads a row regardless of its active flag.
func getAny[T any](ctx context.Context, ses procedure.Session, t table, id int64) (*T, error) {
	cur, err := ses.Query(ctx, procedure.Call{
		Args:     []any{id},
		Fallback: fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", t.columns, t.name),
	})
	if err != nil {
		return nil, err
	}

	row, err := procedure.One[T](cur)
	if procedure.IsNoRows(err) {
		return nil, storage.ErrNotFound
	}

	return row, err
}

// state reports whether the row exists and whether it is active.
func state(ctx context.Context, ses procedure.Session, tableName string, id int64) (found, active bool, err error) {
	return readState(ctx, ses, "SELECT isActive FROM "+tableName+" WHERE id = ?", id)
}

// lockState is state with the row locked until the transaction ends.
func (s *Storage) lockState(ctx context.Context, tx procedure.Session, tableName string, id int64) (found, active bool, err error) {
	return readState(ctx, tx, "SELECT isActive FROM "+tableName+" WHERE id = ?"+s.inv.Dialect().RowLock(), id)
}

func readState(ctx context.Context, ses procedure.Session, stmt string, id int64) (found, active bool, err error) {
	cur, err := ses.Query(ctx, procedure.Call{
		Args:     []any{id},
		Fallback: stmt,
	})
	if err != nil {
		return false, false, err
	}

	active, err = procedure.Scalar[bool](cur)
	if procedure.IsNoRows(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}

	return true, active, nil
}

// requireActive fails with ErrInvalidReference unless the referenced row is
// active.
func requireActive(ctx context.Context, ses procedure.Session, tableName, field string, id int64) error {
	_, active, err := state(ctx, ses, tableName, id)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("invalid %s %d: %w", field, id, storage.ErrInvalidReference)
	}

	return nil
}

// updateActive locks the row, fails with ErrNotFound or ErrInactive unless it
// is active, and hands the current row to write on the same transaction.
// The affected-row count of the write is never consulted: a CALL reports the
// rows of its last statement only.
func updateActive[T any](ctx context.Context, s *Storage, t table, id int64, write func(tx procedure.Session, current *T) error) error {
	return s.inv.InTx(ctx, func(tx procedure.Session) error {
		found, active, err := s.lockState(ctx, tx, t.name, id)
		if err != nil {
			return err
		}

		switch {
		case !found:
			return fmt.Errorf("%s %d: %w", strings.ToLower(t.entity), id, storage.ErrNotFound)
		case !active:
			return fmt.Errorf("%s %d: %w", strings.ToLower(t.entity), id, storage.ErrInactive)
		}

		current, err := getAny[T](ctx, tx, t, id)
		if err != nil {
			return err
		}

		return write(tx, current)
	})
}

// setActive moves isActive to the wanted state through sp_<Entity>_Delete or
// sp_<Entity>_Reactivate and returns the row after the change. The state is
// checked on the locked row before the call and read back after it, so a
// procedure that toggles can never flip a row the wrong way. guard, when
// set, sees the locked row before the change.
func setActive[T any](ctx context.Context, s *Storage, t table, id, actor int64, activate bool, guard func(tx procedure.Session, current *T) error) (*T, error) {
	verb, from, to, already := "Delete", 1, 0, storage.ErrAlreadyDeleted
	if activate {
		verb, from, to, already = "Reactivate", 0, 1, storage.ErrAlreadyActive
	}

	var row *T
	err := s.inv.InTx(ctx, func(tx procedure.Session) error {
		found, active, err := s.lockState(ctx, tx, t.name, id)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		if active == activate {
			return already
		}

		if guard != nil {
			current, err := getAny[T](ctx, tx, t, id)
			if err != nil {
				return err
			}
			if err := guard(tx, current); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, procedure.Call{
			Procedure: t.proc(verb),
			Args:      []any{actor, id},
			Fallback: fmt.Sprintf(
				"UPDATE %s SET isActive = %d, UpdatedBy = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ? AND isActive = %d",
				t.name, to, from,
			),
		})
		if err != nil {
			return err
		}

		_, now, err := state(ctx, tx, t.name, id)
		if err != nil {
			return err
		}
		if now != activate {
			return fmt.Errorf("%s left %s %d unchanged", t.proc(verb), strings.ToLower(t.entity), id)
		}

		row, err = getAny[T](ctx, tx, t, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

// listPage runs the count and the page query for an active-row listing. The
// search term, when present, matches any of the table's search columns.
func listPage[T any](ctx context.Context, ses procedure.Session, t table, q storage.ListQuery) ([]T, int, error) {
	where := "isActive = 1"
	var args []any

	if q.Search != "" {
		like := make([]string, 0, len(t.search))
		for _, col := range t.search {
			like = append(like, col+" LIKE ?")
			args = append(args, "%"+q.Search+"%")
		}
		where += " AND (" + strings.Join(like, " OR ") + ")"
	}

	cur, err := ses.Query(ctx, procedure.Call{
		Args:     args,
		Fallback: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", t.name, where),
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := procedure.Scalar[int](cur)
	if err != nil {
		return nil, 0, err
	}

	column, direction := t.sort.Resolve(q.SortBy, q.SortOrder)
	cur, err = ses.Query(ctx, procedure.Call{
		Args: append(args, q.PerPage, q.Offset()),
		Fallback: fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s %s, id ASC LIMIT ? OFFSET ?",
			t.columns, t.name, where, column, direction),
	})
	if err != nil {
		return nil, 0, err
	}

	items, err := procedure.All[T](cur)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// uniqueClash reports whether an active row other than excludeID already
// holds the given column values.
func uniqueClash(ctx context.Context, ses procedure.Session, tableName string, columns []string, values []any, excludeID int64) (bool, error) {
	conds := make([]string, 0, len(columns))
	for _, c := range columns {
		conds = append(conds, c+" = ?")
	}

	cur, err := ses.Query(ctx, procedure.Call{
		Args: append(values, excludeID),
		Fallback: fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s AND isActive = 1 AND id <> ?",
			tableName, strings.Join(conds, " AND ")),
	})
	if err != nil {
		return false, err
	}

	n, err := procedure.Scalar[int](cur)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func insertedID(res interface{ LastInsertId() (int64, error) }) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("no generated id returned")
	}
	return id, nil
}
