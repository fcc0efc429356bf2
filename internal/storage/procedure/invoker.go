package procedure

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Call is one procedure invocation. Fallback is the plain SQL statement run
// with the same Args when the procedure does not exist.
type Call struct {
	Procedure string
	Args      []any
	Commit    bool
	Fallback  string
}

func (c Call) name() string {
	if c.Procedure != "" {
		return c.Procedure
	}
	return "fallback"
}

// Session is what entity services talk to: either the Invoker itself, one
// connection per call, or a transaction opened by InTx.
type Session interface {
	Query(ctx context.Context, call Call) (*Cursor, error)
	Exec(ctx context.Context, call Call) (sql.Result, error)
}

// querier is the part of *sql.Conn and *sql.Tx a single attempt needs.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Invoker struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger
}

func New(db *sql.DB, dialect Dialect, log *slog.Logger) *Invoker {
	return &Invoker{db: db, dialect: dialect, log: log}
}

func (i *Invoker) DB() *sql.DB { return i.db }

func (i *Invoker) Dialect() Dialect { return i.dialect }

// Query runs the call on a fresh connection. The caller owns the cursor.
// With Commit set the read runs in a transaction committed on Close.
func (i *Invoker) Query(ctx context.Context, call Call) (*Cursor, error) {
	const op = "storage.procedure.Query"

	var cur *Cursor
	err := i.attempt(ctx, op, call, func(stmt string) error {
		conn, tx, err := i.acquire(ctx, op, call.Commit)
		if err != nil {
			return err
		}

		var q querier = conn
		if tx != nil {
			q = tx
		}

		rows, err := q.QueryContext(ctx, stmt, call.Args...)
		if err != nil {
			release(conn, tx)
			return &StatementError{Statement: stmt, Err: err}
		}

		cur = newCursor(rows, conn, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cur, nil
}

// Exec runs a write on a fresh connection inside a transaction. The
// transaction is committed only when Commit is set.
func (i *Invoker) Exec(ctx context.Context, call Call) (sql.Result, error) {
	const op = "storage.procedure.Exec"

	var res sql.Result
	err := i.attempt(ctx, op, call, func(stmt string) error {
		conn, tx, err := i.acquire(ctx, op, true)
		if err != nil {
			return err
		}
		defer release(conn, tx)

		r, err := i.exec(ctx, tx, stmt, call)
		if err != nil {
			return err
		}

		if call.Commit {
			if err := tx.Commit(); err != nil {
				return &StatementError{Statement: "COMMIT", Err: err}
			}
		}

		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// InTx runs fn on one connection and one transaction. Any error from fn rolls
// everything back.
func (i *Invoker) InTx(ctx context.Context, fn func(Session) error) error {
	const op = "storage.procedure.InTx"

	conn, tx, err := i.acquire(ctx, op, true)
	if err != nil {
		return err
	}
	defer release(conn, tx)

	if err := fn(&txSession{inv: i, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// attempt runs the procedure and on a missing procedure the fallback. run is
// called at most twice, each time with its own connection.
func (i *Invoker) attempt(ctx context.Context, op string, call Call, run func(stmt string) error) error {
	if call.Procedure == "" {
		if call.Fallback == "" {
			return fmt.Errorf("%s: %w", op, ErrNoStatement)
		}
		i.log.DebugContext(ctx, "running statement", slog.String("op", op), slog.String("path", "fallback"))
		return run(call.Fallback)
	}

	err := run(i.dialect.CallStatement(call.Procedure, len(call.Args)))
	if err == nil {
		i.log.DebugContext(ctx, "procedure called", slog.String("op", op),
			slog.String("procedure", call.Procedure), slog.String("path", "procedure"))
		return nil
	}

	if !i.dialect.IsProcedureMissing(err) {
		return err
	}

	if call.Fallback == "" {
		return fmt.Errorf("%s: %s: %w", op, call.Procedure, ErrProcedureNotFound)
	}

	i.log.DebugContext(ctx, "procedure missing, running fallback", slog.String("op", op),
		slog.String("procedure", call.Procedure), slog.String("path", "fallback"))

	return run(call.Fallback)
}

func (i *Invoker) acquire(ctx context.Context, op string, withTx bool) (*sql.Conn, *sql.Tx, error) {
	conn, err := i.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrConnectivity, err)
	}

	if !withTx {
		return conn, nil, nil
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("%s: begin transaction: %w: %w", op, ErrConnectivity, err)
	}

	return conn, tx, nil
}

// release rolls back an unfinished transaction and returns the connection.
func release(conn *sql.Conn, tx *sql.Tx) {
	if tx != nil {
		_ = tx.Rollback()
	}
	_ = conn.Close()
}

// exec runs stmt and materializes the result while the connection is still
// held. A CALL does not always report the generated id, so it is read back
// from the connection when the driver gives zero.
func (i *Invoker) exec(ctx context.Context, q querier, stmt string, call Call) (sql.Result, error) {
	r, err := q.ExecContext(ctx, stmt, call.Args...)
	if err != nil {
		return nil, &StatementError{Statement: stmt, Err: err}
	}

	res := result{}
	if res.affected, err = r.RowsAffected(); err != nil {
		return nil, &StatementError{Statement: stmt, Err: err}
	}

	res.id, err = r.LastInsertId()
	if err != nil || (res.id == 0 && stmt != call.Fallback) {
		lastID := i.dialect.LastInsertIDStatement()
		if err := q.QueryRowContext(ctx, lastID).Scan(&res.id); err != nil {
			return nil, &StatementError{Statement: lastID, Err: err}
		}
	}

	return res, nil
}

type result struct {
	id       int64
	affected int64
}

func (r result) LastInsertId() (int64, error) { return r.id, nil }

func (r result) RowsAffected() (int64, error) { return r.affected, nil }

// txSession runs calls on an open transaction. A missing procedure falls
// back on the same transaction.
type txSession struct {
	inv *Invoker
	tx  *sql.Tx
}

func (s *txSession) Query(ctx context.Context, call Call) (*Cursor, error) {
	const op = "storage.procedure.txSession.Query"

	var cur *Cursor
	err := s.inv.attempt(ctx, op, call, func(stmt string) error {
		rows, err := s.tx.QueryContext(ctx, stmt, call.Args...)
		if err != nil {
			return &StatementError{Statement: stmt, Err: err}
		}
		cur = newCursor(rows, nil, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cur, nil
}

func (s *txSession) Exec(ctx context.Context, call Call) (sql.Result, error) {
	const op = "storage.procedure.txSession.Exec"

	var res sql.Result
	err := s.inv.attempt(ctx, op, call, func(stmt string) error {
		r, err := s.inv.exec(ctx, s.tx, stmt, call)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
