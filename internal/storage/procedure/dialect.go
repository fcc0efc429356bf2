package procedure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// mysqlErrNoSuchProcedure is ER_SP_DOES_NOT_EXIST.
const mysqlErrNoSuchProcedure = 1305

type Dialect interface {
	Name() string
	CallStatement(procedure string, nargs int) string
	IsProcedureMissing(err error) bool
	// LastInsertIDStatement reads the id generated on the current connection.
	LastInsertIDStatement() string
	// RowLock is appended to a SELECT that must lock the rows it reads
	// until the transaction ends.
	RowLock() string
}

func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case DriverMySQL:
		return MySQL{}, nil
	case DriverSQLite, "sqlite3":
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("storage.procedure.DialectFor: unsupported driver %q", driver)
	}
}

type MySQL struct{}

func (MySQL) Name() string { return DriverMySQL }

func (MySQL) CallStatement(procedure string, nargs int) string {
	return callStatement(procedure, nargs)
}

func (MySQL) IsProcedureMissing(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrNoSuchProcedure {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "PROCEDURE") && strings.Contains(msg, "does not exist")
}

func (MySQL) LastInsertIDStatement() string { return "SELECT LAST_INSERT_ID()" }

func (MySQL) RowLock() string { return " FOR UPDATE" }

// SQLite has no stored procedures. The CALL is rejected by the parser and
// treated as a missing procedure, so every call takes the fallback.
type SQLite struct{}

func (SQLite) Name() string { return DriverSQLite }

func (SQLite) CallStatement(procedure string, nargs int) string {
	return callStatement(procedure, nargs)
}

func (SQLite) IsProcedureMissing(err error) bool {
	return strings.Contains(err.Error(), `near "CALL"`)
}

func (SQLite) LastInsertIDStatement() string { return "SELECT last_insert_rowid()" }

// RowLock is empty: a sqlite write transaction already locks the database.
func (SQLite) RowLock() string { return "" }

func callStatement(procedure string, nargs int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", nargs), ", ")
	return fmt.Sprintf("CALL %s(%s)", procedure, placeholders)
}

type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open opens and pings the pool for driver and returns it with its dialect.
func Open(ctx context.Context, driver, dsn string, pool Pool) (*sql.DB, Dialect, error) {
	const op = "storage.procedure.Open"

	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(dialect.Name(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%s: %w: %w", op, ErrConnectivity, err)
	}

	return db, dialect, nil
}
