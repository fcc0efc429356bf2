package procedure

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
)

var mapper = reflectx.NewMapperFunc("db", strings.ToLower)

// Cursor is an open result set. It may own the connection and the
// transaction it was read on; Close releases all of them.
type Cursor struct {
	rows   *sqlx.Rows
	conn   *sql.Conn
	tx     *sql.Tx
	closed bool
}

func newCursor(rows *sql.Rows, conn *sql.Conn, tx *sql.Tx) *Cursor {
	return &Cursor{
		rows: &sqlx.Rows{Rows: rows, Mapper: mapper},
		conn: conn,
		tx:   tx,
	}
}

func (c *Cursor) Next() bool { return c.rows.Next() }

func (c *Cursor) Scan(dest ...any) error { return c.rows.Scan(dest...) }

// StructScan maps the current row onto a struct with db tags.
func (c *Cursor) StructScan(dest any) error { return c.rows.StructScan(dest) }

func (c *Cursor) Err() error { return c.rows.Err() }

// Close is safe to call more than once. An owned transaction is committed
// only if the rows were read without error.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.rows.Close()
	if rowsErr := c.rows.Err(); err == nil {
		err = rowsErr
	}

	if c.tx != nil {
		if err == nil {
			err = c.tx.Commit()
		} else {
			_ = c.tx.Rollback()
		}
	}

	if c.conn != nil {
		if cerr := c.conn.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

// All reads every remaining row into a slice and closes the cursor.
func All[T any](cur *Cursor) ([]T, error) {
	defer cur.Close()

	items := make([]T, 0)
	for cur.Next() {
		var item T
		if err := cur.StructScan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return items, cur.Close()
}

// One reads the first row and closes the cursor. No row gives sql.ErrNoRows.
func One[T any](cur *Cursor) (*T, error) {
	defer cur.Close()

	if !cur.Next() {
		if err := cur.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}

	var item T
	if err := cur.StructScan(&item); err != nil {
		return nil, err
	}

	return &item, cur.Close()
}

// Scalar reads a single column of the first row and closes the cursor.
func Scalar[T any](cur *Cursor) (T, error) {
	defer cur.Close()

	var v T
	if !cur.Next() {
		if err := cur.Err(); err != nil {
			return v, err
		}
		return v, sql.ErrNoRows
	}

	if err := cur.Scan(&v); err != nil {
		return v, err
	}

	return v, cur.Close()
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
