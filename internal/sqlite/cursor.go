// This file adapts *sql.Rows to the Cursor row source used by the grouper.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/songbird/pkg/types"
)

// Cursor is a forward-only row source with typed accessors on the current
// row. Next must be called before the first row is read, as with *sql.Rows.
type Cursor interface {
	// Next advances to the next row. It returns false when the rows are
	// exhausted or an error occurred; Err tells the two apart.
	Next() bool

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Int64 reads a non-NULL integer column.
	Int64(col string) (int64, error)

	// NullInt64 reads an integer column that may be NULL.
	NullInt64(col string) (sql.NullInt64, error)

	// NullString reads a text column that may be NULL.
	NullString(col string) (sql.NullString, error)
}

// rowsCursor reads columns by name from *sql.Rows. Each row is scanned once
// into a reusable buffer when Next is called.
type rowsCursor struct {
	rows   *sql.Rows
	index  map[string]int
	values []any
	ptrs   []any
	err    error
}

// newRowsCursor wraps rows. The caller keeps ownership of rows and must
// close them.
func newRowsCursor(rows *sql.Rows) (*rowsCursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: read columns: %w", types.ErrDataAccess, err)
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	c := &rowsCursor{
		rows:   rows,
		index:  index,
		values: make([]any, len(cols)),
		ptrs:   make([]any, len(cols)),
	}
	for i := range c.values {
		c.ptrs[i] = &c.values[i]
	}
	return c, nil
}

func (c *rowsCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = fmt.Errorf("%w: %w", types.ErrDataAccess, err)
		}
		return false
	}
	if err := c.rows.Scan(c.ptrs...); err != nil {
		c.err = fmt.Errorf("%w: scan row: %w", types.ErrDataAccess, err)
		return false
	}
	return true
}

func (c *rowsCursor) Err() error {
	return c.err
}

func (c *rowsCursor) value(col string) (any, error) {
	i, ok := c.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: no column %q in result", types.ErrDataAccess, col)
	}
	return c.values[i], nil
}

func (c *rowsCursor) Int64(col string) (int64, error) {
	n, err := c.NullInt64(col)
	if err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, fmt.Errorf("%w: column %q is NULL", types.ErrDataAccess, col)
	}
	return n.Int64, nil
}

func (c *rowsCursor) NullInt64(col string) (sql.NullInt64, error) {
	v, err := c.value(col)
	if err != nil {
		return sql.NullInt64{}, err
	}
	var n sql.NullInt64
	if err := n.Scan(v); err != nil {
		return sql.NullInt64{}, fmt.Errorf("%w: column %q: %w", types.ErrDataAccess, col, err)
	}
	return n, nil
}

func (c *rowsCursor) NullString(col string) (sql.NullString, error) {
	v, err := c.value(col)
	if err != nil {
		return sql.NullString{}, err
	}
	var s sql.NullString
	if err := s.Scan(v); err != nil {
		return sql.NullString{}, fmt.Errorf("%w: column %q: %w", types.ErrDataAccess, col, err)
	}
	return s, nil
}
