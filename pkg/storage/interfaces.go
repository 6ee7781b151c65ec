package storage

import (
	"context"
	"errors"
)

// Record is a single database row keyed by column name.
type Record map[string]interface{}

// Int64 reads an integer column from the record, tolerating the driver
// representations the gateway may produce.
func (r Record) Int64(column string) int64 {
	switch v := r[column].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// String reads a text column from the record.
func (r Record) String(column string) string {
	switch v := r[column].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

var (
	// ErrNotFound is returned when no row matches the requested key.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an insert or update violates a unique
	// constraint.
	ErrConflict = errors.New("unique constraint violation")

	// ErrUnknownTable is returned for tables outside the registry.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnknownColumn is returned for columns outside a table's allow-list.
	ErrUnknownColumn = errors.New("unknown or immutable column")
)

// Gateway is the data-access gateway: parameterized reads and writes against
// named tables. Implementations are responsible for injection-safe binding;
// callers are responsible for passing only registered tables and columns.
type Gateway interface {
	// Insert creates a row from the field map and returns the stored row.
	Insert(ctx context.Context, table string, fields map[string]interface{}) (Record, error)

	// Update applies the field map to the row with the given id and returns
	// the updated row. Columns outside the table's updatable allow-list are
	// rejected with ErrUnknownColumn.
	Update(ctx context.Context, table string, id int64, fields map[string]interface{}) (Record, error)

	// Delete removes the row with the given id.
	Delete(ctx context.Context, table string, id int64) error

	// Get fetches the row with the given id.
	Get(ctx context.Context, table string, id int64) (Record, error)

	// GetByField fetches the first row where column = value, or ErrNotFound.
	GetByField(ctx context.Context, table string, column string, value interface{}) (Record, error)

	// List returns all rows of the table ordered by id.
	List(ctx context.Context, table string) ([]Record, error)

	// Close releases the underlying resources.
	Close() error
}
