package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/opskit/stockroom/pkg/observability"
)

// Driver names accepted by OpenGateway
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// SQLGateway implements Gateway over database/sql for postgres and sqlite.
type SQLGateway struct {
	db      *sql.DB
	driver  string
	tables  map[string]Table
	timeout time.Duration
	logger  *observability.Logger
	metrics *observability.Metrics
}

// OpenGateway opens the configured backend, verifies connectivity, ensures
// the schema, and returns a ready gateway.
func OpenGateway(cfg Config, logger *observability.Logger, metrics *observability.Metrics) (*SQLGateway, error) {
	var (
		db     *sql.DB
		driver string
		err    error
	)

	switch cfg.Type {
	case "postgres":
		driver = DriverPostgres
		db, err = sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres connection: %w", err)
		}
		db.SetMaxOpenConns(cfg.PostgresMaxConns)
		db.SetMaxIdleConns(cfg.PostgresMinConns)
		db.SetConnMaxLifetime(1 * time.Hour)
		db.SetConnMaxIdleTime(10 * time.Minute)
	case "sqlite":
		driver = DriverSQLite
		db, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("invalid storage type: %s (must be postgres or sqlite)", cfg.Type)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	g := &SQLGateway{
		db:      db,
		driver:  driver,
		tables:  Tables,
		timeout: cfg.QueryTimeout,
		logger:  logger,
		metrics: metrics,
	}

	if err := g.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return g, nil
}

// NewSQLGateway wraps an existing database handle. Used by tests with sqlmock.
func NewSQLGateway(db *sql.DB, driver string, logger *observability.Logger, metrics *observability.Metrics) *SQLGateway {
	return &SQLGateway{
		db:      db,
		driver:  driver,
		tables:  Tables,
		logger:  logger,
		metrics: metrics,
	}
}

// DB exposes the underlying handle for health checks and pool gauges
func (g *SQLGateway) DB() *sql.DB {
	return g.db
}

// Close closes the database handle
func (g *SQLGateway) Close() error {
	return g.db.Close()
}

// ensureSchema creates missing tables
func (g *SQLGateway) ensureSchema(ctx context.Context) error {
	ddl := schemaPostgres
	if g.driver == DriverSQLite {
		ddl = schemaSQLite
	}
	for _, stmt := range ddl {
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// placeholder returns the driver's bind marker for the 1-based position n
func (g *SQLGateway) placeholder(n int) string {
	if g.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (g *SQLGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return ctx, func() {}
}

func (g *SQLGateway) observe(operation, table string, start time.Time, err error) {
	if g.metrics != nil {
		g.metrics.ObserveStorageOperation(operation, table, time.Since(start), err)
	}
}

// sortedKeys returns the field names in deterministic order so generated SQL
// is stable (and mockable).
func sortedKeys(fields map[string]interface{}) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Insert implements Gateway
func (g *SQLGateway) Insert(ctx context.Context, table string, fields map[string]interface{}) (rec Record, err error) {
	start := time.Now()
	defer func() { g.observe("insert", table, start, err) }()

	t, ok := g.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to insert", ErrUnknownColumn)
	}

	cols := sortedKeys(fields)
	args := make([]interface{}, 0, len(cols))
	marks := make([]string, 0, len(cols))
	for i, col := range cols {
		if !contains(t.Insertable, col) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, col)
		}
		args = append(args, fields[col])
		marks = append(marks, g.placeholder(i+1))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Name,
		strings.Join(cols, ", "),
		strings.Join(marks, ", "),
		strings.Join(t.Columns, ", "),
	)

	qctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rec, err = g.scanRow(g.db.QueryRowContext(qctx, query, args...), t)
	if err != nil {
		return nil, g.translateError(err, table)
	}
	return rec, nil
}

// Update implements Gateway
func (g *SQLGateway) Update(ctx context.Context, table string, id int64, fields map[string]interface{}) (rec Record, err error) {
	start := time.Now()
	defer func() { g.observe("update", table, start, err) }()

	t, ok := g.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrUnknownColumn)
	}

	cols := sortedKeys(fields)
	args := make([]interface{}, 0, len(cols)+1)
	assignments := make([]string, 0, len(cols))
	for i, col := range cols {
		if !contains(t.Updatable, col) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, col)
		}
		assignments = append(assignments, fmt.Sprintf("%s = %s", col, g.placeholder(i+1)))
		args = append(args, fields[col])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = %s RETURNING %s",
		t.Name,
		strings.Join(assignments, ", "),
		t.IDColumn,
		g.placeholder(len(cols)+1),
		strings.Join(t.Columns, ", "),
	)

	qctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rec, err = g.scanRow(g.db.QueryRowContext(qctx, query, args...), t)
	if err != nil {
		return nil, g.translateError(err, table)
	}
	return rec, nil
}

// Delete implements Gateway
func (g *SQLGateway) Delete(ctx context.Context, table string, id int64) (err error) {
	start := time.Now()
	defer func() { g.observe("delete", table, start, err) }()

	t, ok := g.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", t.Name, t.IDColumn, g.placeholder(1))

	qctx, cancel := g.withTimeout(ctx)
	defer cancel()

	result, execErr := g.db.ExecContext(qctx, query, id)
	if execErr != nil {
		err = g.translateError(execErr, table)
		return err
	}
	affected, raErr := result.RowsAffected()
	if raErr != nil {
		err = fmt.Errorf("delete from %s: %w", table, raErr)
		return err
	}
	if affected == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

// Get implements Gateway
func (g *SQLGateway) Get(ctx context.Context, table string, id int64) (Record, error) {
	t, ok := g.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return g.GetByField(ctx, table, t.IDColumn, id)
}

// GetByField implements Gateway
func (g *SQLGateway) GetByField(ctx context.Context, table string, column string, value interface{}) (rec Record, err error) {
	start := time.Now()
	defer func() { g.observe("get", table, start, err) }()

	t, ok := g.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = %s",
		strings.Join(t.Columns, ", "),
		t.Name,
		column,
		g.placeholder(1),
	)

	qctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rec, err = g.scanRow(g.db.QueryRowContext(qctx, query, value), t)
	if err != nil {
		return nil, g.translateError(err, table)
	}
	return rec, nil
}

// List implements Gateway
func (g *SQLGateway) List(ctx context.Context, table string) (records []Record, err error) {
	start := time.Now()
	defer func() { g.observe("list", table, start, err) }()

	t, ok := g.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s",
		strings.Join(t.Columns, ", "),
		t.Name,
		t.IDColumn,
	)

	qctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rows, queryErr := g.db.QueryContext(qctx, query)
	if queryErr != nil {
		err = g.translateError(queryErr, table)
		return nil, err
	}
	defer rows.Close()

	records = make([]Record, 0)
	for rows.Next() {
		rec, scanErr := scanColumns(rows, t.Columns)
		if scanErr != nil {
			err = fmt.Errorf("scan %s row: %w", table, scanErr)
			return nil, err
		}
		records = append(records, rec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		err = g.translateError(rowsErr, table)
		return nil, err
	}
	return records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (g *SQLGateway) scanRow(row *sql.Row, t Table) (Record, error) {
	return scanColumns(row, t.Columns)
}

func scanColumns(row rowScanner, columns []string) (Record, error) {
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := row.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(Record, len(columns))
	for i, col := range columns {
		// drivers hand text back as []byte; normalize for JSON encoding
		if b, ok := values[i].([]byte); ok {
			rec[col] = string(b)
			continue
		}
		rec[col] = values[i]
	}
	return rec, nil
}

// translateError maps driver errors onto the gateway's sentinel errors
func (g *SQLGateway) translateError(err error, table string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrConflict
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return ErrConflict
	}

	return fmt.Errorf("storage operation on %s failed: %w", table, err)
}
