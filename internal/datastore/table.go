package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Schema describes how a model maps onto a table. The integer primary key is
// always the "id" column and is assigned by the database; tables also carry an
// updated_at column touched on every replace.
type Schema struct {
	Name    string   // Table name
	Columns []string // Writable columns, matching the model's db tags
}

// Table provides id-keyed CRUD for one model type. M must carry db struct
// tags for "id" and every column in the schema.
type Table[M any] struct {
	ds     *Datastore
	schema Schema

	insertSQL  string
	selectSQL  string
	findSQL    string
	existsSQL  string
	replaceSQL string
	deleteSQL  string
}

// NewTable builds the queries for schema once; statements are prepared lazily
func NewTable[M any](ds *Datastore, schema Schema) *Table[M] {
	cols := strings.Join(schema.Columns, ", ")
	named := make([]string, len(schema.Columns))
	sets := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		named[i] = ":" + c
		sets[i] = c + " = :" + c
	}
	selectCols := "id, " + cols

	return &Table[M]{
		ds:         ds,
		schema:     schema,
		insertSQL:  fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", schema.Name, cols, strings.Join(named, ", ")),
		selectSQL:  fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC", selectCols, schema.Name),
		findSQL:    fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", selectCols, schema.Name),
		existsSQL:  fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", schema.Name),
		replaceSQL: fmt.Sprintf("UPDATE %s SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = ?", schema.Name, strings.Join(sets, ", ")),
		deleteSQL:  fmt.Sprintf("DELETE FROM %s WHERE id = ?", schema.Name),
	}
}

// Insert stores m and returns the row as persisted, including its new id
func (t *Table[M]) Insert(ctx context.Context, m M) (M, error) {
	var zero M

	query, args, err := sqlx.Named(t.insertSQL, m)
	if err != nil {
		return zero, fmt.Errorf("failed to bind %s insert: %w", t.schema.Name, err)
	}
	res, err := t.exec(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("failed to insert into %s: %w", t.schema.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return zero, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	// Fetch the created row to return the full entity
	stored, found, err := t.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, fmt.Errorf("inserted %s row %d not found", t.schema.Name, id)
	}
	return stored, nil
}

// FindByID returns the row with id; found is false when there is none
func (t *Table[M]) FindByID(ctx context.Context, id int64) (M, bool, error) {
	return t.get(ctx, t.findSQL, id)
}

// FindBy returns the first row whose column equals value. column must be
// one of the schema's columns.
func (t *Table[M]) FindBy(ctx context.Context, column string, value any) (M, bool, error) {
	if !slices.Contains(t.schema.Columns, column) {
		var zero M
		return zero, false, fmt.Errorf("unknown column %q for %s", column, t.schema.Name)
	}
	query := fmt.Sprintf("SELECT id, %s FROM %s WHERE %s = ? ORDER BY id ASC LIMIT 1",
		strings.Join(t.schema.Columns, ", "), t.schema.Name, column)
	return t.get(ctx, query, value)
}

// ExistsByID checks if a row exists by its ID
func (t *Table[M]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	stmt, err := t.ds.stmts.Get(ctx, t.existsSQL)
	if err != nil {
		return false, fmt.Errorf("failed to prepare %s existence check: %w", t.schema.Name, err)
	}
	var exists bool
	if err := stmt.QueryRowxContext(ctx, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", t.schema.Name, err)
	}
	return exists, nil
}

// ReplaceByID overwrites every writable column of row id with m's values.
// The id carried by m is ignored. found is false when no row matched.
func (t *Table[M]) ReplaceByID(ctx context.Context, id int64, m M) (M, bool, error) {
	var zero M

	query, args, err := sqlx.Named(t.replaceSQL, m)
	if err != nil {
		return zero, false, fmt.Errorf("failed to bind %s update: %w", t.schema.Name, err)
	}
	args = append(args, id)

	res, err := t.exec(ctx, query, args...)
	if err != nil {
		return zero, false, fmt.Errorf("failed to update %s: %w", t.schema.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return zero, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return zero, false, nil
	}

	return t.FindByID(ctx, id)
}

// DeleteByID deletes a row by its ID and reports whether one was removed
func (t *Table[M]) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := t.exec(ctx, t.deleteSQL, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", t.schema.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// ScanAll retrieves every row ordered by id. The result is never nil.
func (t *Table[M]) ScanAll(ctx context.Context) ([]M, error) {
	stmt, err := t.ds.stmts.Get(ctx, t.selectSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s scan: %w", t.schema.Name, err)
	}
	rows := []M{}
	if err := stmt.SelectContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.schema.Name, err)
	}
	return rows, nil
}

func (t *Table[M]) get(ctx context.Context, query string, args ...any) (M, bool, error) {
	var m M
	stmt, err := t.ds.stmts.Get(ctx, query)
	if err != nil {
		return m, false, fmt.Errorf("failed to prepare %s lookup: %w", t.schema.Name, err)
	}
	if err := stmt.GetContext(ctx, &m, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, false, nil
		}
		return m, false, fmt.Errorf("failed to find %s row: %w", t.schema.Name, err)
	}
	return m, true, nil
}

func (t *Table[M]) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := t.ds.stmts.Get(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, args...)
}
