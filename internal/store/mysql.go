package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations.
const mysqlDuplicateEntry = 1062

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Store on top of a MySQL connection pool.
type SQLStore[T any] struct {
	db     *sql.DB
	schema Schema[T]
	now    func() time.Time

	selectQuery string
	getQuery    string
	insertQuery string
	updateQuery string
	deleteQuery string
}

// NewSQLStore creates a SQLStore for the given schema.
func NewSQLStore[T any](db *sql.DB, schema Schema[T]) *SQLStore[T] {
	cols := strings.Join(schema.Columns, ", ")
	key := schema.Columns[0]

	assignments := make([]string, 0, len(schema.Columns)-1)
	for _, c := range schema.Columns[1:] {
		assignments = append(assignments, c+" = ?")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(schema.Columns)), ", ")

	return &SQLStore[T]{
		db:     db,
		schema: schema,
		now:    func() time.Time { return time.Now().UTC() },

		selectQuery: fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at, %s", cols, schema.Table, key),
		getQuery:    fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", cols, schema.Table, key),
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", schema.Table, cols, placeholders),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", schema.Table, strings.Join(assignments, ", "), key),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE %s = ?", schema.Table, key),
	}
}

// Create inserts a new row for entity.
func (s *SQLStore[T]) Create(ctx context.Context, entity *T) error {
	if s.schema.BeforeCreate != nil {
		s.schema.BeforeCreate(entity, s.now())
	}

	values, err := s.schema.Values(*entity)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", s.schema.Table, err)
	}

	if _, err := s.db.ExecContext(ctx, s.insertQuery, values...); err != nil {
		if isDuplicateEntryError(err) {
			return fmt.Errorf("store: create %s: %w", s.schema.Table, ErrDuplicate)
		}
		return fmt.Errorf("store: create %s: %w", s.schema.Table, err)
	}

	return nil
}

// Get retrieves a row by primary key.
func (s *SQLStore[T]) Get(ctx context.Context, id string, opts ...QueryOption) (T, error) {
	var entity T
	err := s.read(ctx, opts, func(q querier) error {
		var err error
		entity, err = s.schema.Scan(q.QueryRowContext(ctx, s.getQuery, id))
		return err
	})
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("store: get %s: %w", s.schema.Table, err)
	}

	return entity, nil
}

// GetOne retrieves the first row matching filter.
func (s *SQLStore[T]) GetOne(ctx context.Context, filter Filter[T], opts ...QueryOption) (T, error) {
	var (
		entity T
		found  bool
	)
	err := s.read(ctx, opts, func(q querier) error {
		return s.scanAll(ctx, q, func(v T) bool {
			if filter.Matches(v) {
				entity, found = v, true
				return false
			}
			return true
		})
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("store: get %s: %w", s.schema.Table, err)
	}
	if !found {
		var zero T
		return zero, ErrNotFound
	}

	return entity, nil
}

// GetAll retrieves every row matching filter.
func (s *SQLStore[T]) GetAll(ctx context.Context, filter Filter[T]) ([]T, error) {
	entities := make([]T, 0)
	err := s.scanAll(ctx, s.db, func(v T) bool {
		if filter.Matches(v) {
			entities = append(entities, v)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.schema.Table, err)
	}

	return entities, nil
}

// Save overwrites the row with the entity's primary key.
func (s *SQLStore[T]) Save(ctx context.Context, entity T) error {
	values, err := s.schema.Values(entity)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", s.schema.Table, err)
	}

	// SET columns come first, the key goes last into the WHERE clause.
	args := append(values[1:len(values):len(values)], values[0])

	result, err := s.db.ExecContext(ctx, s.updateQuery, args...)
	if err != nil {
		if isDuplicateEntryError(err) {
			return fmt.Errorf("store: save %s: %w", s.schema.Table, ErrDuplicate)
		}
		return fmt.Errorf("store: save %s: %w", s.schema.Table, err)
	}

	return expectAffected(result, s.schema.Table, "save")
}

// Remove deletes the row with the entity's primary key.
func (s *SQLStore[T]) Remove(ctx context.Context, entity T) error {
	result, err := s.db.ExecContext(ctx, s.deleteQuery, s.schema.ID(entity))
	if err != nil {
		return fmt.Errorf("store: remove %s: %w", s.schema.Table, err)
	}

	return expectAffected(result, s.schema.Table, "remove")
}

// read runs fn directly on the pool for tracked reads and inside a
// read-only transaction otherwise.
func (s *SQLStore[T]) read(ctx context.Context, opts []QueryOption, fn func(querier) error) error {
	if applyOptions(opts).tracked {
		return fn(s.db)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// scanAll streams every row in creation order to yield until it returns false.
func (s *SQLStore[T]) scanAll(ctx context.Context, q querier, yield func(T) bool) error {
	rows, err := q.QueryContext(ctx, s.selectQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		v, err := s.schema.Scan(rows)
		if err != nil {
			return err
		}
		if !yield(v) {
			break
		}
	}

	return rows.Err()
}

func expectAffected(result sql.Result, table, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: %s %s: %w", op, table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
