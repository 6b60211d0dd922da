package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/clynamic/scrollstack/internal/apperror"
)

// Field pairs a column name with a value to write.
type Field struct {
	Column string
	Value  any
}

// PatchField appends a field only when the pointer is set. Update mappers
// use it so that nil fields of an update payload leave the row unchanged.
func PatchField[T any](fields []Field, column string, value *T) []Field {
	if value == nil {
		return fields
	}
	return append(fields, Field{Column: column, Value: *value})
}

// Scanner is the subset of sql.Rows a row mapper needs.
type Scanner interface {
	Scan(dest ...any) error
}

// Mapping connects a resource's wire types to its table.
type Mapping[Req, Model, Upd any] struct {
	// Scan reads one row, in Table.Columns order, into a Model.
	Scan func(Scanner) (Model, error)
	// Insert lists the fields written on create.
	Insert func(Req) []Field
	// Patch lists the fields written on update. Unset fields of the
	// update must be omitted; an empty result means nothing to write.
	Patch func(Upd) []Field
}

// Service is the generic paged CRUD engine. It is stateless per call;
// each operation runs in its own transaction.
type Service[Req, Model, Upd any, ID any] struct {
	db       *DB
	table    Table[ID]
	mapping  Mapping[Req, Model, Upd]
	resource string
}

// NewService instantiates the engine for one resource. resource names the
// entity in not-found errors ("user", "content", ...).
func NewService[Req, Model, Upd any, ID any](
	db *DB,
	table Table[ID],
	resource string,
	mapping Mapping[Req, Model, Upd],
) *Service[Req, Model, Upd, ID] {
	return &Service[Req, Model, Upd, ID]{
		db:       db,
		table:    table,
		mapping:  mapping,
		resource: resource,
	}
}

// Create inserts a new row populated from the request and returns the
// driver-assigned integer key. Composite-key tables insert through here
// too and ignore the returned id, since their id is the request itself.
func (s *Service[Req, Model, Upd, ID]) Create(ctx context.Context, req Req) (int64, error) {
	fields := s.mapping.Insert(req)

	columns := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		columns[i] = field.Column
		placeholders[i] = "?"
		args[i] = field.Value
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table.Name(),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	var id int64
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("store: inserting %s: %w", s.resource, err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("store: reading insert id for %s: %w", s.resource, err)
		}
		return nil
	})
	return id, err
}

// Read selects the row matching id, or fails with a not-found error when
// zero rows match.
func (s *Service[Req, Model, Upd, ID]) Read(ctx context.Context, id ID) (Model, error) {
	found, err := s.ReadOrNull(ctx, id)
	if err != nil {
		var zero Model
		return zero, err
	}
	if found == nil {
		var zero Model
		return zero, apperror.NotFound(s.resource, id)
	}
	return *found, nil
}

// ReadOrNull selects the row matching id, returning nil when it does not
// exist.
func (s *Service[Req, Model, Upd, ID]) ReadOrNull(ctx context.Context, id ID) (*Model, error) {
	where, args := s.table.Selector(id)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(s.table.Columns(), ", "), s.table.Name(), where)

	var found *Model
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("store: selecting %s: %w", s.resource, err)
		}
		defer rows.Close()

		if rows.Next() {
			m, err := s.mapping.Scan(rows)
			if err != nil {
				return fmt.Errorf("store: scanning %s row: %w", s.resource, err)
			}
			found = &m
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Page selects one pagination window over the whole table.
func (s *Service[Req, Model, Upd, ID]) Page(ctx context.Context, page Page) ([]Model, error) {
	return s.PageWhere(ctx, page, "")
}

// PageWhere selects one pagination window with an extra predicate. The
// predicate applies before the window, so page numbers count rows of the
// filtered set, not of the whole table.
func (s *Service[Req, Model, Upd, ID]) PageWhere(ctx context.Context, page Page, where string, args ...any) ([]Model, error) {
	limit, offset := page.window()

	var query strings.Builder
	fmt.Fprintf(&query, "SELECT %s FROM %s",
		strings.Join(s.table.Columns(), ", "), s.table.Name())
	if where != "" {
		query.WriteString(" WHERE " + where)
	}
	query.WriteString(page.orderBy(s.table.Columns()))
	query.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	models := make([]Model, 0, limit)
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query.String(), args...)
		if err != nil {
			return fmt.Errorf("store: paging %s: %w", s.resource, err)
		}
		defer rows.Close()

		for rows.Next() {
			m, err := s.mapping.Scan(rows)
			if err != nil {
				return fmt.Errorf("store: scanning %s row: %w", s.resource, err)
			}
			models = append(models, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return models, nil
}

// Update applies the fields present in the update payload, leaving the
// rest of the row unchanged. It fails with a not-found error when no row
// matched the id. An update with no fields set still performs the
// existence check, so the not-found contract holds either way.
func (s *Service[Req, Model, Upd, ID]) Update(ctx context.Context, id ID, upd Upd) error {
	fields := s.mapping.Patch(upd)
	if len(fields) == 0 {
		found, err := s.ReadOrNull(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return apperror.NotFound(s.resource, id)
		}
		return nil
	}

	sets := make([]string, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, field := range fields {
		sets[i] = field.Column + " = ?"
		args = append(args, field.Value)
	}
	where, whereArgs := s.table.Selector(id)
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		s.table.Name(), strings.Join(sets, ", "), where)

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("store: updating %s: %w", s.resource, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: checking rows affected: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound(s.resource, id)
		}
		return nil
	})
}

// Delete removes the row matching id, failing with a not-found error when
// no row matched.
func (s *Service[Req, Model, Upd, ID]) Delete(ctx context.Context, id ID) error {
	where, args := s.table.Selector(id)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", s.table.Name(), where)

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("store: deleting %s: %w", s.resource, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: checking rows affected: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound(s.resource, id)
		}
		return nil
	})
}
