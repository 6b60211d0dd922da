package store

// Table is the minimal contract the generic CRUD engine needs from a
// concrete storage table: its name, its known columns, and a way to turn
// an id into a row predicate. It carries no business logic.
type Table[ID any] interface {
	Name() string
	// Columns lists the column names in scan order. Sort keys are matched
	// against this list.
	Columns() []string
	// Selector returns a WHERE fragment and its arguments matching
	// exactly the rows identified by id.
	Selector(id ID) (string, []any)
}

// IntTable keys rows by a single auto-incrementing integer column,
// "id" unless overridden.
type IntTable struct {
	name     string
	idColumn string
	columns  []string
}

// NewIntTable describes an integer-keyed table. columns are the non-key
// columns; the key column is prepended automatically.
func NewIntTable(name string, columns ...string) *IntTable {
	return &IntTable{
		name:     name,
		idColumn: "id",
		columns:  append([]string{"id"}, columns...),
	}
}

// WithIDColumn overrides the default "id" key column.
func (t *IntTable) WithIDColumn(column string) *IntTable {
	t.idColumn = column
	t.columns[0] = column
	return t
}

func (t *IntTable) Name() string {
	return t.name
}

func (t *IntTable) Columns() []string {
	return t.columns
}

func (t *IntTable) IDColumn() string {
	return t.idColumn
}

func (t *IntTable) Selector(id int64) (string, []any) {
	return t.idColumn + " = ?", []any{id}
}
