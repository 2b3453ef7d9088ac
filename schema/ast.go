package schema

// Column is the canonical column descriptor shared by both sides of the diff.
// Model columns carry a logical Type and ReferenceTable; catalog columns carry a
// physical Type, a Length and ConstraintName.
type Column struct {
	Name    string
	Type    string
	Length  int // 0 when the catalog reports no length
	NotNull bool
	Default *string // nil means "no default"; see NormalizeDefault

	PrimaryKey bool // model side only
	Identity   bool // catalog side only

	ReferenceTable  string // model side: FK target table, "" for plain columns
	ReferenceColumn string // model side: FK target column, "" to use the target's primary key
	ConstraintName  string // catalog side: non-empty when a foreign key already exists
}

// Table is an identifier plus its columns in declaration (model) or catalog order.
type Table struct {
	Name    string
	Columns []*Column

	index map[string]*Column
}

func NewTable(name string) *Table {
	return &Table{
		Name:  name,
		index: map[string]*Column{},
	}
}

// AddColumn appends a column. A later column with the same canonical name shadows the
// earlier one in lookups but both stay in Columns.
func (t *Table) AddColumn(column *Column) {
	if t.index == nil {
		t.index = map[string]*Column{}
	}
	t.Columns = append(t.Columns, column)
	t.index[NormalizeIdentifierName(column.Name)] = column
}

// Column looks a column up by case-insensitive name.
func (t *Table) Column(name string) (*Column, bool) {
	column, ok := t.index[NormalizeIdentifierName(name)]
	return column, ok
}

func (t *Table) PrimaryKeys() []*Column {
	var keys []*Column
	for _, column := range t.Columns {
		if column.PrimaryKey {
			keys = append(keys, column)
		}
	}
	return keys
}

// Tables is an insertion-ordered collection of tables keyed by canonical name.
type Tables struct {
	order  []*Table
	byName map[string]*Table
}

func NewTables() *Tables {
	return &Tables{
		byName: map[string]*Table{},
	}
}

// Add registers a table. It returns false without adding when a table with the same
// canonical name already exists.
func (ts *Tables) Add(table *Table) bool {
	key := NormalizeIdentifierName(table.Name)
	if _, ok := ts.byName[key]; ok {
		return false
	}
	ts.byName[key] = table
	ts.order = append(ts.order, table)
	return true
}

// Get looks a table up by case-insensitive name.
func (ts *Tables) Get(name string) (*Table, bool) {
	if ts == nil {
		return nil, false
	}
	table, ok := ts.byName[NormalizeIdentifierName(name)]
	return table, ok
}

func (ts *Tables) Contains(name string) bool {
	_, ok := ts.Get(name)
	return ok
}

// All returns the tables in insertion order.
func (ts *Tables) All() []*Table {
	if ts == nil {
		return nil
	}
	return ts.order
}

func (ts *Tables) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.order)
}

// Filter returns a new collection holding the tables for which keep returns true.
func (ts *Tables) Filter(keep func(*Table) bool) *Tables {
	filtered := NewTables()
	for _, table := range ts.All() {
		if keep(table) {
			filtered.Add(table)
		}
	}
	return filtered
}

// NormalizeDefault folds the "no default" states ("" and nil) into nil.
func NormalizeDefault(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func StringPtr(s string) *string {
	return &s
}
