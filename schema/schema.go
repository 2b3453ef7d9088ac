package schema

// Category groups operations into the fixed emission order.
type Category int

const (
	CategoryCreateTable = Category(iota)
	CategoryAddColumn
	CategoryDropColumn
	CategoryForeignKey
	CategoryDropTable

	categoryCount = int(CategoryDropTable) + 1
)

func (c Category) String() string {
	switch c {
	case CategoryCreateTable:
		return "CREATE TABLE"
	case CategoryAddColumn:
		return "ADD COLUMN"
	case CategoryDropColumn:
		return "DROP COLUMN"
	case CategoryForeignKey:
		return "FOREIGN KEY"
	case CategoryDropTable:
		return "DROP TABLE"
	default:
		return "UNKNOWN"
	}
}

// Operation is one discrete schema change decided by the generator.
type Operation interface {
	Table() string
	Category() Category
}

type CreateTable struct {
	TableName  string
	Columns    []*Column
	PrimaryKey []string
	// Physical is set when column types are already catalog types and must not be mapped.
	Physical bool
}

// AddColumn adds a column that exists in the model only. Chain holds the assertions that
// must immediately follow it, in order: not-null, default, primary-key rebuild.
type AddColumn struct {
	TableName string
	Column    *Column
	Chain     []Operation
}

type AlterColumnType struct {
	TableName  string
	ColumnName string
	Type       string
}

type AlterColumnNullability struct {
	TableName  string
	ColumnName string
	Type       string // some flavors restate the type when changing nullability
	NotNull    bool
}

// AlterColumnDefault sets a column default. A nil Default clears it.
type AlterColumnDefault struct {
	TableName  string
	ColumnName string
	Default    *string
}

type DropPrimaryKey struct {
	TableName string
}

type SetPrimaryKey struct {
	TableName string
	Columns   []string
}

type AddForeignKey struct {
	TableName       string
	ColumnName      string
	ReferenceTable  string
	ReferenceColumn string
}

type DropColumn struct {
	TableName  string
	ColumnName string
}

type DropTable struct {
	TableName string
}

func (o *CreateTable) Table() string            { return o.TableName }
func (o *AddColumn) Table() string              { return o.TableName }
func (o *AlterColumnType) Table() string        { return o.TableName }
func (o *AlterColumnNullability) Table() string { return o.TableName }
func (o *AlterColumnDefault) Table() string     { return o.TableName }
func (o *DropPrimaryKey) Table() string         { return o.TableName }
func (o *SetPrimaryKey) Table() string          { return o.TableName }
func (o *AddForeignKey) Table() string          { return o.TableName }
func (o *DropColumn) Table() string             { return o.TableName }
func (o *DropTable) Table() string              { return o.TableName }

func (o *CreateTable) Category() Category            { return CategoryCreateTable }
func (o *AddColumn) Category() Category              { return CategoryAddColumn }
func (o *AlterColumnType) Category() Category        { return CategoryAddColumn }
func (o *AlterColumnNullability) Category() Category { return CategoryAddColumn }
func (o *AlterColumnDefault) Category() Category     { return CategoryAddColumn }
func (o *DropPrimaryKey) Category() Category         { return CategoryAddColumn }
func (o *SetPrimaryKey) Category() Category          { return CategoryAddColumn }
func (o *AddForeignKey) Category() Category          { return CategoryForeignKey }
func (o *DropColumn) Category() Category             { return CategoryDropColumn }
func (o *DropTable) Category() Category              { return CategoryDropTable }
