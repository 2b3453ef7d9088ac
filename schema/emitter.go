package schema

import (
	"fmt"
	"strings"

	"github.com/erddef/erddef/util"
)

const indent = "   "

var banners = map[Category]string{
	CategoryCreateTable: "-------------------------------CREATE TABLE-------------------------------\n",
	CategoryAddColumn:   "--------------------------------ADD COLUMN--------------------------------\n",
	CategoryDropColumn:  "-------------------------------DROP COLUMN--------------------------------\n",
	CategoryForeignKey:  "-------------------------------FOREIGN KEY--------------------------------\n",
	CategoryDropTable:   "-------------------------------DROP TABLE---------------------------------\n",
}

// Emitter renders operations into statements of one flavor. It makes no decisions.
type Emitter struct {
	mode     GeneratorMode
	schema   string
	skipDrop bool
}

func NewEmitter(mode GeneratorMode, schemaName string, skipDrop bool) *Emitter {
	return &Emitter{
		mode:     mode,
		schema:   schemaName,
		skipDrop: skipDrop,
	}
}

// Render returns the banner-delimited script. Empty categories are omitted and an empty
// operation list renders as "".
func (e *Emitter) Render(ops []Operation) string {
	var b strings.Builder
	for _, group := range GroupOperations(ops) {
		category := group[0].Category()
		b.WriteString(banners[category])
		for _, op := range group {
			for _, stmt := range e.Statements(op) {
				if e.skipDrop && isDropCategory(category) {
					fmt.Fprintf(&b, "-- Skipped: %s;\n", stmt)
				} else {
					fmt.Fprintf(&b, "%s;\n", stmt)
				}
				if category == CategoryCreateTable || category == CategoryForeignKey {
					b.WriteString("\n")
				}
			}
		}
		b.WriteString(banners[category])
		b.WriteString("\n")
	}
	return b.String()
}

// StatementList flattens ops into executable statements without trailing semicolons.
func (e *Emitter) StatementList(ops []Operation) []string {
	var stmts []string
	for _, op := range ops {
		stmts = append(stmts, e.Statements(op)...)
	}
	return stmts
}

// Statements renders one operation followed by its chained assertions.
func (e *Emitter) Statements(op Operation) []string {
	switch op := op.(type) {
	case *CreateTable:
		return []string{e.createTable(op)}
	case *AddColumn:
		stmts := []string{e.addColumn(op)}
		for _, chained := range op.Chain {
			if e.mode == GeneratorModeSQLite3 && isFoldedIntoAddColumn(chained) {
				continue
			}
			stmts = append(stmts, e.Statements(chained)...)
		}
		return stmts
	case *AlterColumnType:
		return []string{e.alterColumnType(op)}
	case *AlterColumnNullability:
		return []string{e.alterColumnNullability(op)}
	case *AlterColumnDefault:
		return e.alterColumnDefault(op)
	case *DropPrimaryKey:
		return []string{e.dropPrimaryKey(op)}
	case *SetPrimaryKey:
		return []string{fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)", e.qualify(op.TableName), strings.Join(op.Columns, ", "))}
	case *AddForeignKey:
		return []string{e.addForeignKey(op)}
	case *DropColumn:
		return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", e.qualify(op.TableName), op.ColumnName)}
	case *DropTable:
		return []string{fmt.Sprintf("DROP TABLE %s", e.qualify(op.TableName))}
	default:
		panic(fmt.Sprintf("unexpected operation type in Statements: %T", op))
	}
}

func (e *Emitter) qualify(name string) string {
	if e.schema == "" {
		return name
	}
	return e.schema + "." + name
}

func (e *Emitter) createTable(op *CreateTable) string {
	definitions := util.TransformSlice(op.Columns, func(column *Column) string {
		return indent + e.columnDefinition(column, !op.Physical, true)
	})
	if len(op.PrimaryKey) > 0 {
		definitions = append(definitions, fmt.Sprintf("%sPRIMARY KEY(%s)", indent, strings.Join(op.PrimaryKey, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s(\n%s\n)", e.qualify(op.TableName), strings.Join(definitions, ",\n"))
}

// columnDefinition renders "name TYPE [NOT NULL] [DEFAULT x] [identity]". Constraints are
// only inlined when requested; ADD COLUMN chains them as separate statements instead.
func (e *Emitter) columnDefinition(column *Column, mapType bool, inline bool) string {
	typ := column.Type
	if mapType {
		typ = PhysicalType(e.mode, column.Type)
	}

	definition := column.Name + " " + typ
	if inline && column.NotNull {
		definition += " NOT NULL"
	}
	if defaultValue := NormalizeDefault(column.Default); inline && defaultValue != nil {
		definition += " DEFAULT " + *defaultValue
	}
	if (column.PrimaryKey || column.Identity) && isIntegerType(e.mode, typ) {
		definition += e.identityClause()
	}
	return definition
}

func (e *Emitter) identityClause() string {
	switch e.mode {
	case GeneratorModeMysql:
		return " AUTO_INCREMENT"
	case GeneratorModeMssql:
		return " IDENTITY(1,1)"
	case GeneratorModeSQLite3:
		return ""
	default:
		return " GENERATED BY DEFAULT AS IDENTITY"
	}
}

func (e *Emitter) addColumn(op *AddColumn) string {
	// SQLite cannot alter a column after adding it, so its chain is folded into the definition.
	definition := e.columnDefinition(op.Column, true, e.mode == GeneratorModeSQLite3)
	switch e.mode {
	case GeneratorModeMssql, GeneratorModeOracle:
		return fmt.Sprintf("ALTER TABLE %s ADD %s", e.qualify(op.TableName), definition)
	default:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", e.qualify(op.TableName), definition)
	}
}

func (e *Emitter) alterColumnType(op *AlterColumnType) string {
	table := e.qualify(op.TableName)
	switch e.mode {
	case GeneratorModeMysql:
		return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s", table, op.ColumnName, op.Type)
	case GeneratorModeMssql:
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s", table, op.ColumnName, op.Type)
	case GeneratorModeOracle:
		return fmt.Sprintf("ALTER TABLE %s MODIFY (%s %s)", table, op.ColumnName, op.Type)
	default:
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DATA TYPE %s", table, op.ColumnName, op.Type)
	}
}

func (e *Emitter) alterColumnNullability(op *AlterColumnNullability) string {
	table := e.qualify(op.TableName)
	null := "NULL"
	if op.NotNull {
		null = "NOT NULL"
	}
	switch e.mode {
	case GeneratorModeMysql:
		return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s %s", table, op.ColumnName, op.Type, null)
	case GeneratorModeMssql:
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s %s", table, op.ColumnName, op.Type, null)
	case GeneratorModeOracle:
		return fmt.Sprintf("ALTER TABLE %s MODIFY (%s %s)", table, op.ColumnName, null)
	default:
		if op.NotNull {
			return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", table, op.ColumnName)
		}
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", table, op.ColumnName)
	}
}

func (e *Emitter) alterColumnDefault(op *AlterColumnDefault) []string {
	table := e.qualify(op.TableName)
	value := "null"
	if op.Default != nil {
		value = *op.Default
	}
	switch e.mode {
	case GeneratorModeMssql:
		// A column holds at most one default constraint, and its name is generated.
		stmts := []string{mssqlDropDefault(table, op.ColumnName)}
		if op.Default != nil {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD DEFAULT %s FOR %s", table, value, op.ColumnName))
		}
		return stmts
	case GeneratorModeOracle:
		return []string{fmt.Sprintf("ALTER TABLE %s MODIFY (%s DEFAULT %s)", table, op.ColumnName, value)}
	default:
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", table, op.ColumnName, value)}
	}
}

// mssqlDropDefault drops the default constraint of a column, if it has one.
func mssqlDropDefault(table string, column string) string {
	var b strings.Builder
	b.WriteString("DECLARE @df sysname;\n")
	b.WriteString("SELECT @df = dc.name FROM sys.default_constraints dc\n")
	fmt.Fprintf(&b, "%sJOIN sys.columns c ON c.object_id = dc.parent_object_id AND c.column_id = dc.parent_column_id\n", indent)
	fmt.Fprintf(&b, "%sWHERE dc.parent_object_id = OBJECT_ID('%s') AND c.name = '%s';\n", indent, table, column)
	fmt.Fprintf(&b, "IF @df IS NOT NULL EXEC('ALTER TABLE %s DROP CONSTRAINT ' + QUOTENAME(@df))", table)
	return b.String()
}

func (e *Emitter) dropPrimaryKey(op *DropPrimaryKey) string {
	table := e.qualify(op.TableName)
	switch e.mode {
	case GeneratorModePostgres:
		return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s_pkey", table, strings.ToLower(op.TableName))
	case GeneratorModeMssql:
		return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT PK_%s", table, op.TableName)
	default:
		return fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY", table)
	}
}

func (e *Emitter) addForeignKey(op *AddForeignKey) string {
	constraintName := util.BuildConstraintName(op.TableName, op.ColumnName, "fkey", e.mode.identifierLimit())

	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s\n", e.qualify(op.TableName))
	fmt.Fprintf(&b, "%sADD CONSTRAINT %s FOREIGN KEY (%s)\n", indent, constraintName, op.ColumnName)
	fmt.Fprintf(&b, "%s%sREFERENCES %s (%s)", indent, indent, e.qualify(op.ReferenceTable), op.ReferenceColumn)
	switch e.mode {
	case GeneratorModeOracle:
		// no ON UPDATE clause
	case GeneratorModeMssql:
		fmt.Fprintf(&b, "\n%s%s%sON UPDATE NO ACTION", indent, indent, indent)
	default:
		fmt.Fprintf(&b, "\n%s%s%sON UPDATE RESTRICT", indent, indent, indent)
	}
	fmt.Fprintf(&b, "\n%s%s%sON DELETE CASCADE", indent, indent, indent)
	return b.String()
}

func isDropCategory(category Category) bool {
	return category == CategoryDropColumn || category == CategoryDropTable
}

func isFoldedIntoAddColumn(op Operation) bool {
	switch op.(type) {
	case *AlterColumnNullability, *AlterColumnDefault:
		return true
	default:
		return false
	}
}
