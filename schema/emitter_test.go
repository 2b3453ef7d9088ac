package schema

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func scriptOperations() []Operation {
	return []Operation{
		&CreateTable{
			TableName: "ADDRESS",
			Columns: []*Column{
				{Name: "ID", Type: "INT", NotNull: true, PrimaryKey: true},
				{Name: "STREET", Type: "VARCHAR", Default: StringPtr("''")},
			},
			PrimaryKey: []string{"ID"},
		},
		&AddColumn{
			TableName: "PERSON",
			Column:    &Column{Name: "AGE", Type: "INT", NotNull: true, Default: StringPtr("0")},
			Chain: []Operation{
				&AlterColumnNullability{TableName: "PERSON", ColumnName: "AGE", Type: "INTEGER", NotNull: true},
				&AlterColumnDefault{TableName: "PERSON", ColumnName: "AGE", Default: StringPtr("0")},
			},
		},
		&AlterColumnType{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR(255)"},
		&DropColumn{TableName: "PERSON", ColumnName: "NICKNAME"},
		&AddForeignKey{TableName: "PERSON", ColumnName: "ADDRESS_ID", ReferenceTable: "ADDRESS", ReferenceColumn: "ID"},
		&DropTable{TableName: "LEGACY"},
	}
}

func TestRenderScript(t *testing.T) {
	g := goldie.New(t)

	t.Run("db2", func(t *testing.T) {
		script := NewEmitter(GeneratorModeDB2, "ERD", false).Render(scriptOperations())
		g.Assert(t, "db2_script", []byte(script))
	})
	t.Run("mssql", func(t *testing.T) {
		script := NewEmitter(GeneratorModeMssql, "dbo", false).Render(scriptOperations())
		g.Assert(t, "mssql_script", []byte(script))
	})
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", NewEmitter(GeneratorModeDB2, "", false).Render(nil))
}

func TestRenderSkipDrop(t *testing.T) {
	ops := []Operation{
		&DropColumn{TableName: "PERSON", ColumnName: "NICKNAME"},
		&DropTable{TableName: "LEGACY"},
	}
	expected := "-------------------------------DROP COLUMN--------------------------------\n" +
		"-- Skipped: ALTER TABLE PERSON DROP COLUMN NICKNAME;\n" +
		"-------------------------------DROP COLUMN--------------------------------\n" +
		"\n" +
		"-------------------------------DROP TABLE---------------------------------\n" +
		"-- Skipped: DROP TABLE LEGACY;\n" +
		"-------------------------------DROP TABLE---------------------------------\n" +
		"\n"
	assert.Equal(t, expected, NewEmitter(GeneratorModeDB2, "", true).Render(ops))
}

func TestStatementsPerFlavor(t *testing.T) {
	addAge := &AddColumn{
		TableName: "PERSON",
		Column:    &Column{Name: "AGE", Type: "INT", NotNull: true, Default: StringPtr("0")},
		Chain: []Operation{
			&AlterColumnNullability{TableName: "PERSON", ColumnName: "AGE", Type: "INTEGER", NotNull: true},
			&AlterColumnDefault{TableName: "PERSON", ColumnName: "AGE", Default: StringPtr("0")},
		},
	}

	tests := []struct {
		name     string
		mode     GeneratorMode
		op       Operation
		expected []string
	}{
		{
			name: "postgres add column",
			mode: GeneratorModePostgres,
			op:   addAge,
			expected: []string{
				"ALTER TABLE PERSON ADD COLUMN AGE INTEGER",
				"ALTER TABLE PERSON ALTER COLUMN AGE SET NOT NULL",
				"ALTER TABLE PERSON ALTER COLUMN AGE SET DEFAULT 0",
			},
		},
		{
			name:     "sqlite3 folds the chain",
			mode:     GeneratorModeSQLite3,
			op:       addAge,
			expected: []string{"ALTER TABLE PERSON ADD COLUMN AGE INTEGER NOT NULL DEFAULT 0"},
		},
		{
			name: "oracle add column",
			mode: GeneratorModeOracle,
			op:   addAge,
			expected: []string{
				"ALTER TABLE PERSON ADD AGE INTEGER",
				"ALTER TABLE PERSON MODIFY (AGE NOT NULL)",
				"ALTER TABLE PERSON MODIFY (AGE DEFAULT 0)",
			},
		},
		{
			name:     "mysql type change",
			mode:     GeneratorModeMysql,
			op:       &AlterColumnType{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR(255)"},
			expected: []string{"ALTER TABLE PERSON MODIFY COLUMN NAME VARCHAR(255)"},
		},
		{
			name:     "mysql nullability restates the type",
			mode:     GeneratorModeMysql,
			op:       &AlterColumnNullability{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR(255)"},
			expected: []string{"ALTER TABLE PERSON MODIFY COLUMN NAME VARCHAR(255) NULL"},
		},
		{
			name:     "db2 drop not null",
			mode:     GeneratorModeDB2,
			op:       &AlterColumnNullability{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR(255)"},
			expected: []string{"ALTER TABLE PERSON ALTER COLUMN NAME DROP NOT NULL"},
		},
		{
			name:     "clear default",
			mode:     GeneratorModeDB2,
			op:       &AlterColumnDefault{TableName: "PERSON", ColumnName: "NAME"},
			expected: []string{"ALTER TABLE PERSON ALTER COLUMN NAME SET DEFAULT null"},
		},
		{
			name: "mssql replaces default constraint",
			mode: GeneratorModeMssql,
			op:   &AlterColumnDefault{TableName: "PERSON", ColumnName: "AGE", Default: StringPtr("1")},
			expected: []string{
				"DECLARE @df sysname;\n" +
					"SELECT @df = dc.name FROM sys.default_constraints dc\n" +
					"   JOIN sys.columns c ON c.object_id = dc.parent_object_id AND c.column_id = dc.parent_column_id\n" +
					"   WHERE dc.parent_object_id = OBJECT_ID('PERSON') AND c.name = 'AGE';\n" +
					"IF @df IS NOT NULL EXEC('ALTER TABLE PERSON DROP CONSTRAINT ' + QUOTENAME(@df))",
				"ALTER TABLE PERSON ADD DEFAULT 1 FOR AGE",
			},
		},
		{
			name: "mssql clear default only drops",
			mode: GeneratorModeMssql,
			op:   &AlterColumnDefault{TableName: "PERSON", ColumnName: "AGE"},
			expected: []string{
				"DECLARE @df sysname;\n" +
					"SELECT @df = dc.name FROM sys.default_constraints dc\n" +
					"   JOIN sys.columns c ON c.object_id = dc.parent_object_id AND c.column_id = dc.parent_column_id\n" +
					"   WHERE dc.parent_object_id = OBJECT_ID('PERSON') AND c.name = 'AGE';\n" +
					"IF @df IS NOT NULL EXEC('ALTER TABLE PERSON DROP CONSTRAINT ' + QUOTENAME(@df))",
			},
		},
		{
			name: "primary key rebuild",
			mode: GeneratorModePostgres,
			op: &AddColumn{
				TableName: "Person",
				Column:    &Column{Name: "B", Type: "INT"},
				Chain: []Operation{
					&DropPrimaryKey{TableName: "Person"},
					&SetPrimaryKey{TableName: "Person", Columns: []string{"A", "B"}},
				},
			},
			expected: []string{
				"ALTER TABLE Person ADD COLUMN B INTEGER",
				"ALTER TABLE Person DROP CONSTRAINT person_pkey",
				"ALTER TABLE Person ADD PRIMARY KEY (A, B)",
			},
		},
		{
			name:     "mysql identity",
			mode:     GeneratorModeMysql,
			op:       &CreateTable{TableName: "T", Columns: []*Column{{Name: "ID", Type: "INT", NotNull: true, PrimaryKey: true}}, PrimaryKey: []string{"ID"}},
			expected: []string{"CREATE TABLE T(\n   ID INTEGER NOT NULL AUTO_INCREMENT,\n   PRIMARY KEY(ID)\n)"},
		},
		{
			name: "oracle foreign key has no update rule",
			mode: GeneratorModeOracle,
			op:   &AddForeignKey{TableName: "ORDERS", ColumnName: "CUSTOMER_ID", ReferenceTable: "CUSTOMER", ReferenceColumn: "ID"},
			expected: []string{"ALTER TABLE ORDERS\n" +
				"   ADD CONSTRAINT ORDERS_CUSTOMER_ID_fkey FOREIGN KEY (CUSTOMER_ID)\n" +
				"      REFERENCES CUSTOMER (ID)\n" +
				"         ON DELETE CASCADE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewEmitter(tt.mode, "", false).Statements(tt.op))
		})
	}
}

func TestRenderExport(t *testing.T) {
	catalog := BuildCatalog([]CatalogColumn{
		{TableName: "PERSON", ColumnName: "ID", Identity: true, Type: "INTEGER", Length: 4},
		{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR", Length: 100, Nullable: true, Default: StringPtr("'anon'")},
	})

	expected := "-------------------------------CREATE TABLE-------------------------------\n" +
		"CREATE TABLE PERSON(\n" +
		"   ID INTEGER NOT NULL GENERATED BY DEFAULT AS IDENTITY,\n" +
		"   NAME VARCHAR(100) DEFAULT 'anon'\n" +
		");\n" +
		"\n" +
		"-------------------------------CREATE TABLE-------------------------------\n" +
		"\n"
	assert.Equal(t, expected, NewEmitter(GeneratorModeDB2, "", false).Render(ExportOperations(catalog)))
}

func TestStatementListDropsBanners(t *testing.T) {
	stmts := NewEmitter(GeneratorModeDB2, "ERD", false).StatementList([]Operation{
		&DropColumn{TableName: "PERSON", ColumnName: "NICKNAME"},
		&DropTable{TableName: "LEGACY"},
	})
	assert.Equal(t, []string{
		"ALTER TABLE ERD.PERSON DROP COLUMN NICKNAME",
		"DROP TABLE ERD.LEGACY",
	}, stmts)
}
