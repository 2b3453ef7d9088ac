package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/erddef/erddef/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestParseGeneratorConfigString(t *testing.T) {
	config, err := ParseGeneratorConfigString("target_tables: |\n  PERSON\n  ORDERS\nskip_tables: |\n  LEGACY\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"PERSON", "ORDERS"}, config.TargetTables)
	assert.Equal(t, []string{"LEGACY"}, config.SkipTables)

	empty, err := ParseGeneratorConfigString("")
	require.NoError(t, err)
	assert.Equal(t, GeneratorConfig{}, empty)
}

func TestParseGeneratorConfigStringRejectsUnknownKeys(t *testing.T) {
	_, err := ParseGeneratorConfigString("target_table: PERSON\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid generator config")
}

func TestParseGeneratorConfig(t *testing.T) {
	config, err := ParseGeneratorConfig("")
	require.NoError(t, err)
	assert.Equal(t, GeneratorConfig{}, config)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("skip_tables: LEGACY\n"), 0o644))
	config, err = ParseGeneratorConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"LEGACY"}, config.SkipTables)

	_, err = ParseGeneratorConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestMergeGeneratorConfigs(t *testing.T) {
	merged := MergeGeneratorConfigs([]GeneratorConfig{
		{TargetTables: []string{"A"}, SkipTables: []string{"B"}},
		{SkipTables: []string{"C"}},
		{},
	})
	assert.Equal(t, GeneratorConfig{TargetTables: []string{"A"}, SkipTables: []string{"C"}}, merged)
}

func TestFilterTables(t *testing.T) {
	tables := schema.NewTables()
	for _, name := range []string{"PERSON", "ORDERS", "LEGACY"} {
		tables.Add(schema.NewTable(name))
	}
	names := func(tables *schema.Tables) []string {
		var names []string
		for _, table := range tables.All() {
			names = append(names, table.Name)
		}
		return names
	}

	assert.Equal(t, []string{"PERSON", "ORDERS", "LEGACY"}, names(FilterTables(tables, GeneratorConfig{})))
	assert.Equal(t, []string{"PERSON", "ORDERS"}, names(FilterTables(tables, GeneratorConfig{SkipTables: []string{"legacy"}})))
	assert.Equal(t, []string{"ORDERS"}, names(FilterTables(tables, GeneratorConfig{
		TargetTables: []string{"orders", "legacy"},
		SkipTables:   []string{"LEGACY"},
	})))
}

func TestParseFlag(t *testing.T) {
	for flag, expected := range map[string]bool{
		"Y":   true,
		"yes": true,
		" 1 ": true,
		"N":   false,
		"NO":  false,
		"":    false,
	} {
		assert.Equal(t, expected, ParseFlag(flag), flag)
	}
}

func TestQueryColumns(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE catalog_rows (
		schema_name TEXT, tab TEXT, col TEXT, ident TEXT, typ TEXT, len INTEGER, nulls TEXT, dflt TEXT, fk TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO catalog_rows VALUES
		('ERD', 'PERSON ', 'ID', 'Y', 'INTEGER', 4, 'N', NULL, NULL),
		('ERD', 'PERSON', 'NAME', 'N', 'VARCHAR ', 100, 'Y', '''anon''', NULL),
		('ERD', 'ORDERS', 'PERSON_ID', 'N', 'INTEGER', NULL, 'Y', NULL, 'FK_PERSON'),
		('OTHER', 'IGNORED', 'ID', 'N', 'INTEGER', 4, 'N', NULL, NULL)`)
	require.NoError(t, err)

	query := "SELECT tab, col, ident, typ, len, nulls, dflt, fk FROM catalog_rows WHERE schema_name = ? ORDER BY rowid"
	columns, err := QueryColumns(context.Background(), db, query, "ERD")
	require.NoError(t, err)

	expected := []schema.CatalogColumn{
		{TableName: "PERSON", ColumnName: "ID", Identity: true, Type: "INTEGER", Length: 4},
		{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR", Length: 100, Nullable: true, Default: schema.StringPtr("'anon'")},
		{TableName: "ORDERS", ColumnName: "PERSON_ID", Type: "INTEGER", Nullable: true, ConstraintName: "FK_PERSON"},
	}
	if diff := cmp.Diff(expected, columns); diff != "" {
		t.Errorf("QueryColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryColumnsFailure(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = QueryColumns(context.Background(), db, "SELECT * FROM missing_table WHERE x = ?", "ERD")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrCatalogQuery)
}
