package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/erddef/erddef/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `
- schema: ERD
  table: PERSON
  column: ID
  identity: Y
  type: INTEGER
  length: 4
  nulls: N
- schema: ERD
  table: PERSON
  column: NAME
  type: VARCHAR
  length: 100
  default: "'anon'"
- schema: OTHER
  table: ACCOUNT
  column: ID
  type: INTEGER
  nulls: N
- table: SHARED
  column: ID
  type: INTEGER
  nulls: N
  constraint: SHARED_ID_FKEY
`

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestColumns(t *testing.T) {
	db := NewDatabase(writeSnapshot(t, "current.yml", snapshot))
	defer db.Close()

	columns, err := db.Columns(context.Background(), "erd")
	require.NoError(t, err)
	assert.Equal(t, []schema.CatalogColumn{
		{TableName: "PERSON", ColumnName: "ID", Identity: true, Type: "INTEGER", Length: 4},
		{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR", Length: 100, Nullable: true, Default: schema.StringPtr("'anon'")},
		{TableName: "SHARED", ColumnName: "ID", Type: "INTEGER", ConstraintName: "SHARED_ID_FKEY"},
	}, columns)

	all, err := db.Columns(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "", db.DefaultSchema())
}

func TestColumnsFromJSON(t *testing.T) {
	db := NewDatabase(writeSnapshot(t, "current.json", `[{"table": "PERSON", "column": "ID", "type": "INTEGER", "nulls": "N"}]`))

	columns, err := db.Columns(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []schema.CatalogColumn{
		{TableName: "PERSON", ColumnName: "ID", Type: "INTEGER"},
	}, columns)
}

func TestColumnsEmptySnapshot(t *testing.T) {
	db := NewDatabase(writeSnapshot(t, "current.yml", "\n"))

	columns, err := db.Columns(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestColumnsErrors(t *testing.T) {
	_, err := NewDatabase(filepath.Join(t.TempDir(), "missing.yml")).Columns(context.Background(), "")
	assert.ErrorIs(t, err, schema.ErrCatalogQuery)

	_, err = NewDatabase(writeSnapshot(t, "current.yml", "- table: PERSON\n  colum: ID\n")).Columns(context.Background(), "")
	assert.ErrorIs(t, err, schema.ErrCatalogQuery)
}
