package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog(t *testing.T) {
	rows := []CatalogColumn{
		{TableName: "ORDERS", ColumnName: "ID", Identity: true, Type: "INTEGER", Length: 4},
		{TableName: "ORDERS", ColumnName: "CUSTOMER_ID", Type: "INTEGER", Length: 4, Nullable: true, ConstraintName: "ORDERS_CUSTOMER_ID_FKEY"},
		{TableName: "PERSON", ColumnName: "NAME", Type: "VARCHAR", Length: 100, Nullable: true, Default: StringPtr("")},
		{TableName: "PERSON", ColumnName: "ID", Type: "INTEGER", Length: 4},
		{TableName: "PERSON", ColumnName: "NOTE", Type: "VARCHAR(50)", Nullable: true, Default: StringPtr("'none'")},
	}

	catalog := BuildCatalog(rows)
	require.Equal(t, 2, catalog.Len())
	assert.Equal(t, "ORDERS", catalog.All()[0].Name)
	assert.Equal(t, "PERSON", catalog.All()[1].Name)

	person, ok := catalog.Get("Person")
	require.True(t, ok)
	require.Len(t, person.Columns, 3)

	id, ok := person.Column("id")
	require.True(t, ok)
	assert.True(t, id.NotNull)

	name, ok := person.Column("Name")
	require.True(t, ok)
	assert.Equal(t, "VARCHAR", name.Type)
	assert.Equal(t, 100, name.Length)
	assert.False(t, name.NotNull)
	assert.Nil(t, name.Default, "empty default means no default")

	note, ok := person.Column("NOTE")
	require.True(t, ok)
	assert.Equal(t, "VARCHAR", note.Type)
	assert.Equal(t, 50, note.Length)
	assert.Equal(t, "'none'", *note.Default)

	orders, _ := catalog.Get("orders")
	customerID, _ := orders.Column("customer_id")
	assert.Equal(t, "ORDERS_CUSTOMER_ID_FKEY", customerID.ConstraintName)
	orderID, _ := orders.Column("ID")
	assert.True(t, orderID.Identity)
}

func TestBuildCatalogMergesConstraintRows(t *testing.T) {
	rows := []CatalogColumn{
		{TableName: "ORDERS", ColumnName: "CUSTOMER_ID", Type: "INTEGER"},
		{TableName: "ORDERS", ColumnName: "CUSTOMER_ID", Type: "INTEGER", ConstraintName: "FK_CUSTOMER"},
	}

	catalog := BuildCatalog(rows)
	orders, ok := catalog.Get("ORDERS")
	require.True(t, ok)
	require.Len(t, orders.Columns, 1)
	assert.Equal(t, "FK_CUSTOMER", orders.Columns[0].ConstraintName)
}

func TestBuildCatalogEmpty(t *testing.T) {
	catalog := BuildCatalog(nil)
	assert.Equal(t, 0, catalog.Len())
	assert.Empty(t, catalog.All())
}

func TestTablesAreCaseInsensitive(t *testing.T) {
	tables := NewTables()
	assert.True(t, tables.Add(NewTable("Person")))
	assert.False(t, tables.Add(NewTable("PERSON")))
	assert.True(t, tables.Contains("person"))

	filtered := tables.Filter(func(table *Table) bool { return false })
	assert.Equal(t, 0, filtered.Len())
	assert.Equal(t, 1, tables.Len())

	var missing *Tables
	assert.False(t, missing.Contains("person"))
	assert.Equal(t, 0, missing.Len())
}
