package schema

import "strings"

// CatalogColumn is one row of catalog introspection output.
type CatalogColumn struct {
	TableName      string
	ColumnName     string
	Identity       bool
	Type           string
	Length         int // 0 when the catalog reports none
	Nullable       bool
	Default        *string
	ConstraintName string // non-empty when a foreign key constraint covers the column
}

// BuildCatalog groups catalog rows into tables. Table order follows the first appearance of
// each table in rows; column order within a table follows rows and is never relied on for
// matching. Repeated rows for one column (one per constraint) are merged.
func BuildCatalog(rows []CatalogColumn) *Tables {
	tables := NewTables()
	for _, row := range rows {
		table, ok := tables.Get(row.TableName)
		if !ok {
			table = NewTable(strings.TrimSpace(row.TableName))
			tables.Add(table)
		}

		if existing, ok := table.Column(row.ColumnName); ok {
			if existing.ConstraintName == "" {
				existing.ConstraintName = row.ConstraintName
			}
			continue
		}

		// VARCHAR(MAX) keeps no length but still compares as VARCHAR.
		typ, embedded, ok := SplitType(row.Type)
		length := row.Length
		if ok && length <= 0 {
			length = embedded
		}
		if length < 0 {
			length = 0
		}

		table.AddColumn(&Column{
			Name:           strings.TrimSpace(row.ColumnName),
			Type:           typ,
			Length:         length,
			NotNull:        !row.Nullable,
			Default:        NormalizeDefault(row.Default),
			Identity:       row.Identity,
			ConstraintName: strings.TrimSpace(row.ConstraintName),
		})
	}
	return tables
}
