package schema

// ExportOperations renders a catalog snapshot as CREATE TABLE operations whose column
// types are the catalog's own physical types.
func ExportOperations(catalog *Tables) []Operation {
	var ops []Operation
	for _, table := range catalog.All() {
		columns := make([]*Column, 0, len(table.Columns))
		for _, column := range table.Columns {
			exported := *column
			exported.Type = FormatType(column.Type, column.Length)
			columns = append(columns, &exported)
		}
		ops = append(ops, &CreateTable{
			TableName: table.Name,
			Columns:   columns,
			Physical:  true,
		})
	}
	return ops
}
