package schema

import (
	"fmt"
	"log/slog"
)

// This struct holds the two canonical sides and the queued operations during GenerateOperations().
type Generator struct {
	mode    GeneratorMode
	model   *Tables
	catalog *Tables
	queue   operationBuckets
}

// GenerateOperations compares the model against the catalog snapshot and returns the
// operations that bring the catalog in line with the model, in emission order.
// Any inconsistency in the model aborts the whole comparison; no partial list is returned.
func GenerateOperations(mode GeneratorMode, model *Tables, catalog *Tables) ([]Operation, error) {
	generator := Generator{
		mode:    mode,
		model:   model,
		catalog: catalog,
	}
	return generator.generateOperations()
}

func (g *Generator) generateOperations() ([]Operation, error) {
	for _, desired := range g.model.All() {
		current, ok := g.catalog.Get(desired.Name)
		if !ok {
			if err := g.generateCreateTable(desired); err != nil {
				return nil, err
			}
			continue
		}
		if err := g.generateAlterTable(desired, current); err != nil {
			return nil, err
		}
	}

	// Clean up obsoleted tables
	for _, current := range g.catalog.All() {
		if !g.model.Contains(current.Name) {
			g.queue.add(&DropTable{TableName: current.Name})
		}
	}

	ops := g.queue.flatten()
	slog.Debug("Generated operations", "mode", g.mode, "model_tables", g.model.Len(), "catalog_tables", g.catalog.Len(), "operations", len(ops))
	return ops, nil
}

func (g *Generator) generateCreateTable(desired *Table) error {
	createTable := &CreateTable{
		TableName: desired.Name,
		Columns:   desired.Columns,
	}
	for _, column := range desired.PrimaryKeys() {
		createTable.PrimaryKey = append(createTable.PrimaryKey, column.Name)
	}
	g.queue.add(createTable)

	for _, column := range desired.Columns {
		if column.ReferenceTable == "" {
			continue
		}
		if err := g.queueForeignKey(desired, column); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateAlterTable(desired *Table, current *Table) error {
	for _, column := range desired.Columns {
		currentColumn, ok := current.Column(column.Name)
		if !ok {
			g.queue.add(g.generateAddColumn(desired, column))
			if column.ReferenceTable != "" {
				if err := g.queueForeignKey(desired, column); err != nil {
					return err
				}
			}
			continue
		}

		for _, op := range g.generateAlterColumn(desired, column, currentColumn) {
			g.queue.add(op)
		}

		// The relationship was added to a column that already exists.
		if column.ReferenceTable != "" && currentColumn.ConstraintName == "" {
			if err := g.queueForeignKey(desired, column); err != nil {
				return err
			}
		}
	}

	for _, currentColumn := range current.Columns {
		if _, ok := desired.Column(currentColumn.Name); !ok {
			g.queue.prepend(&DropColumn{TableName: desired.Name, ColumnName: currentColumn.Name})
		}
	}
	return nil
}

func (g *Generator) generateAddColumn(desired *Table, column *Column) *AddColumn {
	addColumn := &AddColumn{
		TableName: desired.Name,
		Column:    column,
	}
	if column.NotNull {
		addColumn.Chain = append(addColumn.Chain, &AlterColumnNullability{
			TableName:  desired.Name,
			ColumnName: column.Name,
			Type:       PhysicalType(g.mode, column.Type),
			NotNull:    true,
		})
	}
	if defaultValue := NormalizeDefault(column.Default); defaultValue != nil {
		addColumn.Chain = append(addColumn.Chain, &AlterColumnDefault{
			TableName:  desired.Name,
			ColumnName: column.Name,
			Default:    defaultValue,
		})
	}
	if column.PrimaryKey {
		// The key is recomputed from every primary-key column of the model table.
		var keys []string
		for _, key := range desired.PrimaryKeys() {
			keys = append(keys, key.Name)
		}
		addColumn.Chain = append(addColumn.Chain,
			&DropPrimaryKey{TableName: desired.Name},
			&SetPrimaryKey{TableName: desired.Name, Columns: keys},
		)
	}
	return addColumn
}

// generateAlterColumn compares type, nullability and default independently.
func (g *Generator) generateAlterColumn(desired *Table, column *Column, current *Column) []Operation {
	var ops []Operation

	if !TypeMatches(g.mode, column.Type, current) {
		ops = append(ops, &AlterColumnType{
			TableName:  desired.Name,
			ColumnName: column.Name,
			Type:       PhysicalType(g.mode, column.Type),
		})
	}

	if column.NotNull != current.NotNull {
		ops = append(ops, &AlterColumnNullability{
			TableName:  desired.Name,
			ColumnName: column.Name,
			Type:       PhysicalType(g.mode, column.Type),
			NotNull:    column.NotNull,
		})
	}

	desiredDefault := NormalizeDefault(column.Default)
	currentDefault := NormalizeDefault(current.Default)
	if !equalDefaults(desiredDefault, currentDefault) {
		ops = append(ops, &AlterColumnDefault{
			TableName:  desired.Name,
			ColumnName: column.Name,
			Default:    desiredDefault,
		})
	}

	return ops
}

// queueForeignKey resolves the referenced table and column in the model and queues the
// constraint. Foreign keys are only ever added; a vanished relationship is not detected.
func (g *Generator) queueForeignKey(desired *Table, column *Column) error {
	referenced, ok := g.model.Get(column.ReferenceTable)
	if !ok {
		return fmt.Errorf("%w: column %s.%s references unknown table %q",
			ErrReferentialIntegrity, desired.Name, column.Name, column.ReferenceTable)
	}

	var referencedColumn string
	if column.ReferenceColumn != "" {
		target, ok := referenced.Column(column.ReferenceColumn)
		if !ok {
			return fmt.Errorf("%w: column %s.%s references unknown column %s.%s",
				ErrReferentialIntegrity, desired.Name, column.Name, referenced.Name, column.ReferenceColumn)
		}
		referencedColumn = target.Name
	} else {
		keys := referenced.PrimaryKeys()
		if len(keys) == 0 {
			return fmt.Errorf("%w: column %s.%s references table %s which has no primary key",
				ErrReferentialIntegrity, desired.Name, column.Name, referenced.Name)
		}
		referencedColumn = keys[0].Name
	}

	g.queue.add(&AddForeignKey{
		TableName:       desired.Name,
		ColumnName:      column.Name,
		ReferenceTable:  referenced.Name,
		ReferenceColumn: referencedColumn,
	})
	return nil
}

func equalDefaults(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
