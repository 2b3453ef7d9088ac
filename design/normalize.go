package design

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/erddef/erddef/schema"
	"github.com/erddef/erddef/util"
)

type RelationshipKind int

const (
	OneToMany = RelationshipKind(iota)
	OneToOne
)

func (k RelationshipKind) String() string {
	if k == OneToMany {
		return "OneToMany"
	}
	return "OneToOne"
}

// ParseRelationshipKind maps ERD Editor relationship types. Types ending in "N" (OneN,
// ZeroOneN, ZeroN, N) allow many rows on the foreign-key side; all others are one-to-one.
func ParseRelationshipKind(relationshipType string) RelationshipKind {
	if strings.HasSuffix(relationshipType, "N") {
		return OneToMany
	}
	return OneToOne
}

// RelationshipEntry describes the relationship owning one foreign-key column. The left side
// is the referenced table, the right side holds the foreign key.
type RelationshipEntry struct {
	LeftTable   string
	LeftTableID string
	LeftColumn  string // referenced column, "" when the document does not name one
	RightTable  string
	Kind        RelationshipKind
}

// Model is the canonical form of a design document.
type Model struct {
	Tables *schema.Tables
	// Relationships is keyed by the foreign-key column id.
	Relationships map[string]RelationshipEntry
}

// Normalize converts a design document into canonical tables. A foreign-key column without
// a relationship, a relationship pointing at an unknown table or column, and two tables
// sharing a name are all fatal.
func Normalize(doc *Document) (*Model, error) {
	relationships, err := buildRelationshipIndex(doc)
	if err != nil {
		return nil, err
	}

	model := &Model{
		Tables:        schema.NewTables(),
		Relationships: relationships,
	}
	foreignKeyColumns := map[string]bool{}

	for _, table := range doc.Table.Tables {
		normalized := schema.NewTable(table.Name)
		if !model.Tables.Add(normalized) {
			return nil, fmt.Errorf("%w: table %q is defined more than once", schema.ErrReferentialIntegrity, table.Name)
		}

		for _, column := range table.Columns {
			descriptor := &schema.Column{
				Name:       column.Name,
				Type:       column.DataType,
				NotNull:    column.Option.NotNull,
				Default:    schema.NormalizeDefault(schema.StringPtr(column.Default)),
				PrimaryKey: column.Option.PrimaryKey,
			}

			if column.UI.FK {
				entry, ok := relationships[column.ID]
				if !ok {
					return nil, fmt.Errorf("%w: foreign key column %s.%s (id %s) has no relationship",
						schema.ErrReferentialIntegrity, table.Name, column.Name, column.ID)
				}
				// Foreign keys are never primary keys in this model.
				descriptor.PrimaryKey = false
				descriptor.ReferenceTable = entry.LeftTable
				descriptor.ReferenceColumn = entry.LeftColumn
				foreignKeyColumns[column.ID] = true
			}

			normalized.AddColumn(descriptor)
		}
	}

	for columnID, entry := range util.CanonicalMapIter(relationships) {
		if !foreignKeyColumns[columnID] {
			slog.Warn("Relationship column is not flagged as a foreign key; ignoring it",
				"column_id", columnID, "left_table", entry.LeftTable, "right_table", entry.RightTable)
		}
	}

	slog.Debug("Normalized design document", "tables", model.Tables.Len(), "relationships", len(relationships))
	return model, nil
}

func buildRelationshipIndex(doc *Document) (map[string]RelationshipEntry, error) {
	tablesByID := map[string]*Table{}
	for i := range doc.Table.Tables {
		tablesByID[doc.Table.Tables[i].ID] = &doc.Table.Tables[i]
	}

	index := map[string]RelationshipEntry{}
	for _, relationship := range doc.Relationship.Relationships {
		left, ok := tablesByID[relationship.Start.TableID]
		if !ok {
			return nil, fmt.Errorf("%w: relationship %s starts at unknown table id %s",
				schema.ErrReferentialIntegrity, relationship.ID, relationship.Start.TableID)
		}
		right, ok := tablesByID[relationship.End.TableID]
		if !ok {
			return nil, fmt.Errorf("%w: relationship %s ends at unknown table id %s",
				schema.ErrReferentialIntegrity, relationship.ID, relationship.End.TableID)
		}

		for i, columnID := range relationship.End.ColumnIDs {
			entry := RelationshipEntry{
				LeftTable:   left.Name,
				LeftTableID: left.ID,
				RightTable:  right.Name,
				Kind:        ParseRelationshipKind(relationship.RelationshipType),
			}
			if i < len(relationship.Start.ColumnIDs) {
				name, ok := columnName(left, relationship.Start.ColumnIDs[i])
				if !ok {
					return nil, fmt.Errorf("%w: relationship %s references unknown column id %s in table %s",
						schema.ErrReferentialIntegrity, relationship.ID, relationship.Start.ColumnIDs[i], left.Name)
				}
				entry.LeftColumn = name
			}
			index[columnID] = entry
		}
	}
	return index, nil
}

func columnName(table *Table, columnID string) (string, bool) {
	for _, column := range table.Columns {
		if column.ID == columnID {
			return column.Name, true
		}
	}
	return "", false
}
