// Package design reads ERD Editor design documents and normalizes them into the canonical model.
package design

// Document is the subset of an ERD Editor (.vuerd.json) document the generator reads.
type Document struct {
	Table        TableState        `json:"table"`
	Relationship RelationshipState `json:"relationship"`
}

type TableState struct {
	Tables []Table `json:"tables"`
}

type RelationshipState struct {
	Relationships []Relationship `json:"relationships"`
}

type Table struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Comment string   `json:"comment"`
	Columns []Column `json:"columns"`
}

type Column struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Comment  string       `json:"comment"`
	DataType string       `json:"dataType"`
	Default  string       `json:"default"`
	Option   ColumnOption `json:"option"`
	UI       ColumnUI     `json:"ui"`
}

type ColumnOption struct {
	AutoIncrement bool `json:"autoIncrement"`
	PrimaryKey    bool `json:"primaryKey"`
	Unique        bool `json:"unique"`
	NotNull       bool `json:"notNull"`
}

type ColumnUI struct {
	Active bool `json:"active"`
	PK     bool `json:"pk"`
	FK     bool `json:"fk"`
	PFK    bool `json:"pfk"`
}

type Relationship struct {
	ID               string           `json:"id"`
	Identification   bool             `json:"identification"`
	RelationshipType string           `json:"relationshipType"`
	Start            RelationshipEnds `json:"start"`
	End              RelationshipEnds `json:"end"`
}

type RelationshipEnds struct {
	TableID   string   `json:"tableId"`
	ColumnIDs []string `json:"columnIds"`
}
