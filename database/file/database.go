package file

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/schema"
	"github.com/goccy/go-yaml"
)

// Row is one catalog row of a snapshot file. JSON snapshots use the same keys.
type Row struct {
	Schema     string  `yaml:"schema,omitempty"`
	Table      string  `yaml:"table"`
	Column     string  `yaml:"column"`
	Identity   string  `yaml:"identity,omitempty"`
	Type       string  `yaml:"type"`
	Length     int     `yaml:"length,omitempty"`
	Nulls      string  `yaml:"nulls,omitempty"`
	Default    *string `yaml:"default,omitempty"`
	Constraint string  `yaml:"constraint,omitempty"`
}

// Pseudo catalog read from a YAML or JSON snapshot, for comparisons without a live database
type FileDatabase struct {
	file string
}

func NewDatabase(file string) *FileDatabase {
	return &FileDatabase{
		file: file,
	}
}

// Columns returns the snapshot rows. Rows naming a schema are only returned for that schema;
// rows without one belong to every schema.
func (f *FileDatabase) Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error) {
	buf, err := os.ReadFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schema.ErrCatalogQuery, err)
	}

	rows, err := ParseRows(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", schema.ErrCatalogQuery, f.file, err)
	}

	var columns []schema.CatalogColumn
	for _, row := range rows {
		if row.Schema != "" && schemaName != "" && !schema.SameIdentifier(row.Schema, schemaName) {
			continue
		}
		columns = append(columns, row.CatalogColumn())
	}
	return columns, nil
}

func (f *FileDatabase) DefaultSchema() string {
	return ""
}

func (f *FileDatabase) Close() error {
	return nil
}

func ParseRows(buf []byte) ([]Row, error) {
	var rows []Row
	if len(bytes.TrimSpace(buf)) == 0 {
		return rows, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r Row) CatalogColumn() schema.CatalogColumn {
	nullable := true
	if r.Nulls != "" {
		nullable = database.ParseFlag(r.Nulls)
	}
	return schema.CatalogColumn{
		TableName:      r.Table,
		ColumnName:     r.Column,
		Identity:       database.ParseFlag(r.Identity),
		Type:           r.Type,
		Length:         r.Length,
		Nullable:       nullable,
		Default:        r.Default,
		ConstraintName: r.Constraint,
	}
}
