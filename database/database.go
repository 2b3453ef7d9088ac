// This package has the catalog introspection layer. Never deal with DDL construction.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/erddef/erddef/schema"
	"github.com/erddef/erddef/util"
	"gopkg.in/yaml.v2"
)

type Config struct {
	DbName   string
	User     string
	Password string
	Host     string
	Port     int
	Socket   string
	SslMode  string
	SslCa    string

	// Only MySQL
	MySQLEnableCleartextPlugin bool
}

type GeneratorConfig struct {
	TargetTables []string
	SkipTables   []string
}

// Queryer is the single query method catalog introspection needs. *sql.DB, *sql.Conn and
// *sql.Tx all satisfy it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Abstraction layer for multiple kinds of catalogs
type Database interface {
	// Columns returns one row per column of every table in schemaName, ordered by table name.
	Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error)
	// DefaultSchema is used when no schema is given on the command line.
	DefaultSchema() string
	Close() error
}

// QueryColumns runs an introspection query taking the schema name as its only argument and
// scans the canonical row shape:
//
//	table, column, identity ('Y'|'N'), type, length, nulls ('Y'|'N'), default, constraint
//
// Any failure is reported as schema.ErrCatalogQuery and no rows are returned.
func QueryColumns(ctx context.Context, q Queryer, query string, schemaName string) ([]schema.CatalogColumn, error) {
	rows, err := q.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schema.ErrCatalogQuery, err)
	}
	defer rows.Close()

	var columns []schema.CatalogColumn
	for rows.Next() {
		var table, column, identity, typ, nulls string
		var length sql.NullInt64
		var defaultValue, constraintName sql.NullString
		if err := rows.Scan(&table, &column, &identity, &typ, &length, &nulls, &defaultValue, &constraintName); err != nil {
			return nil, fmt.Errorf("%w: failed to scan column (table: %s): %s", schema.ErrCatalogQuery, table, err)
		}

		catalogColumn := schema.CatalogColumn{
			TableName:      strings.TrimSpace(table),
			ColumnName:     strings.TrimSpace(column),
			Identity:       ParseFlag(identity),
			Type:           strings.TrimSpace(typ),
			Length:         int(length.Int64),
			Nullable:       ParseFlag(nulls),
			ConstraintName: strings.TrimSpace(constraintName.String),
		}
		if defaultValue.Valid {
			catalogColumn.Default = schema.StringPtr(defaultValue.String)
		}
		columns = append(columns, catalogColumn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating columns: %s", schema.ErrCatalogQuery, err)
	}

	slog.Debug("Fetched catalog columns", "schema", schemaName, "rows", len(columns))
	return columns, nil
}

// ParseFlag reads catalog yes/no flags such as DB2's NULLS and IDENTITY ('Y'/'N') or
// information_schema's IS_NULLABLE ('YES'/'NO').
func ParseFlag(flag string) bool {
	switch strings.ToUpper(strings.TrimSpace(flag)) {
	case "Y", "YES", "1", "TRUE":
		return true
	default:
		return false
	}
}

func ParseGeneratorConfig(configFile string) (GeneratorConfig, error) {
	if configFile == "" {
		return GeneratorConfig{}, nil
	}

	buf, err := os.ReadFile(configFile)
	if err != nil {
		return GeneratorConfig{}, err
	}
	return ParseGeneratorConfigString(string(buf))
}

func ParseGeneratorConfigString(yamlString string) (GeneratorConfig, error) {
	var config struct {
		TargetTables string `yaml:"target_tables"`
		SkipTables   string `yaml:"skip_tables"`
	}
	if err := yaml.UnmarshalStrict([]byte(yamlString), &config); err != nil {
		return GeneratorConfig{}, fmt.Errorf("invalid generator config: %w", err)
	}

	return GeneratorConfig{
		TargetTables: util.SplitLines(config.TargetTables),
		SkipTables:   util.SplitLines(config.SkipTables),
	}, nil
}

// MergeGeneratorConfigs merges configs in order. A later non-empty list replaces an earlier one.
func MergeGeneratorConfigs(configs []GeneratorConfig) GeneratorConfig {
	var merged GeneratorConfig
	for _, config := range configs {
		if len(config.TargetTables) > 0 {
			merged.TargetTables = config.TargetTables
		}
		if len(config.SkipTables) > 0 {
			merged.SkipTables = config.SkipTables
		}
	}
	return merged
}

// FilterTables applies target_tables and skip_tables to a table collection.
func FilterTables(tables *schema.Tables, config GeneratorConfig) *schema.Tables {
	if len(config.TargetTables) == 0 && len(config.SkipTables) == 0 {
		return tables
	}
	return tables.Filter(func(table *schema.Table) bool {
		if len(config.TargetTables) > 0 && !containsIdentifier(config.TargetTables, table.Name) {
			return false
		}
		return !containsIdentifier(config.SkipTables, table.Name)
	})
}

func containsIdentifier(names []string, name string) bool {
	for _, n := range names {
		if schema.SameIdentifier(n, name) {
			return true
		}
	}
	return false
}
