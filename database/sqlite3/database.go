package sqlite3

import (
	"context"
	"database/sql"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/schema"
	_ "modernc.org/sqlite"
)

// SQLite has a single schema per file, so the argument is only consumed. A foreign key is
// reported by its pragma id since SQLite keeps no constraint names.
const columnsQuery = `SELECT
    m.name,
    p.name,
    CASE WHEN p.pk > 0 AND lower(p.type) = 'integer' THEN 'Y' ELSE 'N' END,
    p.type,
    NULL,
    CASE WHEN p."notnull" = 1 THEN 'N' ELSE 'Y' END,
    p.dflt_value,
    (SELECT 'fk_' || f.id FROM pragma_foreign_key_list(m.name) f WHERE f."from" = p.name LIMIT 1)
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%' AND ? IS NOT NULL
ORDER BY m.name, p.cid`

type Sqlite3Database struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("sqlite", config.DbName)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a different database.
	db.SetMaxOpenConns(1)

	return &Sqlite3Database{
		db:     db,
		config: config,
	}, nil
}

func (d *Sqlite3Database) Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error) {
	return database.QueryColumns(ctx, d.db, columnsQuery, schemaName)
}

func (d *Sqlite3Database) DefaultSchema() string {
	return "main"
}

// DB exposes the connection so that generated statements can be applied.
func (d *Sqlite3Database) DB() *sql.DB {
	return d.db
}

func (d *Sqlite3Database) Close() error {
	return d.db.Close()
}
