package db2

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/schema"
	_ "github.com/ibmdb/go_ibm_db"
)

// One row per column. A column covered by a referential constraint carries its name, found
// through the key columns of SYSCAT.REFERENCES.
const columnsQuery = `SELECT
    c.TABNAME,
    c.COLNAME,
    c.IDENTITY,
    c.TYPENAME,
    c.LENGTH,
    c.NULLS,
    c.DEFAULT,
    (SELECT MIN(r.CONSTNAME) FROM SYSCAT.REFERENCES r
     JOIN SYSCAT.KEYCOLUSE k
       ON k.CONSTNAME = r.CONSTNAME AND k.TABSCHEMA = r.TABSCHEMA AND k.TABNAME = r.TABNAME
     WHERE k.TABSCHEMA = c.TABSCHEMA AND k.TABNAME = c.TABNAME AND k.COLNAME = c.COLNAME)
FROM SYSCAT.COLUMNS c
JOIN SYSCAT.TABLES t ON t.TABSCHEMA = c.TABSCHEMA AND t.TABNAME = c.TABNAME AND t.TYPE = 'T'
WHERE c.TABSCHEMA = ?
ORDER BY c.TABNAME, c.COLNO`

type DB2Database struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("go_ibm_db", db2BuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &DB2Database{
		db:     db,
		config: config,
	}, nil
}

func (d *DB2Database) Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error) {
	columns, err := database.QueryColumns(ctx, d.db, columnsQuery, strings.ToUpper(schemaName))
	if err != nil {
		return nil, err
	}
	// Lengths of non-sized types are byte widths (INTEGER is 4) and never compared.
	for i := range columns {
		if columns[i].Type == "INTEGER" || columns[i].Type == "SMALLINT" || columns[i].Type == "BIGINT" {
			columns[i].Length = 0
		}
	}
	return columns, nil
}

// DefaultSchema is the authorization ID, which DB2 uses as the implicit schema.
func (d *DB2Database) DefaultSchema() string {
	return strings.ToUpper(d.config.User)
}

func (d *DB2Database) Close() error {
	return d.db.Close()
}

func db2BuildDSN(config database.Config) string {
	options := []string{
		fmt.Sprintf("HOSTNAME=%s", config.Host),
		fmt.Sprintf("DATABASE=%s", config.DbName),
		fmt.Sprintf("PORT=%d", config.Port),
		fmt.Sprintf("UID=%s", config.User),
		fmt.Sprintf("PWD=%s", config.Password),
	}
	if config.SslMode != "" && config.SslMode != "disable" {
		options = append(options, "SECURITY=SSL")
		if config.SslCa != "" {
			options = append(options, fmt.Sprintf("SSLServerCertificate=%s", config.SslCa))
		}
	}
	return strings.Join(options, ";")
}
