package oracle

import (
	"context"
	"database/sql"
	"strings"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/schema"
	go_ora "github.com/sijms/go-ora/v2"
)

// NUMBER without precision or scale is what INTEGER columns become, so it is reported as INTEGER.
// Any other NUMBER reports its precision as the length.
const columnsQuery = `SELECT
    c.TABLE_NAME,
    c.COLUMN_NAME,
    CASE WHEN c.IDENTITY_COLUMN = 'YES' THEN 'Y' ELSE 'N' END,
    CASE
        WHEN c.DATA_TYPE = 'NUMBER' AND c.DATA_PRECISION IS NULL AND c.DATA_SCALE = 0 THEN 'INTEGER'
        ELSE c.DATA_TYPE
    END,
    CASE
        WHEN c.CHAR_LENGTH > 0 THEN c.CHAR_LENGTH
        WHEN c.DATA_TYPE = 'RAW' THEN c.DATA_LENGTH
        WHEN c.DATA_TYPE = 'NUMBER' THEN c.DATA_PRECISION
    END,
    c.NULLABLE,
    c.DATA_DEFAULT,
    (SELECT MIN(cc.CONSTRAINT_NAME) FROM ALL_CONS_COLUMNS cc
     JOIN ALL_CONSTRAINTS ac ON ac.OWNER = cc.OWNER AND ac.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
     WHERE ac.CONSTRAINT_TYPE = 'R'
     AND cc.OWNER = c.OWNER AND cc.TABLE_NAME = c.TABLE_NAME AND cc.COLUMN_NAME = c.COLUMN_NAME)
FROM ALL_TAB_COLUMNS c
JOIN ALL_TABLES t ON t.OWNER = c.OWNER AND t.TABLE_NAME = c.TABLE_NAME
WHERE c.OWNER = :1
ORDER BY c.TABLE_NAME, c.COLUMN_ID`

type OracleDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("oracle", oracleBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &OracleDatabase{
		db:     db,
		config: config,
	}, nil
}

func (d *OracleDatabase) Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error) {
	columns, err := database.QueryColumns(ctx, d.db, columnsQuery, strings.ToUpper(schemaName))
	if err != nil {
		return nil, err
	}
	// DATA_DEFAULT keeps the trailing whitespace of the defining DDL.
	for i := range columns {
		if columns[i].Default != nil {
			trimmed := strings.TrimSpace(*columns[i].Default)
			columns[i].Default = &trimmed
		}
	}
	return columns, nil
}

// DefaultSchema is the connecting user, which owns its tables.
func (d *OracleDatabase) DefaultSchema() string {
	return strings.ToUpper(d.config.User)
}

func (d *OracleDatabase) Close() error {
	return d.db.Close()
}

// oracleBuildDSN treats DbName as the service name.
func oracleBuildDSN(config database.Config) string {
	var options map[string]string
	if config.SslMode != "" && config.SslMode != "disable" {
		options = map[string]string{"SSL": "enable"}
		if config.SslMode == "verify-full" {
			options["SSL VERIFY"] = "true"
		} else {
			options["SSL VERIFY"] = "false"
		}
	}
	return go_ora.BuildUrl(config.Host, config.Port, config.DbName, config.User, config.Password, options)
}
