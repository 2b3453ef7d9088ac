package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/schema"
	_ "github.com/microsoft/go-mssqldb"
)

// CHARACTER_MAXIMUM_LENGTH is -1 for (MAX) types, which is reported as no length.
// decimal and numeric columns report their precision instead.
const columnsQuery = `SELECT
    c.TABLE_NAME,
    c.COLUMN_NAME,
    CASE WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1
         THEN 'Y' ELSE 'N' END,
    c.DATA_TYPE,
    CASE
        WHEN c.CHARACTER_MAXIMUM_LENGTH > 0 THEN c.CHARACTER_MAXIMUM_LENGTH
        WHEN c.DATA_TYPE IN ('decimal', 'numeric') THEN c.NUMERIC_PRECISION
    END,
    CASE WHEN c.IS_NULLABLE = 'YES' THEN 'Y' ELSE 'N' END,
    c.COLUMN_DEFAULT,
    (SELECT TOP 1 fk.name FROM sys.foreign_key_columns fkc
     JOIN sys.foreign_keys fk ON fk.object_id = fkc.constraint_object_id
     JOIN sys.columns sc ON sc.object_id = fkc.parent_object_id AND sc.column_id = fkc.parent_column_id
     WHERE fkc.parent_object_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
     AND sc.name = c.COLUMN_NAME
     ORDER BY fk.name)
FROM INFORMATION_SCHEMA.COLUMNS c
JOIN INFORMATION_SCHEMA.TABLES t
  ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME AND t.TABLE_TYPE = 'BASE TABLE'
WHERE c.TABLE_SCHEMA = @p1
ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`

type MssqlDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("sqlserver", mssqlBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &MssqlDatabase{
		db:     db,
		config: config,
	}, nil
}

func (d *MssqlDatabase) Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error) {
	columns, err := database.QueryColumns(ctx, d.db, columnsQuery, schemaName)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		if columns[i].Default != nil {
			unwrapped := unwrapDefault(*columns[i].Default)
			columns[i].Default = &unwrapped
		}
	}
	return columns, nil
}

func (d *MssqlDatabase) DefaultSchema() string {
	return "dbo"
}

func (d *MssqlDatabase) Close() error {
	return d.db.Close()
}

// unwrapDefault strips the parentheses SQL Server stores around default expressions:
// ((0)) becomes 0 and ('x') becomes 'x'.
func unwrapDefault(value string) string {
	for len(value) >= 2 && strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") && balanced(value[1:len(value)-1]) {
		value = value[1 : len(value)-1]
	}
	return value
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func mssqlBuildDSN(config database.Config) string {
	query := url.Values{}
	query.Add("database", config.DbName)

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(config.User, config.Password),
		Host:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		RawQuery: query.Encode(),
	}
	return u.String()
}
