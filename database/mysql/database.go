package mysql

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/schema"
	driver "github.com/go-sql-driver/mysql"
)

// A schema is a database in MySQL, so the schema argument is matched against TABLE_SCHEMA.
// DECIMAL columns report their precision as the length.
const columnsQuery = `SELECT
    c.TABLE_NAME,
    c.COLUMN_NAME,
    CASE WHEN c.EXTRA LIKE '%auto_increment%' THEN 'Y' ELSE 'N' END,
    c.DATA_TYPE,
    COALESCE(c.CHARACTER_MAXIMUM_LENGTH, CASE WHEN c.DATA_TYPE IN ('decimal', 'numeric') THEN c.NUMERIC_PRECISION END),
    CASE WHEN c.IS_NULLABLE = 'YES' THEN 'Y' ELSE 'N' END,
    c.COLUMN_DEFAULT,
    (SELECT MIN(k.CONSTRAINT_NAME) FROM information_schema.KEY_COLUMN_USAGE k
     WHERE k.TABLE_SCHEMA = c.TABLE_SCHEMA AND k.TABLE_NAME = c.TABLE_NAME AND k.COLUMN_NAME = c.COLUMN_NAME
     AND k.REFERENCED_TABLE_NAME IS NOT NULL)
FROM information_schema.COLUMNS c
JOIN information_schema.TABLES t
  ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME AND t.TABLE_TYPE = 'BASE TABLE'
WHERE c.TABLE_SCHEMA = ?
ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`

type MysqlDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	if config.SslMode == "custom" {
		err := registerTLSConfig(config.SslCa)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("mysql", mysqlBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &MysqlDatabase{
		db:     db,
		config: config,
	}, nil
}

func (d *MysqlDatabase) Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error) {
	var version string
	if err := d.db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version); err != nil {
		slog.Debug("Failed to get MySQL version", "error", err)
	} else {
		slog.Debug("MySQL server version", "version", version)
	}
	columns, err := database.QueryColumns(ctx, d.db, columnsQuery, schemaName)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		columns[i].Default = normalizeDefault(columns[i].Type, columns[i].Default)
	}
	return columns, nil
}

var characterTypes = map[string]bool{
	"char":       true,
	"varchar":    true,
	"tinytext":   true,
	"text":       true,
	"mediumtext": true,
	"longtext":   true,
	"enum":       true,
	"set":        true,
}

// normalizeDefault quotes string defaults. MySQL 8 reports DEFAULT 'anon' as the bare
// literal anon, while MariaDB already returns it quoted.
func normalizeDefault(dataType string, defaultValue *string) *string {
	if defaultValue == nil || !characterTypes[strings.ToLower(dataType)] {
		return defaultValue
	}
	value := *defaultValue
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		return defaultValue
	}
	quoted := "'" + strings.ReplaceAll(value, "'", "''") + "'"
	return &quoted
}

// DefaultSchema is the connected database.
func (d *MysqlDatabase) DefaultSchema() string {
	return d.config.DbName
}

func (d *MysqlDatabase) Close() error {
	return d.db.Close()
}

func mysqlBuildDSN(config database.Config) string {
	c := driver.NewConfig()
	c.User = config.User
	c.Passwd = config.Password
	c.DBName = config.DbName
	c.AllowCleartextPasswords = config.MySQLEnableCleartextPlugin
	c.TLSConfig = config.SslMode
	if config.Socket == "" {
		c.Net = "tcp"
		c.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	} else {
		c.Net = "unix"
		c.Addr = config.Socket
	}
	return c.FormatDSN()
}

func registerTLSConfig(pemPath string) error {
	rootCertPool := x509.NewCertPool()
	pem, err := os.ReadFile(pemPath)
	if err != nil {
		return err
	}

	if ok := rootCertPool.AppendCertsFromPEM(pem); !ok {
		return fmt.Errorf("failed to append PEM")
	}

	return driver.RegisterTLSConfig("custom", &tls.Config{
		RootCAs: rootCertPool,
	})
}
