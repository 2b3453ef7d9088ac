package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/schema"
	_ "github.com/lib/pq"
)

// udt_name keeps the short spelling (int4, varchar, bpchar) which the postgres type aliases expect.
// numeric columns report their precision as the length.
const columnsQuery = `SELECT
    c.table_name,
    c.column_name,
    CASE WHEN c.is_identity = 'YES' THEN 'Y' ELSE 'N' END,
    c.udt_name,
    COALESCE(c.character_maximum_length, CASE WHEN c.data_type = 'numeric' THEN c.numeric_precision END),
    CASE WHEN c.is_nullable = 'YES' THEN 'Y' ELSE 'N' END,
    c.column_default,
    (SELECT tc.constraint_name FROM information_schema.table_constraints tc
     JOIN information_schema.key_column_usage kcu
       ON tc.constraint_schema = kcu.constraint_schema AND tc.constraint_name = kcu.constraint_name
     WHERE tc.constraint_type = 'FOREIGN KEY'
     AND kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name AND kcu.column_name = c.column_name
     ORDER BY tc.constraint_name LIMIT 1)
FROM information_schema.columns c
JOIN information_schema.tables t
  ON t.table_schema = c.table_schema AND t.table_name = c.table_name AND t.table_type = 'BASE TABLE'
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`

type PostgresDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (database.Database, error) {
	db, err := sql.Open("postgres", postgresBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &PostgresDatabase{
		db:     db,
		config: config,
	}, nil
}

func (d *PostgresDatabase) Columns(ctx context.Context, schemaName string) ([]schema.CatalogColumn, error) {
	columns, err := database.QueryColumns(ctx, d.db, columnsQuery, schemaName)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		columns[i].Default = normalizeDefault(columns[i].Default)
	}
	return columns, nil
}

func (d *PostgresDatabase) DefaultSchema() string {
	return "public"
}

func (d *PostgresDatabase) Close() error {
	return d.db.Close()
}

// normalizeDefault drops the type cast PostgreSQL appends to literal defaults, e.g.
// 'draft'::character varying becomes 'draft'.
func normalizeDefault(defaultValue *string) *string {
	if defaultValue == nil {
		return nil
	}
	value := *defaultValue
	if strings.HasPrefix(value, "'") {
		if end := strings.LastIndex(value, "'::"); end > 0 {
			value = value[:end+1]
		}
	}
	return &value
}

func postgresBuildDSN(config database.Config) string {
	user := config.User
	password := config.Password
	database := config.DbName
	host := ""
	var options []string

	if config.Socket == "" {
		host = fmt.Sprintf("%s:%d", config.Host, config.Port)
	} else {
		// postgres://user:@%2Fvar%2Frun%2Fpostgresql/dbname is rejected by the URL parser,
		// so the socket directory goes into the host option instead.
		options = append(options, fmt.Sprintf("host=%s", config.Socket))
	}

	if config.SslMode != "" {
		options = append(options, fmt.Sprintf("sslmode=%s", config.SslMode))
	} else if sslmode := os.Getenv("PGSSLMODE"); sslmode != "" {
		options = append(options, fmt.Sprintf("sslmode=%s", sslmode))
	}

	if config.SslCa != "" {
		options = append(options, fmt.Sprintf("sslrootcert=%s", config.SslCa))
	} else if sslrootcert := os.Getenv("PGSSLROOTCERT"); sslrootcert != "" {
		options = append(options, fmt.Sprintf("sslrootcert=%s", sslrootcert))
	}

	// `QueryEscape` instead of `PathEscape` so that colon can be escaped.
	return fmt.Sprintf("postgres://%s:%s@%s/%s?%s", url.QueryEscape(user), url.QueryEscape(password), host, database, strings.Join(options, "&"))
}
