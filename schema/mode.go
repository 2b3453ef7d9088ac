package schema

import (
	"fmt"
	"strings"
)

type GeneratorMode int

const (
	GeneratorModeDB2 = GeneratorMode(iota)
	GeneratorModePostgres
	GeneratorModeMysql
	GeneratorModeMssql
	GeneratorModeOracle
	GeneratorModeSQLite3
)

func (m GeneratorMode) String() string {
	switch m {
	case GeneratorModeDB2:
		return "db2"
	case GeneratorModePostgres:
		return "postgres"
	case GeneratorModeMysql:
		return "mysql"
	case GeneratorModeMssql:
		return "mssql"
	case GeneratorModeOracle:
		return "oracle"
	case GeneratorModeSQLite3:
		return "sqlite3"
	default:
		return fmt.Sprintf("GeneratorMode(%d)", int(m))
	}
}

func ParseGeneratorMode(name string) (GeneratorMode, error) {
	switch strings.ToLower(name) {
	case "db2", "":
		return GeneratorModeDB2, nil
	case "postgres", "postgresql", "psql":
		return GeneratorModePostgres, nil
	case "mysql":
		return GeneratorModeMysql, nil
	case "mssql", "sqlserver":
		return GeneratorModeMssql, nil
	case "oracle":
		return GeneratorModeOracle, nil
	case "sqlite3", "sqlite":
		return GeneratorModeSQLite3, nil
	default:
		return 0, fmt.Errorf("unknown database type: %q", name)
	}
}

// identifierLimit is the maximum identifier length accepted by the flavor.
func (m GeneratorMode) identifierLimit() int {
	switch m {
	case GeneratorModePostgres:
		return 63
	case GeneratorModeMysql:
		return 64
	case GeneratorModeOracle, GeneratorModeDB2, GeneratorModeMssql:
		return 128
	default:
		return 0
	}
}
