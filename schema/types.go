package schema

import (
	"strconv"
	"strings"
)

// physicalTypes maps every supported logical (design document) type to its canonical
// physical type. Types missing here pass through unchanged.
var physicalTypes = map[string]string{
	"VARCHAR":            "VARCHAR(255)",
	"LONGTEXT":           "VARCHAR(16320)",
	"TEXT":               "VARCHAR(10000)",
	"MEDIUMTEXT":         "VARCHAR(5000)",
	"TINYTEXT":           "VARCHAR(2500)",
	"BINARY":             "BINARY(255)",
	"VARBINARY":          "VARBINARY(132704)",
	"BLOB":               "BLOB(100000000)",
	"TINYBLOB":           "BLOB(100000)",
	"LONGBLOB":           "BLOB(2147483647)",
	"CHAR":               "CHARACTER(255)",
	"JSON":               "VARCHAR(16320)",
	"LINESTRING":         "VARCHAR(255)",
	"SET":                "VARCHAR(255)",
	"TIMESTAMP":          "VARCHAR(26)",
	"DATETIME":           "VARCHAR(26)",
	"TIME":               "VARCHAR(8)",
	"GEOMETRY":           "GRAPHIC(128)",
	"GEOMETRYCOLLECTION": "VARGRAPHIC(16352)",
	"INT":                "INTEGER",
}

// physicalTypeOverrides replaces entries of physicalTypes for flavors lacking the DB2 type.
var physicalTypeOverrides = map[GeneratorMode]map[string]string{
	GeneratorModePostgres: {
		"BINARY":             "BYTEA",
		"VARBINARY":          "BYTEA",
		"BLOB":               "BYTEA",
		"TINYBLOB":           "BYTEA",
		"LONGBLOB":           "BYTEA",
		"GEOMETRY":           "BYTEA",
		"GEOMETRYCOLLECTION": "BYTEA",
	},
	GeneratorModeMysql: {
		"VARBINARY":          "VARBINARY(255)",
		"BLOB":               "BLOB",
		"TINYBLOB":           "TINYBLOB",
		"LONGBLOB":           "LONGBLOB",
		"GEOMETRY":           "GEOMETRY",
		"GEOMETRYCOLLECTION": "GEOMETRYCOLLECTION",
	},
	GeneratorModeMssql: {
		"LONGTEXT":           "VARCHAR(MAX)",
		"TEXT":               "VARCHAR(MAX)",
		"JSON":               "VARCHAR(MAX)",
		"VARBINARY":          "VARBINARY(MAX)",
		"BLOB":               "VARBINARY(MAX)",
		"TINYBLOB":           "VARBINARY(MAX)",
		"LONGBLOB":           "VARBINARY(MAX)",
		"GEOMETRY":           "GEOMETRY",
		"GEOMETRYCOLLECTION": "GEOMETRY",
	},
	GeneratorModeOracle: {
		"LONGTEXT":           "CLOB",
		"TEXT":               "CLOB",
		"MEDIUMTEXT":         "CLOB",
		"JSON":               "CLOB",
		"BINARY":             "RAW(255)",
		"VARBINARY":          "RAW(2000)",
		"BLOB":               "BLOB",
		"TINYBLOB":           "BLOB",
		"LONGBLOB":           "BLOB",
		"GEOMETRY":           "BLOB",
		"GEOMETRYCOLLECTION": "BLOB",
	},
}

// typeAliases canonicalizes base type names reported by a catalog (or written in a design
// document) so that both sides of a comparison use the same spelling.
var typeAliases = map[GeneratorMode]map[string]string{
	GeneratorModeDB2: {
		"INT":      "INTEGER",
		"CHAR":     "CHARACTER",
		"TIMESTMP": "TIMESTAMP",
		"LONGVAR":  "LONG VARCHAR",
		"VARG":     "VARGRAPHIC",
		"VARBIN":   "VARBINARY",
	},
	GeneratorModePostgres: {
		"INT":                         "INTEGER",
		"INT4":                        "INTEGER",
		"INT2":                        "SMALLINT",
		"INT8":                        "BIGINT",
		"CHAR":                        "CHARACTER",
		"BPCHAR":                      "CHARACTER",
		"CHARACTER VARYING":           "VARCHAR",
		"FLOAT4":                      "REAL",
		"FLOAT8":                      "DOUBLE",
		"DOUBLE PRECISION":            "DOUBLE",
		"BOOL":                        "BOOLEAN",
		"NUMERIC":                     "DECIMAL",
		"TIMESTAMP WITHOUT TIME ZONE": "TIMESTAMP",
		"TIME WITHOUT TIME ZONE":      "TIME",
	},
	GeneratorModeMysql: {
		"INT":     "INTEGER",
		"CHAR":    "CHARACTER",
		"BOOL":    "BOOLEAN",
		"DEC":     "DECIMAL",
		"NUMERIC": "DECIMAL",
	},
	GeneratorModeMssql: {
		"INT":     "INTEGER",
		"CHAR":    "CHARACTER",
		"DEC":     "DECIMAL",
		"NUMERIC": "DECIMAL",
	},
	GeneratorModeOracle: {
		"INT":       "INTEGER",
		"CHAR":      "CHARACTER",
		"VARCHAR2":  "VARCHAR",
		"NVARCHAR2": "NVARCHAR",
		"NUMBER":    "DECIMAL",
		"NUMERIC":   "DECIMAL",
		"DEC":       "DECIMAL",
	},
	GeneratorModeSQLite3: {
		"INT":  "INTEGER",
		"CHAR": "CHARACTER",
	},
}

var integerTypes = map[string]bool{
	"INTEGER":  true,
	"BIGINT":   true,
	"SMALLINT": true,
}

var sizedTypes = map[string]bool{
	"VARCHAR":    true,
	"CHARACTER":  true,
	"CHAR":       true,
	"NVARCHAR":   true,
	"VARCHAR2":   true,
	"NVARCHAR2":  true,
	"NCHAR":      true,
	"BINARY":     true,
	"VARBINARY":  true,
	"BLOB":       true,
	"CLOB":       true,
	"GRAPHIC":    true,
	"VARGRAPHIC": true,
	"RAW":        true,
}

// PhysicalType maps a logical model type to the canonical physical type, e.g. VARCHAR to
// VARCHAR(255). The lookup ignores case; unknown types are returned unchanged.
func PhysicalType(mode GeneratorMode, logicalType string) string {
	key := strings.ToUpper(strings.TrimSpace(logicalType))
	if physical, ok := physicalTypeOverrides[mode][key]; ok {
		return physical
	}
	if physical, ok := physicalTypes[key]; ok {
		return physical
	}
	return logicalType
}

// CanonicalTypeName maps a base type name (no length) to the spelling used for comparison.
func CanonicalTypeName(mode GeneratorMode, base string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(base), " "))
	if alias, ok := typeAliases[mode][key]; ok {
		return alias
	}
	return key
}

// SplitType splits "VARCHAR(255)" into ("VARCHAR", 255, true). For "DECIMAL(10,2)" the
// leading precision is returned. hasLength is false when there is no parenthesized suffix
// or when it is not numeric, e.g. VARCHAR(MAX).
func SplitType(typ string) (base string, length int, hasLength bool) {
	typ = strings.TrimSpace(typ)
	open := strings.Index(typ, "(")
	if open < 0 || !strings.HasSuffix(typ, ")") {
		return typ, 0, false
	}
	base = strings.TrimSpace(typ[:open])
	inner := typ[open+1 : len(typ)-1]
	if comma := strings.Index(inner, ","); comma >= 0 {
		inner = inner[:comma]
	}
	length, err := strconv.Atoi(strings.TrimSpace(inner))
	if err != nil {
		return base, 0, false
	}
	return base, length, true
}

// FormatType renders a catalog base type and length back into a type expression.
func FormatType(base string, length int) string {
	if length > 0 && sizedTypes[strings.ToUpper(base)] {
		return base + "(" + strconv.Itoa(length) + ")"
	}
	return base
}

// TypeMatches reports whether a model column's logical type is satisfied by a catalog column.
// Base names are compared after alias canonicalization; lengths only when the model's
// physical type declares one.
func TypeMatches(mode GeneratorMode, logicalType string, catalog *Column) bool {
	modelBase, modelLength, modelHasLength := SplitType(PhysicalType(mode, logicalType))
	if CanonicalTypeName(mode, modelBase) != CanonicalTypeName(mode, catalog.Type) {
		return false
	}
	return !modelHasLength || modelLength == catalog.Length
}

func isIntegerType(mode GeneratorMode, typ string) bool {
	base, _, _ := SplitType(typ)
	return integerTypes[CanonicalTypeName(mode, base)]
}
