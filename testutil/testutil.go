package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erddef/erddef"
	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/database/file"
	"github.com/erddef/erddef/design"
	"github.com/erddef/erddef/schema"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestCase struct {
	Mode     string     // default: db2
	Schema   string     // default: unqualified names
	Design   string     // design document JSON. default: empty document
	Current  []file.Row // catalog rows. default: empty catalog
	Output   *string    // expected script. "" means nothing is modified
	Error    *string    // expected error substring. default: nil
	SkipDrop bool       `yaml:"skip_drop"`
	Export   bool
	Config   string // generator config YAML
}

func init() {
	// Keep INFO logs such as "Nothing is modified" out of test output unless LOG_LEVEL asks for them.
	if os.Getenv("LOG_LEVEL") == "" {
		opts := &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}
		handler := slog.NewTextHandler(os.Stderr, opts)
		slog.SetDefault(slog.New(handler))
	}
}

func ReadTests(pattern string) (map[string]TestCase, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	ret := map[string]TestCase{}
	testFileMap := map[string]string{}

	for _, file := range files {
		var tests map[string]*TestCase

		buf, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
		if err := dec.Decode(&tests); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		for name, test := range tests {
			if test.Output == nil && test.Error == nil {
				return nil, fmt.Errorf("%s: test case '%s': either 'output' or 'error' must be specified", file, name)
			}
			if existingFile, ok := testFileMap[name]; ok {
				return nil, fmt.Errorf("duplicate test case name '%s': defined in both '%s' and '%s'", name, existingFile, file)
			}
			testFileMap[name] = file
			ret[name] = *test
		}
	}

	return ret, nil
}

// RunTest runs a case through erddef.Run against a catalog snapshot file. A successful
// comparison is then checked for idempotency: a catalog built from the design itself must
// produce no script.
func RunTest(t *testing.T, test TestCase) {
	t.Helper()

	mode, err := schema.ParseGeneratorMode(test.Mode)
	require.NoError(t, err)

	config, err := database.ParseGeneratorConfigString(test.Config)
	require.NoError(t, err)

	dir := t.TempDir()
	designFile := filepath.Join(dir, "design.vuerd.json")
	WriteFile(t, designFile, designOrEmpty(test.Design))

	options := &erddef.Options{
		DesignFile: designFile,
		SchemaName: test.Schema,
		SkipDrop:   test.SkipDrop,
		Export:     test.Export,
		Config:     config,
	}

	output, err := runWithRows(t, mode, test.Current, options)
	if test.Error != nil {
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), *test.Error)
		}
		return
	}
	require.NoError(t, err)
	assert.Equal(t, *test.Output, output)

	if test.Export {
		return
	}

	// Phase 2: the design compared with itself produces nothing
	doc, err := design.Decode(strings.NewReader(designOrEmpty(test.Design)))
	require.NoError(t, err)
	model, err := design.Normalize(doc)
	require.NoError(t, err)

	output, err = runWithRows(t, mode, RowsFromModel(mode, model.Tables), options)
	require.NoError(t, err)
	assert.Empty(t, output, "design compared with its own catalog should produce no script")
}

// RowsFromModel renders model tables as the catalog rows a database would report after
// applying them.
func RowsFromModel(mode schema.GeneratorMode, tables *schema.Tables) []file.Row {
	var rows []file.Row
	for _, table := range tables.All() {
		for _, column := range table.Columns {
			row := file.Row{
				Table:   table.Name,
				Column:  column.Name,
				Type:    schema.PhysicalType(mode, column.Type),
				Nulls:   "Y",
				Default: schema.NormalizeDefault(column.Default),
			}
			if column.NotNull {
				row.Nulls = "N"
			}
			if column.ReferenceTable != "" {
				row.Constraint = strings.ToLower(table.Name + "_" + column.Name + "_fkey")
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func runWithRows(t *testing.T, mode schema.GeneratorMode, rows []file.Row, options *erddef.Options) (string, error) {
	t.Helper()

	buf, err := yaml.Marshal(rows)
	require.NoError(t, err)
	currentFile := filepath.Join(t.TempDir(), "current.yml")
	WriteFile(t, currentFile, string(buf))

	var out bytes.Buffer
	err = erddef.Run(context.Background(), mode, file.NewDatabase(currentFile), options, &out)
	return out.String(), err
}

func designOrEmpty(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return `{"table":{"tables":[]},"relationship":{"relationships":[]}}`
	}
	return doc
}

func WriteFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
