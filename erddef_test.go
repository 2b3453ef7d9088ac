package erddef_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erddef/erddef"
	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/database/file"
	"github.com/erddef/erddef/schema"
	"github.com/erddef/erddef/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests, err := testutil.ReadTests("testdata/*.yml")
	require.NoError(t, err)
	require.NotEmpty(t, tests)

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.RunTest(t, test)
		})
	}
}

func TestRunWritesScriptToOutputDir(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "current.yml")
	testutil.WriteFile(t, current, "- {table: LEGACY, column: ID, type: INTEGER}\n")
	designFile := filepath.Join(dir, "design.vuerd.json")
	testutil.WriteFile(t, designFile, `{"table": {"tables": []}}`)

	outputDir := filepath.Join(dir, "scripts")
	var out bytes.Buffer
	err := erddef.Run(context.Background(), schema.GeneratorModeDB2, file.NewDatabase(current), &erddef.Options{
		DesignFile: designFile,
		OutputDir:  outputDir,
	}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())

	scripts, err := filepath.Glob(filepath.Join(outputDir, "*.sql"))
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	buf, err := os.ReadFile(scripts[0])
	require.NoError(t, err)
	assert.Contains(t, string(buf), "DROP TABLE LEGACY;\n")
}

func TestRunReportsMissingDesign(t *testing.T) {
	current := filepath.Join(t.TempDir(), "current.yml")
	testutil.WriteFile(t, current, "[]\n")

	err := erddef.Run(context.Background(), schema.GeneratorModeDB2, file.NewDatabase(current), &erddef.Options{
		DesignFile: filepath.Join(t.TempDir(), "missing.vuerd.json"),
	}, &bytes.Buffer{})
	assert.ErrorIs(t, err, schema.ErrInputRead)
}

func TestRunReportsCatalogFailure(t *testing.T) {
	designFile := filepath.Join(t.TempDir(), "design.vuerd.json")
	testutil.WriteFile(t, designFile, `{"table": {"tables": []}}`)

	err := erddef.Run(context.Background(), schema.GeneratorModeDB2, file.NewDatabase(filepath.Join(t.TempDir(), "missing.yml")), &erddef.Options{
		DesignFile: designFile,
	}, &bytes.Buffer{})
	assert.ErrorIs(t, err, schema.ErrCatalogQuery)
}

func TestWriteScript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	now := time.UnixMilli(1700000000123)

	path, err := erddef.WriteScript(dir, "DROP TABLE LEGACY;\n", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1700000000123.sql"), path)

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE LEGACY;\n", string(buf))
}

func TestParseConfigs(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yml")
	testutil.WriteFile(t, configFile, "target_tables: |\n  PERSON\n  ORDERS\nskip_tables: LEGACY\n")

	config, err := erddef.ParseConfigs([]string{configFile}, []string{"skip_tables: AUDIT"})
	require.NoError(t, err)
	assert.Equal(t, database.GeneratorConfig{
		TargetTables: []string{"PERSON", "ORDERS"},
		SkipTables:   []string{"AUDIT"},
	}, config)

	_, err = erddef.ParseConfigs([]string{filepath.Join(t.TempDir(), "missing.yml")}, nil)
	assert.Error(t, err)

	_, err = erddef.ParseConfigs(nil, []string{"unknown: value"})
	assert.Error(t, err)
}

func TestIsCatalogFile(t *testing.T) {
	for arg, expected := range map[string]bool{
		"current.yml":   true,
		"current.YAML":  true,
		"snapshot.json": true,
		"erd":           false,
		"./erd.db":      false,
	} {
		assert.Equal(t, expected, erddef.IsCatalogFile(arg), arg)
	}
}

func TestResolvePassword(t *testing.T) {
	t.Setenv("ERDDEF_TEST_PWD", "from-env")
	password, err := erddef.ResolvePassword("ERDDEF_TEST_PWD", "from-flag", false)
	require.NoError(t, err)
	assert.Equal(t, "from-env", password)

	password, err = erddef.ResolvePassword("ERDDEF_TEST_UNSET_PWD", "from-flag", false)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", password)
}

func TestCommonOptions(t *testing.T) {
	options, err := erddef.CommonOptions{
		File:         "design.vuerd.json",
		Schema:       "ERD",
		SkipDrop:     true,
		ConfigInline: []string{"skip_tables: LEGACY"},
	}.Options()
	require.NoError(t, err)
	assert.Equal(t, &erddef.Options{
		DesignFile: "design.vuerd.json",
		SchemaName: "ERD",
		SkipDrop:   true,
		Config:     database.GeneratorConfig{SkipTables: []string{"LEGACY"}},
	}, options)
}
