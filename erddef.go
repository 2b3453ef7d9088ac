package erddef

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/erddef/erddef/database"
	"github.com/erddef/erddef/design"
	"github.com/erddef/erddef/schema"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// CommonOptions are the flags shared by every command, embedded as a go-flags group.
type CommonOptions struct {
	File         string   `long:"file" description:"Read the design document from the file, rather than stdin" value-name:"design_file" default:"-"`
	Schema       string   `long:"schema" description:"Schema to compare with (default: the connection's default schema)" value-name:"schema_name"`
	OutputDir    string   `long:"output-dir" description:"Write the script to <output_dir>/<unix millis>.sql instead of stdout" value-name:"output_dir"`
	Export       bool     `long:"export" description:"Just dump the current schema as CREATE TABLE statements"`
	SkipDrop     bool     `long:"skip-drop" description:"Render DROP statements as comments"`
	Config       []string `long:"config" description:"YAML file to specify: target_tables, skip_tables (can be specified multiple times)" value-name:"config_file"`
	ConfigInline []string `long:"config-inline" description:"YAML object to specify: target_tables, skip_tables (can be specified multiple times)" value-name:"config_yaml"`
	Debug        bool     `long:"debug" description:"Dump the model, the catalog and the operations to stderr"`
	LogLevel     string   `long:"log-level" description:"Log level (debug, info, warn, error), overridden by $LOG_LEVEL" value-name:"level"`
	Help         bool     `long:"help" description:"Show this help"`
	Version      bool     `long:"version" description:"Show this version"`
}

type Options struct {
	DesignFile string
	SchemaName string
	OutputDir  string
	Export     bool
	SkipDrop   bool
	Debug      bool
	Config     database.GeneratorConfig
}

// Options resolves the flags into run options, reading every generator config in order.
func (o CommonOptions) Options() (*Options, error) {
	config, err := ParseConfigs(o.Config, o.ConfigInline)
	if err != nil {
		return nil, err
	}
	return &Options{
		DesignFile: o.File,
		SchemaName: o.Schema,
		OutputDir:  o.OutputDir,
		Export:     o.Export,
		SkipDrop:   o.SkipDrop,
		Debug:      o.Debug,
		Config:     config,
	}, nil
}

// Main function shared by all commands
func Run(ctx context.Context, generatorMode schema.GeneratorMode, db database.Database, options *Options, w io.Writer) error {
	schemaName := options.SchemaName
	if schemaName == "" {
		schemaName = db.DefaultSchema()
	}

	var model *design.Model
	var rows []schema.CatalogColumn
	eg, egCtx := errgroup.WithContext(ctx)
	if !options.Export {
		eg.Go(func() error {
			doc, err := design.ReadFile(options.DesignFile)
			if err != nil {
				return err
			}
			model, err = design.Normalize(doc)
			return err
		})
	}
	eg.Go(func() error {
		var err error
		rows, err = db.Columns(egCtx, schemaName)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	catalog := database.FilterTables(schema.BuildCatalog(rows), options.Config)
	slog.Debug("Loaded catalog", "mode", generatorMode, "schema", schemaName, "tables", catalog.Len())

	var ops []schema.Operation
	if options.Export {
		ops = schema.ExportOperations(catalog)
	} else {
		var err error
		ops, err = schema.GenerateOperations(generatorMode, database.FilterTables(model.Tables, options.Config), catalog)
		if err != nil {
			return err
		}
	}

	if options.Debug {
		if model != nil {
			pp.Fprintln(os.Stderr, model)
		}
		pp.Fprintln(os.Stderr, catalog.All())
		pp.Fprintln(os.Stderr, ops)
	}

	script := schema.NewEmitter(generatorMode, schemaName, options.SkipDrop).Render(ops)
	if script == "" {
		slog.Info("Nothing is modified")
		return nil
	}

	if options.OutputDir == "" {
		_, err := io.WriteString(w, script)
		return err
	}
	path, err := WriteScript(options.OutputDir, script, time.Now())
	if err != nil {
		return err
	}
	slog.Info("Wrote script", "path", path)
	return nil
}

// WriteScript saves the script as <dir>/<unix millis>.sql and returns the path.
func WriteScript(dir string, script string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.sql", now.UnixMilli()))
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ParseConfigs merges config files followed by inline configs. A later non-empty list wins.
func ParseConfigs(configFiles []string, inlineConfigs []string) (database.GeneratorConfig, error) {
	var configs []database.GeneratorConfig
	for _, configFile := range configFiles {
		config, err := database.ParseGeneratorConfig(configFile)
		if err != nil {
			return database.GeneratorConfig{}, fmt.Errorf("failed to read config '%s': %w", configFile, err)
		}
		configs = append(configs, config)
	}
	for _, inline := range inlineConfigs {
		config, err := database.ParseGeneratorConfigString(inline)
		if err != nil {
			return database.GeneratorConfig{}, err
		}
		configs = append(configs, config)
	}
	return database.MergeGeneratorConfigs(configs), nil
}

// IsCatalogFile reports whether a positional argument names a catalog snapshot file rather
// than a database.
func IsCatalogFile(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yml", ".yaml", ".json":
		return true
	default:
		return false
	}
}

// ResolvePassword prefers the environment variable over the flag value, and an interactive
// prompt over both.
func ResolvePassword(envName string, flagValue string, prompt bool) (string, error) {
	password, ok := os.LookupEnv(envName)
	if !ok {
		password = flagValue
	}

	if prompt {
		fmt.Printf("Enter Password: ")
		pass, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		password = string(pass)
	}
	return password, nil
}
