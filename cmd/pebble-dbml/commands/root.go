package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marshallshelly/pebble-dbml/cmd/pebble-dbml/output"
	"github.com/marshallshelly/pebble-dbml/cmd/pebble-dbml/tui"
	"github.com/marshallshelly/pebble-dbml/internal/config"
	"github.com/marshallshelly/pebble-dbml/internal/logger"
	"github.com/marshallshelly/pebble-dbml/pkg/generator"
	"github.com/marshallshelly/pebble-dbml/pkg/naming"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Generate flags
	interactive bool

	// Resolved in PersistentPreRunE
	cfg *config.Config
	log = zap.NewNop()
)

// rootCmd generates DBML for the selected models
var rootCmd = &cobra.Command{
	Use:   "pebble-dbml [app_label[.ModelName] ...]",
	Short: "Generate a DBML schema from model definitions",
	Long: `pebble-dbml reads model definitions and writes a DBML description of the
tables, columns and relationships they declare.

Models come from Go source files with po struct tags (--models) or from
YAML/JSON manifests (--manifest). Without selectors every model is rendered;
"app" selects one app and "app.Model" a single model.

Examples:
  pebble-dbml --models ./internal/models
  pebble-dbml --manifest models.yaml library library.Author --file schema.dbml
  pebble-dbml --models ./internal --table-format schema_prefixed --table-filter audit,tmp`,
	Version:           "0.3.0",
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.OutOrStdout(), args)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./.pebble-dbml.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().StringSlice("models", nil, "Go file or directory with po-tagged model structs (repeatable)")
	rootCmd.PersistentFlags().StringSlice("manifest", nil, "YAML or JSON model manifest (repeatable)")
	rootCmd.PersistentFlags().String("table-format", naming.Identity,
		"Table naming strategy: "+strings.Join(naming.Strategies(), ", "))
	rootCmd.PersistentFlags().String("table-prefix", "", "Prefix for every table name")
	rootCmd.PersistentFlags().StringSlice("type-map", nil, "Override a field kind's DBML type, Kind=token (repeatable)")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on field kinds without a DBML type")

	// Generate flags
	rootCmd.Flags().String("file", "", "Write the DBML to this file instead of stdout")
	rootCmd.Flags().String("db-name", generator.DefaultProject.Name, "Project database name")
	rootCmd.Flags().String("db-type", generator.DefaultProject.DatabaseType, "Project database type")
	rootCmd.Flags().String("db-note", "", "Project database note")
	rootCmd.Flags().String("table-filter", "", "Comma-separated substrings; matching tables are skipped")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick the models to render interactively")
}

// setup resolves configuration and the logger for every command.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err = logger.New(&cfg.Log)
	if err != nil {
		return err
	}
	return nil
}

func runGenerate(w io.Writer, selectors []string) error {
	selected, err := selectModels(selectors)
	if err != nil {
		return err
	}

	gen, err := newAssembler(
		generator.WithProject(cfg.Project),
		generator.WithTableFilter(cfg.TableFilter...),
	)
	if err != nil {
		return err
	}

	if interactive {
		picked, err := tui.RunPicker(selected, gen.TableName)
		if errors.Is(err, tui.ErrCancelled) {
			output.Warning("Cancelled, nothing written")
			return nil
		}
		if err != nil {
			return fmt.Errorf("interactive selection failed: %w", err)
		}
		output.Info("Rendering %d of %d models", len(picked), len(selected))
		selected = picked
	}

	log.Debug("generating", zap.Int("models", len(selected)), zap.String("table_format", cfg.TableFormat))

	dbml, err := gen.Generate(selected)
	if err != nil {
		return err
	}

	return writeDBML(w, cfg.File, dbml)
}

// writeDBML sends the document to w, or to path when one is given. Both
// sinks end the document with a newline.
func writeDBML(w io.Writer, path string, dbml []byte) error {
	data := make([]byte, 0, len(dbml)+1)
	data = append(append(data, dbml...), '\n')

	if path == "" {
		_, err := w.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	output.Success("Wrote %s", path)
	return nil
}
