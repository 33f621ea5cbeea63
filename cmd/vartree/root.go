package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-vartree/internal/registry/yamlreg"
	"github.com/goliatone/go-vartree/internal/store/sqlitestore"
	"github.com/goliatone/go-vartree/pkg/editor"
)

var (
	// Global flags
	schemaDir    string
	dbPath       string
	keyPath      string
	logLevel     string
	rendererName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vartree",
	Short: "Inspect and edit typed settings as editable value trees",
	Long: `vartree decomposes typed settings values into editable trees,
lets you change individual elements and writes the recomposed value back.

Quick start:
  vartree list                          # installed schemas
  vartree list org.example.editor       # keys and current values
  vartree show org.example.editor font-size
  vartree set org.example.editor font-size 14
  vartree edit org.example.editor window-state`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&schemaDir, "schema-dir", "schemas", "directory holding schema documents")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "vartree.db", "settings database path")
	rootCmd.PersistentFlags().StringVar(&keyPath, "path", "", "relocatable schema instance path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&rendererName, "renderer", "", "output renderer name")
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// app bundles the wired collaborators a command needs.
type app struct {
	editor *editor.Editor
	source *yamlreg.Loader
	store  *sqlitestore.Store
	logger zerolog.Logger
}

func buildApp() (*app, error) {
	logger := newLogger()
	source := yamlreg.New(schemaDir, yamlreg.WithLogger(logger))
	st, err := sqlitestore.Open(dbPath, sqlitestore.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}
	ed := editor.New(
		editor.WithSource(source),
		editor.WithStore(st),
		editor.WithLogger(logger),
	)
	return &app{editor: ed, source: source, store: st, logger: logger}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing settings database")
	}
}
