// flatmenu is a terminal front end for the flatmenu projection: an
// interactive REPL over an in-memory menu tree, a dump of layout files in
// flat order and a live list view that follows the file as it changes.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phroun/flatmenu"
)

var (
	// Global flags
	cfgFile     string
	verbose     bool
	metricsAddr string

	cfg     Config
	logger  = zap.NewNop()
	metrics *flatmenu.Metrics

	stopMetrics = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "flatmenu",
	Short: "Inspect menu trees as flat, pre-order row lists",
	Long: `flatmenu projects a hierarchical menu tree onto a flat list of rows
in pre-order and reports every structural change in flat coordinates.

Run without arguments to start the interactive REPL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(cfgFile, cmd)
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		reg := prometheus.NewRegistry()
		metrics = flatmenu.NewMetrics(reg)
		if cfg.Metrics.Addr != "" {
			stopMetrics, err = serveMetrics(cfg.Metrics.Addr, reg)
			if err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopMetrics()
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd, args)
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Edit an in-memory menu tree and watch the flat notifications",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

var dumpCmd = &cobra.Command{
	Use:   "dump [file] [menu]",
	Short: "Print a layout menu as flat rows with their indices and paths",
	Long: `Prints every row of a layout menu in flat order. The file and menu
default to layout.path and layout.menu from the configuration.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDump,
}

var viewCmd = &cobra.Command{
	Use:   "view [file] [menu]",
	Short: "Browse a layout menu as a live flat list",
	Long: `Opens a full-screen list of the menu's rows. Edits to the layout file
are applied as they are saved, and the selection follows the rows it was on.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runView,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/flatmenu/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	rootCmd.AddCommand(replCmd, dumpCmd, viewCmd)
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// layoutArgs fills the file and menu from the configuration when omitted.
func layoutArgs(args []string) (path, menu string, err error) {
	path, menu = cfg.Layout.Path, cfg.Layout.Menu
	if len(args) > 0 {
		path = args[0]
	}
	if len(args) > 1 {
		menu = args[1]
	}
	if path == "" {
		return "", "", fmt.Errorf("no layout file given and layout.path is not set")
	}
	return path, menu, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
