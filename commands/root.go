package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/penwyp/go-pull-condenser/internal/analyzer"
	"github.com/penwyp/go-pull-condenser/internal/config"
	"github.com/penwyp/go-pull-condenser/internal/util"
	"github.com/spf13/cobra"
)

// options are the flags that are not part of Settings.
type options struct {
	configFile string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pull-condenser <paths...> [flags]",
		Short: "Condense FFXIV pull damage logs into readable mechanic sets",
		Long: `pull-condenser folds the raw damage rows of a pull into condensed sets: the hits of one
mechanic landing together, with who was hit, who had buffs out, who died, which
mitigations were still available and which buffs were probably botched.

Paths may be fight table JSON files or directories holding them.

Examples:
  pull-condenser fights/                          # Analyze every fight table under fights/
  pull-condenser pull-12.json --output summary    # Per-player summary of one pull
  pull-condenser fights/ --window 1500ms -o csv   # Wider grouping window, CSV output
  pull-condenser fights/ --botched-margin 5       # Tolerate 5 points of missing mitigation
  pull-condenser fights/ --sort -damage           # Hardest-hitting mechanics first
  pull-condenser watch fights/                    # Re-analyze whenever a table changes`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAnalyzer(cmd, opts, args)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}

	flags := cmd.PersistentFlags()

	// Settings source
	flags.StringVar(&opts.configFile, "config", "",
		"Settings file (default ./.pull-condenser.yaml or ~/.pull-condenser.yaml)")
	flags.String("catalog", "",
		"Game data catalog YAML (default: built-in)")

	// Analysis
	flags.Duration("window", config.DefaultWindow,
		"Longest gap from a set's first hit for a same-ability hit to join it")
	flags.Int("botched-margin", config.DefaultBotchedMargin,
		"Percentage points of missing mitigation tolerated before a hit counts as botched")
	flags.Bool("abilities-only", false,
		"Report buffs under the ability that produces them")

	// Output
	flags.StringP("output", "o", config.DefaultOutput,
		"Output format (table, json, csv, summary)")
	flags.String("sort", config.DefaultSort,
		"Order sets by time, damage, hits or botched; prefix with - for descending")

	// Logging
	flags.String("log-level", config.DefaultLogLevel,
		"Log level written to stderr (debug, info, warn, error)")
	flags.String("log-file", "",
		"Write logs to this file")
	flags.BoolVar(&opts.debug, "debug", false,
		"Log at debug level")

	cmd.AddCommand(newValidateCmd(), newWatchCmd(opts))

	return cmd
}

// Execute runs the command line.
func Execute() error {
	return newRootCmd().Execute()
}

// newAnalyzer resolves settings, logging and the catalog, then builds an analyzer
// writing to the command's output.
func newAnalyzer(cmd *cobra.Command, opts *options, paths []string) (*analyzer.Analyzer, error) {
	settings, err := config.LoadSettings(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	if err := initLogging(settings, opts.debug, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(settings.Catalog)
	if err != nil {
		return nil, err
	}

	util.LogDebug("settings resolved",
		util.F("window", settings.Window.String()),
		util.F("botched_margin", settings.BotchedMargin),
		util.F("abilities_only", settings.AbilitiesOnly),
		util.F("output", settings.Output),
		util.F("sort", settings.Sort),
	)

	return analyzer.New(&analyzer.Config{
		Paths:       paths,
		Settings:    settings,
		Catalog:     catalog,
		Concurrency: runtime.NumCPU(),
		Output:      cmd.OutOrStdout(),
	})
}

// initLogging writes entries at the configured level to console, and to the log file
// when one is set. debug lowers the level to debug.
func initLogging(settings *config.Settings, debug bool, console io.Writer) error {
	logLevel := settings.LogLevel
	if debug {
		logLevel = "debug"
	}

	logFile := ""
	if settings.LogFile != "" {
		logFile = expandPath(settings.LogFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	return util.InitLogger(logLevel, logFile, console)
}

func loadCatalog(path string) (*config.Catalog, error) {
	if path == "" {
		return config.DefaultCatalog()
	}
	return config.LoadCatalog(expandPath(path))
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
