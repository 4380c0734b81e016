package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/penwyp/go-pull-condenser/internal/analyzer"
	"github.com/penwyp/go-pull-condenser/internal/data/watcher"
	"github.com/penwyp/go-pull-condenser/internal/util"
	"github.com/spf13/cobra"
)

const defaultQuietPeriod = 500 * time.Millisecond

func newWatchCmd(opts *options) *cobra.Command {
	var quiet time.Duration

	cmd := &cobra.Command{
		Use:   "watch <paths...>",
		Short: "Re-analyze fight tables whenever they change",
		Long: `Analyze the given fight tables, then watch them and re-run the analysis each time
files are written. Bursts of writes are coalesced until the quiet period passes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAnalyzer(cmd, opts, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runWatch(ctx, a, args, quiet, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&quiet, "quiet", defaultQuietPeriod,
		"Wait this long after the last write before re-analyzing")

	return cmd
}

// runWatch analyzes once, then again after every batch of changes until ctx is done.
// Failed re-runs are reported and watching continues.
func runWatch(ctx context.Context, a *analyzer.Analyzer, paths []string, quiet time.Duration, out io.Writer) error {
	fw, err := watcher.NewFileWatcher(paths)
	if err != nil {
		return fmt.Errorf("failed to watch fight files: %w", err)
	}
	defer fw.Close()

	if err := a.Run(); err != nil && !errors.Is(err, analyzer.ErrNoFightFiles) {
		return err
	}

	for changed := range watcher.Batch(ctx, fw.Events(), quiet) {
		for _, path := range changed {
			a.Parser().Invalidate(path)
		}
		util.LogDebug("fight files changed", util.F("files", changed))

		fmt.Fprintln(out, util.FormatSectionSeparator())
		fmt.Fprintln(out, util.FormatDiagnosticTitle(
			fmt.Sprintf("%d file(s) changed at %s, re-analyzing", len(changed), time.Now().Format("15:04:05"))))

		if err := a.Run(); err != nil {
			util.LogWarn("re-analysis failed", util.F("error", err.Error()))
			fmt.Fprintln(out, util.FormatAlert(err.Error()))
		}
	}

	return nil
}
