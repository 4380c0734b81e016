package analyzer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/penwyp/go-pull-condenser/internal/config"
	"github.com/penwyp/go-pull-condenser/internal/core/attribution"
	"github.com/penwyp/go-pull-condenser/internal/core/availability"
	"github.com/penwyp/go-pull-condenser/internal/core/canon"
	"github.com/penwyp/go-pull-condenser/internal/core/condense"
	"github.com/penwyp/go-pull-condenser/internal/core/cooldown"
	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/penwyp/go-pull-condenser/internal/data/parser"
	"github.com/penwyp/go-pull-condenser/internal/data/scanner"
	"github.com/penwyp/go-pull-condenser/internal/presentation/formatter"
	"github.com/penwyp/go-pull-condenser/internal/presentation/interaction"
	"github.com/penwyp/go-pull-condenser/internal/util"
)

// ErrNoFightFiles is returned when the given paths hold no fight table files.
var ErrNoFightFiles = errors.New("no fight table files found")

type Config struct {
	// Paths are fight table files or directories holding them.
	Paths       []string
	Settings    *config.Settings
	Catalog     *config.Catalog
	Concurrency int
	Output      io.Writer
}

// Analyzer turns fight table files into condensed pull reports.
type Analyzer struct {
	config   *Config
	parser   *parser.Parser
	resolver *cooldown.Resolver
	sorter   *interaction.SetSorter
	ignored  canon.Set
	logger   util.LoggerInterface
}

func New(cfg *Config) (*Analyzer, error) {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Settings == nil {
		return nil, errors.New("analyzer: settings are required")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("analyzer: catalog is required")
	}

	resolver, err := cfg.Catalog.Resolver()
	if err != nil {
		return nil, fmt.Errorf("build dependency table: %w", err)
	}

	sorter, err := interaction.ParseSort(cfg.Settings.Sort)
	if err != nil {
		return nil, fmt.Errorf("invalid sort: %w", err)
	}

	return &Analyzer{
		config:   cfg,
		parser:   parser.NewParser(cfg.Concurrency),
		resolver: resolver,
		sorter:   sorter,
		ignored:  cfg.Catalog.IgnoredSet(),
		logger:   util.Default(),
	}, nil
}

// Parser exposes the analyzer's parser so callers can invalidate changed files.
func (a *Analyzer) Parser() *parser.Parser {
	return a.parser
}

// Run analyzes every fight file under the configured paths and writes the reports.
func (a *Analyzer) Run() error {
	reports, err := a.Analyze()
	if err != nil {
		return err
	}
	return a.Write(reports)
}

// Analyze parses and condenses every fight file, returning reports ordered by file.
// Files that fail to parse are logged and skipped.
func (a *Analyzer) Analyze() ([]formatter.Report, error) {
	startTime := time.Now()

	files, err := scanner.Expand(a.config.Paths)
	if err != nil {
		return nil, fmt.Errorf("scan fight files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoFightFiles
	}
	util.LogDebug("found fight files", util.F("count", len(files)))

	stats := NewRunStats()
	reports := make([]formatter.Report, 0, len(files))

	for result := range a.parser.ParseFiles(files) {
		stats.IncrementTotal()
		if result.Error != nil {
			stats.IncrementFailure(result.File, result.Error)
			util.LogWarn("failed to parse fight file", util.F("file", result.File), util.F("error", result.Error.Error()))
			continue
		}

		report := a.AnalyzeTable(result.Table)
		report.File = result.File
		stats.AddFight(len(result.Table.Rows), report.Result)
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].File < reports[j].File })

	stats.LogFinalStats(time.Since(startTime))

	if len(reports) == 0 {
		return nil, fmt.Errorf("no fight file could be parsed: %w", stats.FirstFailure())
	}
	return reports, nil
}

// AnalyzeTable condenses one fight. Casts feed the availability tracker and buff
// intervals feed attribution; rows that carry their own data keep it.
func (a *Analyzer) AnalyzeTable(table *model.FightTable) formatter.Report {
	settings := a.config.Settings
	catalog := a.config.Catalog
	roster := table.Roster()
	logger := a.logger.With(util.F("fight", table.FightID))

	opts := condense.Options{
		Window:        settings.Window,
		BotchedMargin: settings.BotchedMargin,
		IgnoredBuffs:  a.ignored,
		Logger:        logger,
	}

	if len(table.Casts) > 0 {
		tracker := availability.New(availability.Config{
			Roster:     roster,
			Abilities:  catalog.Abilities(),
			Selections: catalog.SelectionsFor(table.EncounterID, table.Selections),
			Resolver:   a.resolver,
			Logger:     logger,
		})
		for _, c := range table.Casts {
			tracker.RecordCast(c.Player, c.Ability, c.Timestamp)
		}
		opts.Availability = tracker
	}

	if len(table.BuffIntervals) > 0 {
		mode := attribution.ModeBuffs
		if settings.AbilitiesOnly {
			mode = attribution.ModeAbilitiesOnly
		}
		opts.Attribution = attribution.New(attribution.Config{
			Intervals: table.BuffIntervals,
			Ignored:   a.ignored,
			Buffs:     catalog.BuffMeta(),
			Roster:    roster,
			Mode:      mode,
			Logger:    logger,
		})
	}

	result := condense.New(opts).Condense(table.Rows)

	return formatter.Report{
		FightID:     table.FightID,
		EncounterID: table.EncounterID,
		Name:        table.Name,
		StartTime:   table.StartTime,
		Result:      result,
	}
}

// Write renders reports in the configured output format and set order.
func (a *Analyzer) Write(reports []formatter.Report) error {
	f, err := formatter.New(a.config.Settings.Output, a.config.Output)
	if err != nil {
		return err
	}
	for i := range reports {
		a.sorter.Sort(reports[i].CondensedSets)
	}
	return f.Format(reports)
}
