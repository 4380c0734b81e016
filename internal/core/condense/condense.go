// Package condense folds a pull's raw damage rows into condensed sets: bundles of
// near-simultaneous hits of the same ability, each with a per-player summary of who was
// hit, who contributed buffs, who died, what mitigation was available and which buffs
// were potentially botched.
package condense

import (
	"sort"
	"time"

	"github.com/penwyp/go-pull-condenser/internal/core/attribution"
	"github.com/penwyp/go-pull-condenser/internal/core/availability"
	"github.com/penwyp/go-pull-condenser/internal/core/botched"
	"github.com/penwyp/go-pull-condenser/internal/core/canon"
	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/penwyp/go-pull-condenser/internal/util"
)

// DefaultWindow is the grouping window used when Options.Window is not positive.
const DefaultWindow = time.Second

// Options configures an Engine.
type Options struct {
	// Window is the longest distance from a set's first hit at which a hit of the same
	// ability still joins the set. The bound is inclusive.
	Window time.Duration
	// BotchedMargin is the shortfall, in percentage points, a row must exceed to count
	// as a botched hit.
	BotchedMargin int
	IgnoredBuffs  canon.Set

	// Attribution fills in a row's buffs when the row carries none. Optional.
	Attribution *attribution.Engine
	// Availability fills in the target's available mitigations when the row carries
	// none. Optional.
	Availability *availability.Tracker

	Logger util.LoggerInterface
}

// Engine groups rows into condensed sets. It holds no mutable state after New, so a
// single Engine may serve concurrent Condense calls.
type Engine struct {
	windowMs     int64
	ignored      canon.Set
	detector     botched.Detector
	attribution  *attribution.Engine
	availability *availability.Tracker
	logger       util.LoggerInterface
}

// New creates an Engine.
func New(opts Options) *Engine {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = util.NopLogger()
	}

	return &Engine{
		windowMs:     int64((window + time.Millisecond - 1) / time.Millisecond),
		ignored:      opts.IgnoredBuffs,
		detector:     botched.Detector{Margin: opts.BotchedMargin},
		attribution:  opts.Attribution,
		availability: opts.Availability,
		logger:       logger,
	}
}

// Condense groups rows into condensed sets in chronological order of first hit.
// rows is not modified; every child in the result is an independent copy.
func (e *Engine) Condense(rows []model.FightEventRow) model.Result {
	ordered := make([]model.FightEventRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp < ordered[j].Timestamp })

	result := model.Result{CondensedSets: make([]model.CondensedSet, 0)}

	var open *group
	for _, row := range ordered {
		key := canon.Normalize(row.Ability)
		if open == nil || !open.accepts(key, row.Timestamp, e.windowMs) {
			if open != nil {
				result.CondensedSets = append(result.CondensedSets, e.close(open))
			}
			open = newGroup(key, row)
		}
		e.fold(open, e.enrich(row))
	}
	if open != nil {
		result.CondensedSets = append(result.CondensedSets, e.close(open))
	}

	return result
}

// enrich returns a copy of row with missing buffs and availability supplied by the
// configured collaborators. Fields the row already carries are kept as-is.
func (e *Engine) enrich(row model.FightEventRow) model.FightEventRow {
	row = row.Clone()
	if row.Actor == "" {
		return row
	}

	if row.Buffs == nil && e.attribution != nil {
		if active := e.attribution.ActiveAt(row.Actor, row.Timestamp); len(active) > 0 {
			row.Buffs = active
		}
	}

	if row.AvailableMitigationsByPlayer == nil && e.availability != nil {
		if available := e.availability.AvailableAt(row.Actor, row.Timestamp); available != nil {
			row.AvailableMitigationsByPlayer = map[string][]string{row.Actor: available}
		}
	}

	return row
}

func (e *Engine) fold(g *group, row model.FightEventRow) {
	g.set.Children = append(g.set.Children, row)
	g.set.TotalAmount += row.Amount
	g.set.TotalUnmitigated += row.UnmitigatedAmount
	if e.detector.Row(row) {
		g.set.BotchedHits++
	}

	if row.Actor != "" {
		p := g.player(row.Actor)
		p.targeted = true
		for _, ability := range row.AvailableMitigationsByPlayer[row.Actor] {
			p.available.add(ability)
		}
	}

	for _, buff := range sortedBuffNames(row.Buffs) {
		if e.ignored.Has(buff) {
			continue
		}
		for _, applier := range row.Buffs[buff] {
			if applier == "" {
				continue
			}
			g.player(applier).buffs.add(buff)
		}
	}

	for _, name := range row.Deaths {
		if name == "" {
			continue
		}
		g.player(name).dead = true
	}

	for _, buff := range row.PotentiallyBotchedBuffs {
		if e.ignored.Has(buff) {
			continue
		}
		for _, applier := range appliersOf(row.Buffs, buff) {
			if applier == "" {
				continue
			}
			g.player(applier).botched.add(buff)
		}
	}
}

func (e *Engine) close(g *group) model.CondensedSet {
	set := g.set
	set.Players = make(map[string]model.PlayerAggregate, len(g.players))
	set.AvailableMitigationsByPlayer = make(map[string][]string, len(g.players))
	set.BotchedBuffsByPlayer = make(map[string][]string, len(g.players))

	for name, p := range g.players {
		set.Players[name] = model.PlayerAggregate{
			WasTargeted:          p.targeted,
			Buffs:                p.buffs.slice(),
			Dead:                 p.dead,
			AvailableMitigations: p.available.slice(),
			BotchedBuffs:         p.botched.slice(),
		}
		set.AvailableMitigationsByPlayer[name] = p.available.slice()
		set.BotchedBuffsByPlayer[name] = p.botched.slice()
	}

	e.logger.Debug("condensed set closed",
		util.F("id", set.ID),
		util.F("ability", set.Ability),
		util.F("timestamp", set.Timestamp),
		util.F("children", len(set.Children)),
		util.F("players", len(set.Players)),
	)
	return set
}

func sortedBuffNames(buffs map[string]model.ApplierList) []string {
	if len(buffs) == 0 {
		return nil
	}
	names := make([]string, 0, len(buffs))
	for name := range buffs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// appliersOf looks buff up by exact name, then by canonical name.
func appliersOf(buffs map[string]model.ApplierList, buff string) model.ApplierList {
	if appliers, ok := buffs[buff]; ok {
		return appliers
	}
	key := canon.Normalize(buff)
	for _, name := range sortedBuffNames(buffs) {
		if canon.Normalize(name) == key {
			return buffs[name]
		}
	}
	return nil
}
