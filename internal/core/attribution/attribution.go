// Package attribution resolves which buffs were up on a target at a given instant and
// who applied them.
package attribution

import (
	"sort"

	"github.com/penwyp/go-pull-condenser/internal/core/canon"
	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/penwyp/go-pull-condenser/internal/util"
)

// Mode selects how buff names are reported.
type Mode int

const (
	// ModeBuffs reports raw buff names.
	ModeBuffs Mode = iota
	// ModeAbilitiesOnly collapses buff names to the ability that produces them.
	ModeAbilitiesOnly
)

// Buff is external metadata about a buff.
type Buff struct {
	Name string
	// Ability is the originating ability, used by ModeAbilitiesOnly.
	Ability string
	// Jobs lists the jobs known to apply the buff.
	Jobs []string
}

// Config is the data an Engine is built from.
type Config struct {
	Intervals []model.BuffInterval
	Ignored   canon.Set
	Buffs     []Buff
	// Roster maps player name to job name.
	Roster map[string]string
	Mode   Mode
	Logger util.LoggerInterface
}

type buffMeta struct {
	ability string
	jobs    canon.Set
}

// Engine answers "what was up on this target" queries. It is immutable after New.
type Engine struct {
	byTarget   map[string][]model.BuffInterval
	ignored    canon.Set
	meta       map[canon.Key]buffMeta
	rosterJobs canon.Set
	mode       Mode
	logger     util.LoggerInterface
}

// New indexes intervals by target. Intervals of ignored buffs are dropped here.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = util.NopLogger()
	}

	e := &Engine{
		byTarget:   make(map[string][]model.BuffInterval),
		ignored:    cfg.Ignored,
		meta:       make(map[canon.Key]buffMeta, len(cfg.Buffs)),
		rosterJobs: make(canon.Set),
		mode:       cfg.Mode,
		logger:     logger,
	}

	for _, b := range cfg.Buffs {
		key := canon.Normalize(b.Name)
		if key.IsZero() {
			continue
		}
		e.meta[key] = buffMeta{ability: b.Ability, jobs: canon.NewSet(b.Jobs...)}
	}

	for _, job := range cfg.Roster {
		e.rosterJobs.Add(job)
	}

	for _, iv := range cfg.Intervals {
		if iv.Target == "" || iv.Buff == "" || e.ignored.Has(iv.Buff) {
			continue
		}
		e.byTarget[iv.Target] = append(e.byTarget[iv.Target], iv)
	}
	for target := range e.byTarget {
		intervals := e.byTarget[target]
		sort.SliceStable(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })
	}

	return e
}

// Ignored reports whether buff is on the global ignore list.
func (e *Engine) Ignored(buff string) bool {
	return e.ignored.Has(buff)
}

// ActiveAt returns the buffs up on target at ts, each with its appliers in
// first-applied order. A buff may carry several appliers and an applier may appear
// under several buffs. Buffs with no known applier map to an empty list.
func (e *Engine) ActiveAt(target string, ts int64) map[string]model.ApplierList {
	active := make(map[string]model.ApplierList)
	seen := make(map[string]map[string]bool)

	for _, iv := range e.byTarget[target] {
		if iv.Start > ts {
			break
		}
		if !iv.ActiveAt(ts) {
			continue
		}

		name := e.displayName(iv.Buff)
		if _, ok := active[name]; !ok {
			active[name] = model.ApplierList{}
			seen[name] = make(map[string]bool)
		}
		if iv.Source != "" && !seen[name][iv.Source] {
			seen[name][iv.Source] = true
			active[name] = append(active[name], iv.Source)
		}
	}

	var orphans []string
	for name, appliers := range active {
		if len(appliers) == 0 {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		e.reportMissingApplier(name, target, ts)
	}

	return active
}

func (e *Engine) displayName(buff string) string {
	if e.mode != ModeAbilitiesOnly {
		return buff
	}
	if m, ok := e.meta[canon.Normalize(buff)]; ok && m.ability != "" {
		return m.ability
	}
	return buff
}

// reportMissingApplier logs a buff nobody on the roster could have applied. This
// points at a gap in upstream data; the buff is still reported.
func (e *Engine) reportMissingApplier(buff, target string, ts int64) {
	m, ok := e.meta[canon.Normalize(buff)]
	if !ok {
		if e.mode == ModeAbilitiesOnly {
			m, ok = e.metaByAbility(buff)
		}
		if !ok {
			return
		}
	}
	if len(m.jobs) == 0 {
		return
	}
	for job := range e.rosterJobs {
		if m.jobs.HasKey(job) {
			return
		}
	}

	jobs := make([]string, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job.String())
	}
	sort.Strings(jobs)

	e.logger.Warn("buff without applier outside known jobs",
		util.F("buff", buff),
		util.F("target", target),
		util.F("timestamp", ts),
		util.F("known_jobs", jobs),
	)
}

func (e *Engine) metaByAbility(ability string) (buffMeta, bool) {
	key := canon.Normalize(ability)
	for _, m := range e.meta {
		if canon.Normalize(m.ability) == key {
			return m, true
		}
	}
	return buffMeta{}, false
}
