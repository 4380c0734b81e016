// Package availability tracks, per player, which mitigation abilities were off cooldown
// at any instant of a pull.
package availability

import (
	"math"
	"sort"
	"time"

	"github.com/penwyp/go-pull-condenser/internal/core/canon"
	"github.com/penwyp/go-pull-condenser/internal/core/cooldown"
	"github.com/penwyp/go-pull-condenser/internal/util"
)

// never is the ready-at value of a charge that has not been used yet.
const never = math.MinInt64

// Ability is one mitigation-capable ability of a job.
type Ability struct {
	Name     string
	Cooldown time.Duration
	Charges  int
	// Group names a fight-scoped set of which only one member is brought to the pull.
	Group string
}

// Config is the data a Tracker is built from.
type Config struct {
	// Roster maps player name to job name.
	Roster map[string]string
	// Abilities maps job name to the job's mitigation abilities, in display order.
	Abilities map[string][]Ability
	// Selections maps a group name to the ability chosen for this fight.
	Selections map[string]string
	Resolver   *cooldown.Resolver
	Logger     util.LoggerInterface
}

type trackedAbility struct {
	key        canon.Key
	name       string
	cooldownMs int64
	charges    int
}

type cast struct {
	ts      int64
	ability canon.Key
}

type playerState struct {
	job       canon.Key
	abilities []trackedAbility
	index     map[canon.Key]int
	casts     []cast
}

// Tracker holds one cooldown/charge state machine per player.
//
// Casts are recorded first, then AvailableAt is queried. AvailableAt does not mutate
// the tracker, so a fully recorded Tracker may be queried from several goroutines.
type Tracker struct {
	players  map[string]*playerState
	resolver *cooldown.Resolver
	logger   util.LoggerInterface
}

// New builds a tracker for every roster player whose job has known abilities.
func New(cfg Config) *Tracker {
	logger := cfg.Logger
	if logger == nil {
		logger = util.NopLogger()
	}

	byJob := make(map[canon.Key][]Ability, len(cfg.Abilities))
	for job, abilities := range cfg.Abilities {
		k := canon.Normalize(job)
		byJob[k] = append(byJob[k], abilities...)
	}

	selections := make(map[canon.Key]canon.Key, len(cfg.Selections))
	for group, ability := range cfg.Selections {
		selections[canon.Normalize(group)] = canon.Normalize(ability)
	}

	t := &Tracker{
		players:  make(map[string]*playerState, len(cfg.Roster)),
		resolver: cfg.Resolver,
		logger:   logger,
	}

	for player, job := range cfg.Roster {
		jobKey := canon.Normalize(job)
		state := &playerState{
			job:   jobKey,
			index: make(map[canon.Key]int),
		}
		for _, a := range selectGroups(byJob[jobKey], selections) {
			key := canon.Normalize(a.Name)
			if key.IsZero() {
				continue
			}
			if _, dup := state.index[key]; dup {
				continue
			}
			state.index[key] = len(state.abilities)
			state.abilities = append(state.abilities, trackedAbility{
				key:        key,
				name:       a.Name,
				cooldownMs: a.Cooldown.Milliseconds(),
				charges:    t.chargesFor(jobKey, key, a.Charges),
			})
		}
		t.players[player] = state
	}

	return t
}

// selectGroups keeps, for each group, only the fight's selection, or the first member
// when the fight has no selection for that group.
func selectGroups(abilities []Ability, selections map[canon.Key]canon.Key) []Ability {
	kept := make([]Ability, 0, len(abilities))
	seenGroup := make(map[canon.Key]bool)
	for _, a := range abilities {
		group := canon.Normalize(a.Group)
		if group.IsZero() {
			kept = append(kept, a)
			continue
		}
		if selected, ok := selections[group]; ok {
			if canon.Normalize(a.Name) == selected {
				kept = append(kept, a)
			}
			continue
		}
		if !seenGroup[group] {
			seenGroup[group] = true
			kept = append(kept, a)
		}
	}
	return kept
}

func (t *Tracker) chargesFor(job, ability canon.Key, configured int) int {
	charges := configured
	for _, e := range t.resolver.Resolve(job, ability) {
		if n := e.MaxCharges(); n > charges {
			charges = n
		}
	}
	if charges < 1 {
		charges = 1
	}
	return charges
}

// RecordCast records that player used ability at ts (milliseconds).
// Casts of abilities the tracker neither tracks nor finds in a dependency are dropped.
func (t *Tracker) RecordCast(player, ability string, ts int64) {
	state, ok := t.players[player]
	if !ok {
		t.logger.Debug("cast from untracked player", util.F("player", player), util.F("ability", ability))
		return
	}

	key := canon.Normalize(ability)
	if key.IsZero() {
		return
	}
	_, tracked := state.index[key]
	if !tracked && len(t.resolver.Resolve(state.job, key)) == 0 && len(t.resolver.Affecting(state.job, key)) == 0 {
		return
	}

	// Keep casts ordered by timestamp; equal timestamps keep arrival order.
	i := sort.Search(len(state.casts), func(i int) bool { return state.casts[i].ts > ts })
	state.casts = append(state.casts, cast{})
	copy(state.casts[i+1:], state.casts[i:])
	state.casts[i] = cast{ts: ts, ability: key}
}

// AvailableAt returns the mitigation abilities player could use at ts, in catalog order.
// Unknown players yield nil.
func (t *Tracker) AvailableAt(player string, ts int64) []string {
	state, ok := t.players[player]
	if !ok {
		return nil
	}
	return state.replay(t.resolver, ts)
}

// Tracked returns every ability tracked for player, in catalog order.
func (t *Tracker) Tracked(player string) []string {
	state, ok := t.players[player]
	if !ok {
		return nil
	}
	names := make([]string, len(state.abilities))
	for i, a := range state.abilities {
		names[i] = a.name
	}
	return names
}

type gauge struct {
	rule  cooldown.ResourceGated
	value int
}

// replay runs the player's casts up to ts through a fresh state machine.
func (ps *playerState) replay(resolver *cooldown.Resolver, ts int64) []string {
	readyAt := make([][]int64, len(ps.abilities))
	for i, a := range ps.abilities {
		readyAt[i] = make([]int64, a.charges)
		for j := range readyAt[i] {
			readyAt[i][j] = never
		}
	}

	gauges := make(map[canon.Key]*gauge)
	gaugeFor := func(trigger canon.Key, rule cooldown.ResourceGated) *gauge {
		g, ok := gauges[trigger]
		if !ok {
			g = &gauge{rule: rule, value: rule.Initial}
			gauges[trigger] = g
		}
		return g
	}
	for _, a := range ps.abilities {
		for _, e := range resolver.Resolve(ps.job, a.key) {
			if rule, ok := e.Handler.(cooldown.ResourceGated); ok {
				gaugeFor(a.key, rule)
			}
		}
	}

	for _, c := range ps.casts {
		if c.ts > ts {
			break
		}

		if i, ok := ps.index[c.ability]; ok {
			consumeCharge(readyAt[i], c.ts+ps.abilities[i].cooldownMs)
		}

		for _, e := range resolver.Resolve(ps.job, c.ability) {
			switch h := e.Handler.(type) {
			case cooldown.ChargedCooldown:
				// Charge count was fixed when the tracker was built.
			case cooldown.MutualCooldown:
				for _, affected := range e.Affects {
					if i, ok := ps.index[affected]; ok {
						lockUntil(readyAt[i], c.ts+ps.abilities[i].cooldownMs)
					}
				}
			case cooldown.CardDependency:
				for _, affected := range e.Affects {
					if i, ok := ps.index[affected]; ok {
						for j := range readyAt[i] {
							readyAt[i][j] = never
						}
					}
				}
			case cooldown.ResourceGated:
				g := gaugeFor(c.ability, h)
				g.value -= h.Cost
				if g.value < 0 {
					g.value = 0
				}
			}
		}

		for _, e := range resolver.Affecting(ps.job, c.ability) {
			if h, ok := e.Handler.(cooldown.ResourceGated); ok {
				g := gaugeFor(e.Trigger, h)
				g.value += h.GainPerAction
				if g.value > h.Max {
					g.value = h.Max
				}
			}
		}
	}

	available := make([]string, 0, len(ps.abilities))
	for i, a := range ps.abilities {
		if !hasFreeCharge(readyAt[i], ts) {
			continue
		}
		if g, ok := gauges[a.key]; ok && g.value < g.rule.Cost {
			continue
		}
		available = append(available, a.name)
	}
	return available
}

// consumeCharge spends the charge that recovered first and restarts its own timer.
func consumeCharge(charges []int64, recoverAt int64) {
	j := 0
	for k := range charges {
		if charges[k] < charges[j] {
			j = k
		}
	}
	charges[j] = recoverAt
}

func lockUntil(charges []int64, until int64) {
	for j := range charges {
		if charges[j] < until {
			charges[j] = until
		}
	}
}

// hasFreeCharge reports whether some charge's recovery time lies strictly before ts,
// i.e. the time elapsed since its cast exceeds the cooldown.
func hasFreeCharge(charges []int64, ts int64) bool {
	for _, readyAt := range charges {
		if readyAt < ts {
			return true
		}
	}
	return false
}
