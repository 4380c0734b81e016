package condense

import (
	"math"

	"github.com/penwyp/go-pull-condenser/internal/core/canon"
	"github.com/penwyp/go-pull-condenser/internal/core/model"
)

// group is the open set being folded. It is owned by a single Condense call.
type group struct {
	key     canon.Key
	anchor  int64
	set     model.CondensedSet
	players map[string]*playerState
}

type playerState struct {
	targeted  bool
	dead      bool
	buffs     orderedSet
	available orderedSet
	botched   orderedSet
}

// newGroup opens a set identified by its first row's timestamp.
func newGroup(key canon.Key, first model.FightEventRow) *group {
	return &group{
		key:    key,
		anchor: first.Timestamp,
		set: model.CondensedSet{
			ID:        first.Timestamp,
			Timestamp: first.Timestamp,
			Ability:   first.Ability,
			Children:  make([]model.FightEventRow, 0, 4),
		},
		players: make(map[string]*playerState),
	}
}

func (g *group) accepts(key canon.Key, ts, windowMs int64) bool {
	if key != g.key {
		return false
	}
	if g.anchor > math.MaxInt64-windowMs {
		return true
	}
	return ts <= g.anchor+windowMs
}

// player returns the aggregate for name, creating it on first touch.
func (g *group) player(name string) *playerState {
	p, ok := g.players[name]
	if !ok {
		p = &playerState{}
		g.players[name] = p
	}
	return p
}

// orderedSet keeps unique strings in insertion order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

// slice returns a copy of the items, never nil.
func (s *orderedSet) slice() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
