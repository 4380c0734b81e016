package model

import "sort"

// PlayerAggregate is what one player did or suffered within a CondensedSet.
type PlayerAggregate struct {
	WasTargeted          bool     `json:"wasTargeted"`
	Buffs                []string `json:"buffs"`
	Dead                 bool     `json:"dead"`
	AvailableMitigations []string `json:"availableMitigations"`
	BotchedBuffs         []string `json:"botchedBuffs"`
}

// CondensedSet is one time/ability bundle of raw hits shown as a single collapsible unit.
type CondensedSet struct {
	ID                           int64                      `json:"id"`
	Timestamp                    int64                      `json:"timestamp"`
	Ability                      string                     `json:"ability"`
	Players                      map[string]PlayerAggregate `json:"players"`
	AvailableMitigationsByPlayer map[string][]string        `json:"availableMitigationsByPlayer"`
	BotchedBuffsByPlayer         map[string][]string        `json:"botchedBuffsByPlayer"`
	Children                     []FightEventRow            `json:"children"`

	// Rows whose realized mitigation fell short of the intended one.
	BotchedHits      int   `json:"botchedHits"`
	TotalAmount      int64 `json:"totalAmount"`
	TotalUnmitigated int64 `json:"totalUnmitigated"`
}

// Dead returns the names of players that died in the set.
func (cs CondensedSet) Dead() []string {
	var dead []string
	for name, agg := range cs.Players {
		if agg.Dead {
			dead = append(dead, name)
		}
	}
	sort.Strings(dead)
	return dead
}

// Result is the output handed to the presentation layer.
type Result struct {
	CondensedSets []CondensedSet `json:"condensedSets"`
}
