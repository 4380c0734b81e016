package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// FightEventRow is one combat event of a pull.
//
// Collections may be missing in upstream data; a nil map or slice is read as empty.
// UnmitigatedAmount of 0 means "unknown", not a true zero.
type FightEventRow struct {
	Timestamp                    int64                  `json:"timestamp"`
	Ability                      string                 `json:"ability"`
	Actor                        string                 `json:"actor,omitempty"`
	Source                       string                 `json:"source,omitempty"`
	Amount                       int64                  `json:"amount,omitempty"`
	UnmitigatedAmount            int64                  `json:"unmitigatedAmount,omitempty"`
	Absorbed                     int64                  `json:"absorbed,omitempty"`
	MitigationPct                int                    `json:"mitigationPct,omitempty"`
	IntendedMitPct               int                    `json:"intendedMitPct,omitempty"`
	Buffs                        map[string]ApplierList `json:"buffs,omitempty"`
	Deaths                       []string               `json:"deaths,omitempty"`
	AvailableMitigationsByPlayer map[string][]string    `json:"availableMitigationsByPlayer,omitempty"`
	PotentiallyBotchedBuffs      []string               `json:"potentiallyBotchedBuffs,omitempty"`
}

// HasUnmitigated reports whether UnmitigatedAmount carries a real value.
func (r FightEventRow) HasUnmitigated() bool {
	return r.UnmitigatedAmount > 0
}

// Mitigated returns the damage prevented by mitigation, or false when it cannot be known.
func (r FightEventRow) Mitigated() (int64, bool) {
	if !r.HasUnmitigated() || r.Amount > r.UnmitigatedAmount {
		return 0, false
	}
	return r.UnmitigatedAmount - r.Amount, true
}

// Clone returns a deep copy so callers can't reach into engine-owned state.
func (r FightEventRow) Clone() FightEventRow {
	out := r
	if r.Buffs != nil {
		out.Buffs = make(map[string]ApplierList, len(r.Buffs))
		for buff, appliers := range r.Buffs {
			out.Buffs[buff] = append(ApplierList(nil), appliers...)
		}
	}
	if r.Deaths != nil {
		out.Deaths = append([]string(nil), r.Deaths...)
	}
	if r.AvailableMitigationsByPlayer != nil {
		out.AvailableMitigationsByPlayer = make(map[string][]string, len(r.AvailableMitigationsByPlayer))
		for player, abilities := range r.AvailableMitigationsByPlayer {
			out.AvailableMitigationsByPlayer[player] = append([]string(nil), abilities...)
		}
	}
	if r.PotentiallyBotchedBuffs != nil {
		out.PotentiallyBotchedBuffs = append([]string(nil), r.PotentiallyBotchedBuffs...)
	}
	return out
}

// ApplierList is the ordered list of players who applied a buff.
// Some exporters write a lone applier as a bare string; both forms are accepted.
type ApplierList []string

func (al *ApplierList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := sonic.Unmarshal(data, &items); err == nil {
		*al = items
		return nil
	}

	var single string
	if err := sonic.Unmarshal(data, &single); err == nil {
		if single == "" {
			*al = ApplierList{}
		} else {
			*al = ApplierList{single}
		}
		return nil
	}

	return fmt.Errorf("appliers must be either a string or an array of strings")
}

// Friendly is a roster entry of the pull.
type Friendly struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// CastEvent is one ability use by a friendly player, auto-attacks included.
type CastEvent struct {
	Timestamp int64  `json:"timestamp"`
	Player    string `json:"player"`
	Ability   string `json:"ability"`
}

// BuffInterval is one application of a buff on a target.
// End of 0 means the buff was still up when the pull ended.
type BuffInterval struct {
	Buff   string `json:"buff"`
	Target string `json:"target"`
	Source string `json:"source,omitempty"`
	Start  int64  `json:"start"`
	End    int64  `json:"end,omitempty"`
}

// ActiveAt reports whether the interval covers ts.
func (bi BuffInterval) ActiveAt(ts int64) bool {
	return bi.Start <= ts && (bi.End == 0 || ts < bi.End)
}

// FightTable is one pre-fetched pull as handed over by the report-parsing collaborator.
type FightTable struct {
	FightID       int             `json:"fightId"`
	EncounterID   int             `json:"encounterId"`
	Name          string          `json:"name"`
	StartTime     int64           `json:"startTime,omitempty"`
	EndTime       int64           `json:"endTime,omitempty"`
	Friendlies    []Friendly      `json:"friendlies,omitempty"`
	Rows          []FightEventRow `json:"rows"`
	Casts         []CastEvent     `json:"casts,omitempty"`
	BuffIntervals []BuffInterval  `json:"buffIntervals,omitempty"`
	// Selections overrides the catalog's group selections for this fight.
	Selections map[string]string `json:"selections,omitempty"`
}

// Roster maps player name to job name.
func (ft *FightTable) Roster() map[string]string {
	roster := make(map[string]string, len(ft.Friendlies))
	for _, f := range ft.Friendlies {
		if f.Name != "" {
			roster[f.Name] = f.Job
		}
	}
	return roster
}
