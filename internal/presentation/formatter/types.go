package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
)

// Report is the condensed analysis of one fight.
type Report struct {
	File        string `json:"file,omitempty"`
	FightID     int    `json:"fightId"`
	EncounterID int    `json:"encounterId"`
	Name        string `json:"name"`
	StartTime   int64  `json:"startTime,omitempty"`
	model.Result
}

// Title is the heading used for a report in human formats.
func (r Report) Title() string {
	if r.Name == "" {
		return fmt.Sprintf("Fight %d", r.FightID)
	}
	return fmt.Sprintf("%s (fight %d)", r.Name, r.FightID)
}

// Formatter writes reports in one output format.
type Formatter interface {
	Format(reports []Report) error
}

// New returns the formatter for format, writing to w.
func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	case "table", "":
		return NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// playerNames returns the set's player names, sorted.
func playerNames(set model.CondensedSet) []string {
	names := make([]string, 0, len(set.Players))
	for name := range set.Players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// targets lists the players hit in the set.
func targets(set model.CondensedSet) []string {
	var out []string
	for _, name := range playerNames(set) {
		if set.Players[name].WasTargeted {
			out = append(out, name)
		}
	}
	return out
}

// contributions renders "player: a, b" for every player with a non-empty list.
func contributions(set model.CondensedSet, pick func(model.PlayerAggregate) []string) []string {
	var out []string
	for _, name := range playerNames(set) {
		if list := pick(set.Players[name]); len(list) > 0 {
			out = append(out, name+": "+strings.Join(list, ", "))
		}
	}
	return out
}

func buffsOf(p model.PlayerAggregate) []string   { return p.Buffs }
func botchedOf(p model.PlayerAggregate) []string { return p.BotchedBuffs }
