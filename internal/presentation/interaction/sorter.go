// Package interaction holds user-selectable views over condensed results.
package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
)

// SortField represents the field to sort condensed sets by
type SortField int

const (
	SortByTime SortField = iota
	SortByDamage
	SortByHits
	SortByBotched
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

var sortFields = map[string]SortField{
	"time":    SortByTime,
	"damage":  SortByDamage,
	"hits":    SortByHits,
	"botched": SortByBotched,
}

// SetSorter orders condensed sets for display
type SetSorter struct {
	field SortField
	order SortOrder
}

// NewSetSorter creates a sorter keeping chronological order
func NewSetSorter() *SetSorter {
	return &SetSorter{
		field: SortByTime,
		order: SortAscending,
	}
}

// ParseSort reads a sort key such as "damage" or "-botched". A leading "-" sorts
// descending; an empty key keeps chronological order.
func ParseSort(key string) (*SetSorter, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return NewSetSorter(), nil
	}

	order := SortAscending
	if strings.HasPrefix(key, "-") {
		order = SortDescending
		key = key[1:]
	}

	field, ok := sortFields[key]
	if !ok {
		return nil, fmt.Errorf("%q (want time, damage, hits or botched, optionally prefixed with -)", key)
	}
	return &SetSorter{field: field, order: order}, nil
}

// Sort orders sets in place. Ties fall back to chronological order, then ability name.
func (s *SetSorter) Sort(sets []model.CondensedSet) {
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := s.key(sets[i]), s.key(sets[j])
		if a == b {
			if sets[i].Timestamp != sets[j].Timestamp {
				return sets[i].Timestamp < sets[j].Timestamp
			}
			return sets[i].Ability < sets[j].Ability
		}
		if s.order == SortDescending {
			return a > b
		}
		return a < b
	})
}

func (s *SetSorter) key(set model.CondensedSet) int64 {
	switch s.field {
	case SortByDamage:
		return set.TotalAmount
	case SortByHits:
		return int64(len(set.Children))
	case SortByBotched:
		return int64(set.BotchedHits)
	default:
		return set.Timestamp
	}
}
