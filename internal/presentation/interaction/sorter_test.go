package interaction

import (
	"testing"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSets() []model.CondensedSet {
	return []model.CondensedSet{
		{ID: 1, Timestamp: 1_000, TotalAmount: 50_000, BotchedHits: 0, Children: make([]model.FightEventRow, 8)},
		{ID: 2, Timestamp: 5_000, TotalAmount: 90_000, BotchedHits: 2, Children: make([]model.FightEventRow, 1)},
		{ID: 3, Timestamp: 9_000, TotalAmount: 50_000, BotchedHits: 2, Children: make([]model.FightEventRow, 3)},
	}
}

func ids(sets []model.CondensedSet) []int64 {
	out := make([]int64, 0, len(sets))
	for _, s := range sets {
		out = append(out, s.ID)
	}
	return out
}

func TestParseSortAndSort(t *testing.T) {
	tests := []struct {
		key      string
		expected []int64
	}{
		{"", []int64{1, 2, 3}},
		{"time", []int64{1, 2, 3}},
		{"-time", []int64{3, 2, 1}},
		{"damage", []int64{1, 3, 2}},
		{"-damage", []int64{2, 1, 3}},
		{"-hits", []int64{1, 3, 2}},
		{"-botched", []int64{2, 3, 1}},
		{" Botched ", []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			sorter, err := ParseSort(tt.key)
			require.NoError(t, err)

			sets := sampleSets()
			// Start shuffled so the result does not depend on input order.
			sets[0], sets[2] = sets[2], sets[0]
			sorter.Sort(sets)
			assert.Equal(t, tt.expected, ids(sets))
		})
	}
}

func TestParseSortRejectsUnknownKeys(t *testing.T) {
	for _, key := range []string{"alphabetical", "-", "--damage"} {
		_, err := ParseSort(key)
		assert.Error(t, err, key)
	}
}
