package analyzer

import (
	"errors"
	"sync"
	"testing"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestRunStatsConcurrentUpdates(t *testing.T) {
	rs := NewRunStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs.IncrementTotal()
			rs.AddFight(4, model.Result{CondensedSets: []model.CondensedSet{{BotchedHits: 1}, {}}})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), rs.totalFiles)
	assert.Equal(t, int64(200), rs.rows)
	assert.Equal(t, int64(100), rs.sets)
	assert.Equal(t, int64(50), rs.botchedHits)
	assert.InDelta(t, 2.0, rs.CompressionRatio(), 1e-9)
}

func TestRunStatsFailures(t *testing.T) {
	rs := NewRunStats()
	assert.NoError(t, rs.FirstFailure())
	assert.Zero(t, rs.CompressionRatio())

	first := errors.New("first")
	rs.IncrementFailure("a.json", first)
	rs.IncrementFailure("b.json", errors.New("second"))

	assert.Equal(t, first, rs.FirstFailure())
	failures := rs.Failures()
	assert.Len(t, failures, 2)
	assert.Equal(t, "a.json", failures[0].FilePath)
}
