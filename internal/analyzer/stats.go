package analyzer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/penwyp/go-pull-condenser/internal/util"
)

// RunStats holds statistics for one analysis run
type RunStats struct {
	totalFiles  int64
	failures    int64
	rows        int64
	sets        int64
	botchedHits int64
	deaths      int64
	mu          sync.Mutex
	failed      []FailureDetail
}

// FailureDetail records a file that could not be analyzed
type FailureDetail struct {
	FilePath string
	Err      error
}

// NewRunStats creates a new RunStats instance
func NewRunStats() *RunStats {
	return &RunStats{
		failed: make([]FailureDetail, 0),
	}
}

// IncrementTotal increases the total file count
func (rs *RunStats) IncrementTotal() {
	atomic.AddInt64(&rs.totalFiles, 1)
}

// IncrementFailure increases the failure count and records the failure
func (rs *RunStats) IncrementFailure(filePath string, err error) {
	atomic.AddInt64(&rs.failures, 1)

	rs.mu.Lock()
	rs.failed = append(rs.failed, FailureDetail{FilePath: filePath, Err: err})
	rs.mu.Unlock()
}

// AddFight accumulates the totals of one condensed fight
func (rs *RunStats) AddFight(rows int, result model.Result) {
	atomic.AddInt64(&rs.rows, int64(rows))
	atomic.AddInt64(&rs.sets, int64(len(result.CondensedSets)))

	var botched, deaths int64
	for _, set := range result.CondensedSets {
		botched += int64(set.BotchedHits)
		deaths += int64(len(set.Dead()))
	}
	atomic.AddInt64(&rs.botchedHits, botched)
	atomic.AddInt64(&rs.deaths, deaths)
}

// FirstFailure returns the error of the first failed file, or nil
func (rs *RunStats) FirstFailure() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.failed) == 0 {
		return nil
	}
	return rs.failed[0].Err
}

// Failures returns a copy of the recorded failures
func (rs *RunStats) Failures() []FailureDetail {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]FailureDetail, len(rs.failed))
	copy(out, rs.failed)
	return out
}

// CompressionRatio is raw rows per condensed set
func (rs *RunStats) CompressionRatio() float64 {
	sets := atomic.LoadInt64(&rs.sets)
	if sets == 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&rs.rows)) / float64(sets)
}

// LogFinalStats logs the run totals
func (rs *RunStats) LogFinalStats(elapsed time.Duration) {
	util.LogInfo("analysis finished",
		util.F("files", atomic.LoadInt64(&rs.totalFiles)),
		util.F("failed", atomic.LoadInt64(&rs.failures)),
		util.F("rows", atomic.LoadInt64(&rs.rows)),
		util.F("sets", atomic.LoadInt64(&rs.sets)),
		util.F("rows_per_set", rs.CompressionRatio()),
		util.F("botched_hits", atomic.LoadInt64(&rs.botchedHits)),
		util.F("deaths", atomic.LoadInt64(&rs.deaths)),
		util.F("elapsed", elapsed.String()),
	)

	for _, f := range rs.Failures() {
		util.LogDebug("failed file", util.F("file", f.FilePath), util.F("error", f.Err.Error()))
	}
}
