// Package botched flags hits whose realized mitigation fell short of what was intended.
package botched

import "github.com/penwyp/go-pull-condenser/internal/core/model"

// IsBotched reports whether intendedPct is strictly greater than actualPct.
func IsBotched(actualPct, intendedPct int) bool {
	return clampPct(intendedPct) > clampPct(actualPct)
}

// Detector flags a shortfall only when it is larger than Margin percentage points.
// The zero Detector behaves exactly like IsBotched.
type Detector struct {
	Margin int
}

// Flag reports whether intended exceeds actual by more than the margin.
func (d Detector) Flag(actualPct, intendedPct int) bool {
	margin := d.Margin
	if margin < 0 {
		margin = 0
	}
	return clampPct(intendedPct)-clampPct(actualPct) > margin
}

// Row applies Flag to a row's realized and intended mitigation.
func (d Detector) Row(row model.FightEventRow) bool {
	return d.Flag(row.MitigationPct, row.IntendedMitPct)
}

func clampPct(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
