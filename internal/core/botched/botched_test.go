package botched

import (
	"testing"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestIsBotched(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		intended int
		expected bool
	}{
		{"intended higher", 30, 50, true},
		{"equal", 50, 50, false},
		{"intended lower", 60, 50, false},
		{"one point short", 49, 50, true},
		{"out of range is clamped", 100, 250, false},
		{"negative actual", -10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBotched(tt.actual, tt.intended))
		})
	}
}

func TestDetectorMargin(t *testing.T) {
	assert.Equal(t, IsBotched(49, 50), Detector{}.Flag(49, 50), "zero margin matches IsBotched")

	d := Detector{Margin: 5}
	assert.False(t, d.Flag(45, 50), "shortfall equal to the margin")
	assert.True(t, d.Flag(44, 50))

	assert.True(t, Detector{Margin: -3}.Flag(49, 50), "negative margin acts as zero")
}

func TestDetectorRow(t *testing.T) {
	d := Detector{}
	assert.True(t, d.Row(model.FightEventRow{MitigationPct: 20, IntendedMitPct: 40}))
	assert.False(t, d.Row(model.FightEventRow{MitigationPct: 40, IntendedMitPct: 40}))
	assert.False(t, d.Row(model.FightEventRow{}))
}
