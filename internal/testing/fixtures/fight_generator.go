// Package fixtures writes fight table files for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-pull-condenser/internal/core/model"
)

// Roster used by generated pulls.
var defaultRoster = []model.Friendly{
	{Name: "Main Tank", Job: "Paladin"},
	{Name: "Off Tank", Job: "Warrior"},
	{Name: "Lily Sage", Job: "Sage"},
	{Name: "Star Mom", Job: "Astrologian"},
}

// TestDataGenerator generates fight table files under a base directory
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// GetBaseDir returns the directory files are written to
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// SimplePull is a short pull: a raidwide hitting every player, then a tankbuster
// with a botched Reprisal. The tank casts Rampart before the pull.
func SimplePull(fightID int) *model.FightTable {
	rows := make([]model.FightEventRow, 0, len(defaultRoster)+1)
	for i, f := range defaultRoster {
		rows = append(rows, model.FightEventRow{
			Timestamp:         10_000 + int64(i)*50,
			Ability:           "Diffuse Wave Cannon",
			Actor:             f.Name,
			Amount:            60_000,
			UnmitigatedAmount: 80_000,
		})
	}
	rows = append(rows, model.FightEventRow{
		Timestamp:               30_000,
		Ability:                 "Solar Ray",
		Actor:                   "Main Tank",
		Amount:                  120_000,
		UnmitigatedAmount:       200_000,
		MitigationPct:           40,
		IntendedMitPct:          50,
		Buffs:                   map[string]model.ApplierList{"Reprisal": {"Off Tank"}},
		PotentiallyBotchedBuffs: []string{"Reprisal"},
	})

	return &model.FightTable{
		FightID:     fightID,
		EncounterID: 1068,
		Name:        "The Omega Protocol",
		StartTime:   0,
		Friendlies:  defaultRoster,
		Rows:        rows,
		Casts: []model.CastEvent{
			{Timestamp: 500, Player: "Main Tank", Ability: "Rampart"},
			{Timestamp: 25_000, Player: "Off Tank", Ability: "Reprisal"},
		},
		BuffIntervals: []model.BuffInterval{
			{Buff: "Kerachole", Target: "Main Tank", Source: "Lily Sage", Start: 9_000, End: 24_000},
			{Buff: "Kerachole", Target: "Off Tank", Source: "Lily Sage", Start: 9_000, End: 24_000},
		},
	}
}

// LargePull repeats a raidwide every 5s, numMechanics times.
func LargePull(fightID, numMechanics int) *model.FightTable {
	table := &model.FightTable{
		FightID:    fightID,
		Name:       "Large Pull",
		Friendlies: defaultRoster,
		Rows:       make([]model.FightEventRow, 0, numMechanics*len(defaultRoster)),
	}
	for m := 0; m < numMechanics; m++ {
		for i, f := range defaultRoster {
			table.Rows = append(table.Rows, model.FightEventRow{
				Timestamp: int64(m)*5_000 + int64(i)*100,
				Ability:   fmt.Sprintf("Raidwide %d", m%3),
				Actor:     f.Name,
				Amount:    int64(1_000 * (m + 1)),
			})
		}
	}
	return table
}

// GenerateSimplePull writes SimplePull to name.
func (g *TestDataGenerator) GenerateSimplePull(name string, fightID int) (string, error) {
	return g.WriteTable(name, SimplePull(fightID))
}

// GenerateLargePull writes LargePull to name.
func (g *TestDataGenerator) GenerateLargePull(name string, fightID, numMechanics int) (string, error) {
	return g.WriteTable(name, LargePull(fightID, numMechanics))
}

// GenerateInvalidTable writes a document that fails schema validation.
func (g *TestDataGenerator) GenerateInvalidTable(name string) (string, error) {
	return g.write(name, []byte(`{"fightId": "seven", "rows": [{"ability": "Solar Ray"}]}`))
}

// WriteTable writes table as JSON to name, creating parent directories.
func (g *TestDataGenerator) WriteTable(name string, table *model.FightTable) (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(table, "", "  ")
	if err != nil {
		return "", err
	}
	return g.write(name, data)
}

func (g *TestDataGenerator) write(name string, data []byte) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
