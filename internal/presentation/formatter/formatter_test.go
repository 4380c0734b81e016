package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-pull-condenser/internal/core/model"
)

func sampleReport() Report {
	return Report{
		File:        "p12s.json",
		FightID:     3,
		EncounterID: 1071,
		Name:        "Anabaseios: The Twelfth Circle",
		StartTime:   10_000,
		Result: model.Result{CondensedSets: []model.CondensedSet{
			{
				ID:        71_500,
				Timestamp: 71_500,
				Ability:   "Magitek Ray",
				Players: map[string]model.PlayerAggregate{
					"Main Tank":  {WasTargeted: true, Buffs: []string{}, AvailableMitigations: []string{"Rampart"}, BotchedBuffs: []string{}},
					"Lily Sage":  {Buffs: []string{"Kerachole"}, AvailableMitigations: []string{}, BotchedBuffs: []string{"Kerachole"}},
					"Healer Two": {Dead: true, Buffs: []string{}, AvailableMitigations: []string{}, BotchedBuffs: []string{}},
				},
				AvailableMitigationsByPlayer: map[string][]string{"Main Tank": {"Rampart"}, "Lily Sage": {}, "Healer Two": {}},
				BotchedBuffsByPlayer:         map[string][]string{"Main Tank": {}, "Lily Sage": {"Kerachole"}, "Healer Two": {}},
				Children: []model.FightEventRow{
					{Timestamp: 71_500, Ability: "Magitek Ray", Actor: "Main Tank", Amount: 40_000, UnmitigatedAmount: 80_000},
					{Timestamp: 71_600, Ability: "Magitek Ray", Actor: "Main Tank", Amount: 12_345},
				},
				BotchedHits:      1,
				TotalAmount:      52_345,
				TotalUnmitigated: 80_000,
			},
		}},
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, format := range []string{"json", "CSV", "summary", "table", ""} {
		f, err := New(format, &buf)
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := New("xml", &buf)
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	t.Run("single report is an object", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONFormatter(&buf).Format([]Report{sampleReport()}))

		var decoded struct {
			FightID       int                  `json:"fightId"`
			CondensedSets []model.CondensedSet `json:"condensedSets"`
		}
		require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 3, decoded.FightID)
		require.Len(t, decoded.CondensedSets, 1)
		set := decoded.CondensedSets[0]
		assert.Equal(t, []string{"Kerachole"}, set.Players["Lily Sage"].Buffs)
		assert.Contains(t, set.BotchedBuffsByPlayer, "Main Tank")
		assert.Empty(t, set.BotchedBuffsByPlayer["Main Tank"])
		assert.Contains(t, buf.String(), `"botchedBuffs": []`)
	})

	t.Run("several reports are an array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONFormatter(&buf).Format([]Report{sampleReport(), sampleReport()}))
		assert.True(t, strings.HasPrefix(buf.String(), "["))
	})

	t.Run("stable output", func(t *testing.T) {
		var a, b bytes.Buffer
		require.NoError(t, NewJSONFormatter(&a).Format([]Report{sampleReport()}))
		require.NoError(t, NewJSONFormatter(&b).Format([]Report{sampleReport()}))
		assert.Equal(t, a.String(), b.String())
	})
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format([]Report{sampleReport()}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus one record per player")

	assert.Equal(t, csvHeaders, records[0])
	assert.Equal(t, []string{
		"p12s.json", "3", "71500", "71500", "Magitek Ray", "2",
		"Healer Two", "false", "true", "", "", "",
	}, records[1])
	assert.Equal(t, "Lily Sage", records[2][6])
	assert.Equal(t, "Kerachole", records[2][9])
	assert.Equal(t, "Kerachole", records[2][11])
	assert.Equal(t, "Rampart", records[3][10])
}

func TestTableFormatter(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format([]Report{sampleReport()}))
	out := buf.String()

	assert.Contains(t, out, "Anabaseios: The Twelfth Circle (fight 3)")
	assert.Contains(t, out, "1:01.500", "time is relative to the pull start")
	assert.Contains(t, out, "Magitek Ray")
	assert.Contains(t, out, "52.3K")
	assert.Contains(t, out, "Lily Sage: Kerachole")
	assert.Contains(t, out, "Healer Two")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6, "title, three borders, header and one row")
	assert.True(t, strings.HasPrefix(lines[1], "┌"))
	assert.True(t, strings.HasPrefix(lines[5], "└"))
}

func TestTableFormatterFitsWidth(t *testing.T) {
	color.NoColor = true

	report := sampleReport()
	set := report.CondensedSets[0]
	set.Players["ランパート使い"] = model.PlayerAggregate{Buffs: []string{"Reprisal", "Divine Veil", "Passage of Arms", "Holy Sheltron"}}
	report.CondensedSets[0] = set

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).WithMaxWidth(100).Format([]Report{report}))

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")[1:] {
		assert.LessOrEqual(t, displayWidth(line), 100, line)
	}
	assert.Contains(t, buf.String(), "…")
}

func displayWidth(s string) int {
	// Box-drawing characters are single-width.
	var n int
	for _, r := range s {
		if r >= 0x3000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func TestSummaryFormatter(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter(&buf).Format([]Report{sampleReport()}))
	out := buf.String()

	assert.Contains(t, out, "Anabaseios: The Twelfth Circle (fight 3)")
	assert.Contains(t, out, "Damage taken:   52,345")
	assert.Contains(t, out, "Unmitigated:    80,000")
	assert.Contains(t, out, "Mitigated:      50%")
	assert.Contains(t, out, "Botched hits:   1")
	assert.Contains(t, out, "Main Tank")
	assert.Contains(t, out, "Lily Sage")
	assert.Contains(t, out, "Kerachole")
}

func TestSummaryFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter(&buf).Format([]Report{{FightID: 9}}))
	assert.Contains(t, buf.String(), "Fight 9")
	assert.Contains(t, buf.String(), "No damage events")
}

func TestFormatBotched(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "", formatBotched(nil))
	assert.Equal(t, "Feint, Reprisal ×2", formatBotched(map[string]int{"Reprisal": 2, "Feint": 1}))
}
