package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/penwyp/go-pull-condenser/internal/util"
)

// SummaryFormatter writes a per-player digest of each fight.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

type playerSummary struct {
	name        string
	hitsTaken   int
	buffsGiven  int
	deaths      int
	botched     map[string]int
	uniqueBuffs map[string]struct{}
}

// Format writes, for each report, set and hit totals followed by a table of what each
// player took, gave, and botched.
func (f *SummaryFormatter) Format(reports []Report) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		f.formatReport(r)
	}
	return nil
}

func (f *SummaryFormatter) formatReport(r Report) {
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w, util.FormatHeaderTitle(r.Title()))
	fmt.Fprintln(f.w, strings.Repeat("=", 60))

	if len(r.CondensedSets) == 0 {
		fmt.Fprintln(f.w, "No damage events to summarize")
		return
	}

	var hits, botchedHits int
	var damage, unmitigated int64
	// Only rows with a known unmitigated amount count toward the mitigated share.
	var prevented, knownRaw int64
	players := make(map[string]*playerSummary)
	get := func(name string) *playerSummary {
		p, ok := players[name]
		if !ok {
			p = &playerSummary{name: name, botched: make(map[string]int), uniqueBuffs: make(map[string]struct{})}
			players[name] = p
		}
		return p
	}

	for _, set := range r.CondensedSets {
		hits += len(set.Children)
		botchedHits += set.BotchedHits
		damage += set.TotalAmount
		unmitigated += set.TotalUnmitigated
		for _, row := range set.Children {
			if m, ok := row.Mitigated(); ok {
				prevented += m
				knownRaw += row.UnmitigatedAmount
			}
		}

		for name, agg := range set.Players {
			p := get(name)
			if agg.WasTargeted {
				p.hitsTaken++
			}
			if agg.Dead {
				p.deaths++
			}
			p.buffsGiven += len(agg.Buffs)
			for _, b := range agg.Buffs {
				p.uniqueBuffs[b] = struct{}{}
			}
			for _, b := range agg.BotchedBuffs {
				p.botched[b]++
			}
		}
	}

	fmt.Fprintln(f.w, util.FormatOverviewTitle("Overview"))
	fmt.Fprintf(f.w, "  Condensed sets: %s\n", humanize.Comma(int64(len(r.CondensedSets))))
	fmt.Fprintf(f.w, "  Raw hits:       %s\n", humanize.Comma(int64(hits)))
	fmt.Fprintf(f.w, "  Damage taken:   %s\n", humanize.Comma(damage))
	if unmitigated > 0 {
		fmt.Fprintf(f.w, "  Unmitigated:    %s\n", humanize.Comma(unmitigated))
	}
	if knownRaw > 0 {
		fmt.Fprintf(f.w, "  Mitigated:      %s\n", util.FormatPercent(int(prevented*100/knownRaw)))
	}
	if botchedHits > 0 {
		fmt.Fprintf(f.w, "  Botched hits:   %s\n", util.FormatAlert(humanize.Comma(int64(botchedHits))))
	}
	fmt.Fprintln(f.w)

	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(f.w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(util.FormatDataTitle("Players"))
	tbl.AppendHeader(table.Row{"Player", "Sets Hit", "Deaths", "Buffs Given", "Distinct Buffs", "Botched"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	var totalDeaths int
	for _, name := range names {
		p := players[name]
		totalDeaths += p.deaths

		deaths := humanize.Comma(int64(p.deaths))
		if p.deaths > 0 {
			deaths = util.FormatAlert(deaths)
		}
		tbl.AppendRow(table.Row{
			name,
			humanize.Comma(int64(p.hitsTaken)),
			deaths,
			humanize.Comma(int64(p.buffsGiven)),
			humanize.Comma(int64(len(p.uniqueBuffs))),
			formatBotched(p.botched),
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d players", len(names)), "", humanize.Comma(int64(totalDeaths))})
	tbl.Render()
}

// formatBotched renders "Reprisal ×2, Feint" sorted by buff name.
func formatBotched(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	buffs := make([]string, 0, len(counts))
	for b := range counts {
		buffs = append(buffs, b)
	}
	sort.Strings(buffs)

	parts := make([]string, len(buffs))
	for i, b := range buffs {
		if counts[b] > 1 {
			parts[i] = fmt.Sprintf("%s ×%d", b, counts[b])
		} else {
			parts[i] = b
		}
	}
	return util.FormatAlert(strings.Join(parts, ", "))
}
