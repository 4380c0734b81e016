package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

var csvHeaders = []string{
	"File", "Fight", "Set", "Timestamp", "Ability", "Hits",
	"Player", "Targeted", "Dead", "Buffs", "Available Mitigations", "Botched Buffs",
}

// Format writes one record per player per condensed set.
func (f *CSVFormatter) Format(reports []Report) error {
	w := csv.NewWriter(f.w)

	if err := w.Write(csvHeaders); err != nil {
		return err
	}

	for _, r := range reports {
		for _, set := range r.CondensedSets {
			for _, name := range playerNames(set) {
				p := set.Players[name]
				record := []string{
					r.File,
					strconv.Itoa(r.FightID),
					strconv.FormatInt(set.ID, 10),
					strconv.FormatInt(set.Timestamp, 10),
					set.Ability,
					strconv.Itoa(len(set.Children)),
					name,
					strconv.FormatBool(p.WasTargeted),
					strconv.FormatBool(p.Dead),
					strings.Join(p.Buffs, "|"),
					strings.Join(set.AvailableMitigationsByPlayer[name], "|"),
					strings.Join(set.BotchedBuffsByPlayer[name], "|"),
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}
