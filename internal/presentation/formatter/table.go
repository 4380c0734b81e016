package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/penwyp/go-pull-condenser/internal/util"
)

// Columns that may be shortened to fit the terminal, in the order they give up space.
var shrinkable = []int{colBuffs, colTargets, colBotched, colDead}

const (
	colTime = iota
	colAbility
	colHits
	colDamage
	colTargets
	colBuffs
	colDead
	colBotched
)

// minShrunkWidth is the narrowest a shrinkable column gets.
const minShrunkWidth = 8

type TableFormatter struct {
	w        io.Writer
	headers  []string
	maxWidth int
}

// NewTableFormatter writes to w. When w is a terminal, rows are fitted to its width.
func NewTableFormatter(w io.Writer) *TableFormatter {
	f := &TableFormatter{
		w:       w,
		headers: []string{"Time", "Ability", "Hits", "Damage", "Targets", "Buffs", "Dead", "Botched"},
	}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil {
			f.maxWidth = width
		}
	}
	return f
}

// WithMaxWidth fits rows to width display cells. Zero disables fitting.
func (f *TableFormatter) WithMaxWidth(width int) *TableFormatter {
	f.maxWidth = width
	return f
}

func (f *TableFormatter) Format(reports []Report) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		fmt.Fprintln(f.w, util.FormatHeaderTitle(r.Title()))

		rows := f.rows(r)
		widths := f.calculateColumnWidths(rows)

		f.printBorder(widths, "top")
		f.printRow(f.headers, widths)
		f.printBorder(widths, "middle")
		for _, row := range rows {
			f.printRow(row, widths)
		}
		f.printBorder(widths, "bottom")
	}
	return nil
}

func (f *TableFormatter) rows(r Report) [][]string {
	rows := make([][]string, 0, len(r.CondensedSets))
	for _, set := range r.CondensedSets {
		rows = append(rows, []string{
			util.FormatFightTime(set.Timestamp - r.StartTime),
			set.Ability,
			fmt.Sprintf("%d", len(set.Children)),
			util.FormatNumber(set.TotalAmount),
			strings.Join(targets(set), ", "),
			strings.Join(contributions(set, buffsOf), "; "),
			strings.Join(set.Dead(), ", "),
			strings.Join(contributions(set, botchedOf), "; "),
		})
	}
	return rows
}

// calculateColumnWidths sizes each column to its widest cell, then shrinks the free-text
// columns until the table fits maxWidth.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if f.maxWidth <= 0 {
		return widths
	}

	overflow := tableWidth(widths) - f.maxWidth
	for _, col := range shrinkable {
		if overflow <= 0 {
			break
		}
		spare := widths[col] - minShrunkWidth
		if spare <= 0 {
			continue
		}
		cut := min(spare, overflow)
		widths[col] -= cut
		overflow -= cut
	}
	return widths
}

// tableWidth is the rendered width including borders and cell padding.
func tableWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	return total
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(f.w, b.String())
}

// printRow prints a row; the numeric columns are right-aligned.
func (f *TableFormatter) printRow(values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		if util.GetDisplayWidth(value) > widths[i] {
			value = util.TruncateString(value, widths[i])
		}
		leftAlign := i != colHits && i != colDamage
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], leftAlign))
		b.WriteString(" │")
	}
	fmt.Fprintln(f.w, b.String())
}
