package util

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle     = color.New(color.Bold, color.FgMagenta)
	diagnosticStyle = color.New(color.Bold, color.FgYellow)
	overviewStyle   = color.New(color.Bold, color.FgCyan)
	dataStyle       = color.New(color.Bold, color.FgGreen)
	alertStyle      = color.New(color.Bold, color.FgRed)
)

// GetDisplayWidth calculates the actual display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s to a display width, left or right aligned.
func PadString(s string, width int, leftAlign bool) string {
	actual := runewidth.StringWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// TruncateString cuts s to at most width display cells, marking the cut with "…".
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return headerStyle.Sprint(title)
}

// FormatDiagnosticTitle formats diagnostic/analysis titles (Yellow + Bold)
func FormatDiagnosticTitle(title string) string {
	return diagnosticStyle.Sprint(title)
}

// FormatOverviewTitle formats overview/summary titles (Cyan + Bold)
func FormatOverviewTitle(title string) string {
	return overviewStyle.Sprint(title)
}

// FormatDataTitle formats data section titles (Green + Bold)
func FormatDataTitle(title string) string {
	return dataStyle.Sprint(title)
}

// FormatAlert highlights deaths and botched mitigation (Red + Bold)
func FormatAlert(text string) string {
	return alertStyle.Sprint(text)
}

// FormatSectionSeparator creates a visual separator line
func FormatSectionSeparator() string {
	return overviewStyle.Sprint(strings.Repeat("─", 80))
}
