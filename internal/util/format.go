package util

import (
	"fmt"
	"time"
)

// FormatNumber abbreviates large amounts (damage, healing) as K/M.
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatFightTime renders a millisecond offset into a pull as m:ss.mmm.
func FormatFightTime(offsetMs int64) string {
	sign := ""
	if offsetMs < 0 {
		sign = "-"
		offsetMs = -offsetMs
	}
	d := time.Duration(offsetMs) * time.Millisecond
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := offsetMs % 1000
	return fmt.Sprintf("%s%d:%02d.%03d", sign, minutes, seconds, millis)
}

// FormatPercent renders an integer percentage.
func FormatPercent(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}
