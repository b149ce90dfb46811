package tui

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/SPT/internal/config"
)

// FormatClock renders minutes and seconds as MM:SS.
func FormatClock(minutes, seconds int) string {
	if minutes < 0 {
		minutes = 0
	}
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatSeconds renders a whole number of seconds as MM:SS.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	return FormatClock(total/60, total%60)
}

func truncateLabel(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, config.TruncationSuffix)
}
