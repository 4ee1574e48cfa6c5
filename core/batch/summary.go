package batch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var summaryBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2)

var summaryTitle = lipgloss.NewStyle().Bold(true)

// FormatStats renders the final summary box. outcomes fixes the row order.
func FormatStats(title string, stats Stats, outcomes ...Outcome) string {
	var b strings.Builder
	b.WriteString(summaryTitle.Render(title))
	fmt.Fprintf(&b, "\n\nProcessed files: %d", stats.Total)
	for _, o := range outcomes {
		n := stats.Count(o)
		fmt.Fprintf(&b, "\n  • %s: %d (%.1f%%)", o, n, percent(n, stats.Total))
	}

	minutes := int(stats.Elapsed.Minutes())
	seconds := int(stats.Elapsed.Seconds()) % 60
	fmt.Fprintf(&b, "\n\nElapsed: %d min %d sec", minutes, seconds)

	return summaryBox.Render(b.String())
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
