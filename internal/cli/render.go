package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A3A3A3"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E5E5"))

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EAB308"))

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#404040"))
)

func renderTitle(title string) string {
	return titleStyle.Render(title)
}

func renderSeparator() string {
	return separatorStyle.Render(strings.Repeat("─", 56))
}

func renderRow(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-28s", label)), valueStyle.Render(value))
}

// renderScore colors a 0-100 score by the usual focus bands.
func renderScore(score float64) string {
	text := fmt.Sprintf("%.1f", score)
	switch {
	case score >= 80:
		return goodStyle.Render(text)
	case score >= 60:
		return warnStyle.Render(text)
	default:
		return badStyle.Render(text)
	}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// renderSparkline maps a series onto block characters, scaled to the
// series' own min and max.
func renderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatPercent(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, v)
}
