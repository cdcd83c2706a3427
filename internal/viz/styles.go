package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Accent)

	Subtle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Muted)

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(CurrentTheme.Success)

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(CurrentTheme.Warning)

	StatusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(CurrentTheme.Error)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(12)

	MetricValue = lipgloss.NewStyle().
			Foreground(CurrentTheme.Accent).
			Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(CurrentTheme.Muted).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func applyTheme(t Theme) {
	Title = Title.Foreground(t.Accent)
	Subtle = Subtle.Foreground(t.Muted)
	StatusRunning = StatusRunning.Foreground(t.Success)
	StatusPaused = StatusPaused.Foreground(t.Warning)
	StatusFailed = StatusFailed.Foreground(t.Error)
	MetricValue = MetricValue.Foreground(t.Accent)
	KeyHint = KeyHint.Foreground(t.Muted)
	Panel = Panel.BorderForeground(t.Primary)
}

// ProgressBar renders a bar filled to percent, in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// SparklineChart renders a one-line chart of the last width values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}
