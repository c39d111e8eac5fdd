package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders one block per value. Values whose present flag is false
// render as a dot. A nil present slice marks every value present.
func Sparkline(values []float64, present []bool, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for i, v := range values {
		if isPresent(present, i) && v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for i, v := range values {
		if !isPresent(present, i) {
			buf.WriteRune('·')
			continue
		}
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

func isPresent(present []bool, i int) bool {
	return present == nil || (i < len(present) && present[i])
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label     string
	Value     float64
	ValueText string
	Highlight bool
}

// HBarChart renders one horizontal bar per entry, scaled to the largest value.
// Highlighted bars use the green role.
func HBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, valueW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		valueW = max(valueW, lipgloss.Width(b.ValueText))
		peak = math.Max(peak, b.Value)
	}
	barW := width - labelW - valueW - 4
	if barW < 4 {
		barW = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		filled := 0
		if peak > 0 {
			filled = int(math.Round(b.Value / peak * float64(barW)))
		}
		filled = max(0, min(filled, barW))

		color := t.Blue
		if b.Highlight {
			color = t.Green
		}
		fill := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) +
			space.Render("  ") +
			fill.Render(strings.Repeat("█", filled)) +
			emptyStyle.Render(strings.Repeat("·", barW-filled)) +
			space.Render("  ") +
			valueStyle.Render(fmt.Sprintf("%*s", valueW, b.ValueText))
	}
	return strings.Join(lines, "\n")
}

// ColumnChart renders vertical bars with a labeled y axis and one label per
// column. Columns whose present flag is false stay empty and show "n/a".
func ColumnChart(values []float64, present []bool, labels []string, width, height int) string {
	n := len(values)
	if n == 0 {
		return ""
	}
	if height < 3 {
		return Sparkline(values, present, theme.Active.Accent)
	}
	t := theme.Active

	peak := 0.0
	for i, v := range values {
		if isPresent(present, i) {
			peak = math.Max(peak, v)
		}
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	for math.Ceil(peak/step) > float64(max(2, height/2)) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	ticks := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(2, height/ticks)
	chartH := rowsPerTick * ticks

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	tickLabels := make(map[int]string, ticks)
	for i := 1; i <= ticks; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}

	labelW := 0
	for _, l := range labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	colW := (width - yLabelW - 1 - (n - 1)) / n
	colW = max(2, min(colW, max(labelW, 6)))
	gap := " "

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)
	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, tickLabels[row])))
		for i, v := range values {
			if i > 0 {
				b.WriteString(space.Render(gap))
			}
			switch {
			case !isPresent(present, i) || v <= bottom:
				b.WriteString(space.Render(strings.Repeat(" ", colW)))
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", colW)))
			default:
				idx := max(1, min(8, int((v-bottom)/(top-bottom)*8)))
				b.WriteString(barStyle.Render(strings.Repeat(string(partial[idx]), colW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*colW + (n - 1)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(space.Render(strings.Repeat(" ", yLabelW+1)))
		for i, l := range labels {
			if i > 0 {
				b.WriteString(space.Render(gap))
			}
			if !isPresent(present, i) {
				l = "n/a"
			}
			b.WriteString(axisStyle.Render(fitCenter(l, colW)))
		}
	}
	return b.String()
}

// fitCenter truncates or centers s within w columns.
func fitCenter(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	left := (w - len(r)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-len(r)-left)
}

// chartTickStep picks a round tick interval giving about five ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
