package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

// ActivityBar renders an indeterminate bar for work of unknown length, such
// as streaming rows out of a CSV file. step advances the lit segment.
func ActivityBar(step, width int) string {
	t := theme.Active
	if width < 4 {
		width = 4
	}

	seg := width / 4
	start := step % (width + seg)

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i >= start-seg && i < start {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	return lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(b.String())
}

// ShareBar renders a labeled bar for a fraction in [0, 1], followed by the
// percentage and an amount.
func ShareBar(label string, share float64, amount string, labelW, barWidth int) string {
	t := theme.Active

	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space.Render(" ") +
		bar.ViewAs(share) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", share*100)) +
		space.Render("  ") +
		amountStyle.Render(amount)
}
