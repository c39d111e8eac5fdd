package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

// RenderStatusBar renders the bottom line: key hints on the left and dataset
// info on the right. A non-empty warning replaces the hints.
func RenderStatusBar(width int, info, warning string) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" [f]orm  [?]help  [q]uit")
	if warning != "" {
		left = warnStyle.Render(" " + warning)
	}
	right := ""
	if info != "" {
		right = infoStyle.Render(info + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))

	return lipgloss.NewStyle().MaxWidth(width).Render(left + fill + right)
}
