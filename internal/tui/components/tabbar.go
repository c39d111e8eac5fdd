package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

// Tab is one entry of the tab bar. The shortcut key is the first letter of
// the name.
type Tab struct {
	Name string
	Key  rune
}

// Tabs lists the planner views in display order.
var Tabs = []Tab{
	{Name: "Estimate", Key: 'e'},
	{Name: "Compare", Key: 'c'},
	{Name: "Seasons", Key: 's'},
}

const tabSeparator = "│"

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	pad := lipgloss.NewStyle().Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Underline(true)
	restStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	head, size := firstRune(tab.Name)
	return pad.Render(" ") + keyStyle.Render(head) + restStyle.Render(tab.Name[size:]) + pad.Render(" ")
}

func firstRune(s string) (string, int) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return "", 0
	}
	return string(r), size
}

// TabVisualWidth returns the rendered width of tab. Mouse hit testing relies
// on it matching RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tabs on one line, filled to width.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render(tabSeparator)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the index of the tab bound to key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
