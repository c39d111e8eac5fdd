package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/tui/components"
	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

func (a App) renderCompareTab(cw int) string {
	r := a.report

	var widths []int
	if a.isCompactLayout() {
		widths = []int{cw, cw}
	} else {
		widths = components.LayoutRow(cw, 2)
	}

	modes := components.ContentCard("By travel mode",
		a.groupChart(r.ByTravelMode, r.CheapestMode, widths[0]), widths[0])
	stays := components.ContentCard("By accommodation",
		a.groupChart(r.ByAccommodation, r.CheapestAccommodation, widths[1]), widths[1])

	if a.isCompactLayout() {
		return modes + "\n" + stays
	}
	return components.CardRow([]string{modes, stays})
}

// groupChart draws average cost per person per day for each group, with the
// cheapest group highlighted.
func (a App) groupChart(groups []model.GroupCost, cheapest *model.GroupCost, outerW int) string {
	if len(groups) == 0 {
		t := theme.Active
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No trips recorded for " + a.report.Query.City + ".")
	}

	bars := make([]components.Bar, len(groups))
	for i, g := range groups {
		bars[i] = components.Bar{
			Label:     g.Key,
			Value:     g.Average,
			ValueText: cli.FormatMoney(g.Average, a.opts.Currency),
			Highlight: cheapest != nil && g.Key == cheapest.Key,
		}
	}
	return components.HBarChart(bars, components.CardInnerWidth(outerW))
}
