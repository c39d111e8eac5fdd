package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcost/internal/budget"
	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/tui/components"
	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

func (a App) renderSeasonsTab(cw, h int) string {
	t := theme.Active
	r := a.report
	cur := a.opts.Currency

	values := make([]float64, len(r.Seasons))
	present := make([]bool, len(r.Seasons))
	labels := make([]string, len(r.Seasons))
	for i, p := range r.Seasons {
		labels[i] = string(p.Season)
		if p.HasData() {
			values[i] = *p.Average
			present[i] = true
		}
	}

	inner := components.CardInnerWidth(cw)
	chartH := max(4, min(12, h/2-4))
	chart := components.ColumnChart(values, present, labels, inner, chartH)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var rows []string
	for _, p := range r.Seasons {
		avg := dimStyle.Render("no trips")
		if p.HasData() {
			avg = valueStyle.Render(fmt.Sprintf("%-12s", cli.FormatMoney(*p.Average, cur))) +
				dimStyle.Render(cli.FormatTrips(p.Trips))
		}
		rows = append(rows, labelStyle.Render(fmt.Sprintf("%-8s %-7s ", p.Season,
			cli.FormatMultiplier(budget.SeasonMultiplier(string(p.Season)))))+avg)
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Average cost per person / day in %s", r.Query.City), chart, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Seasons and budget multipliers", strings.Join(rows, "\n"), cw))

	// asciigraph needs two seasons with data to draw a line.
	if line := cli.RenderSeasonChart(r.Seasons, inner-10, 5, "Winter → Fall"); line != "" {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Trend", valueStyle.Render(line), cw))
	}
	return b.String()
}
