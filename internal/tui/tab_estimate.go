package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/tui/components"
	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

func (a App) renderEstimateTab(cw int) string {
	t := theme.Active
	r := a.report
	cur := a.opts.Currency

	if !r.HasData() {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		body := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render(noDataMessage) + "\n\n" +
			muted.Render("Press f to pick another destination or accommodation.")
		return components.ContentCard("Estimate", body, cw)
	}

	est := r.Estimate
	stats := r.Stats

	metrics := components.MetricCardRow([]components.Metric{
		{
			Label: "Estimated total",
			Value: cli.FormatDecimal(est.Total, cur),
			Note:  fmt.Sprintf("%d days · %d travelers", est.Days, est.Companions),
		},
		{
			Label: "Per person / day",
			Value: cli.FormatDecimal(est.AdjustedDailyCost, cur),
			Note:  "base " + cli.FormatMoney(stats.Average, cur),
		},
		{
			Label: "Season",
			Value: r.Query.Season,
			Note:  cli.FormatMultiplier(est.SeasonMultiplier.InexactFloat64()),
		},
		{
			Label: "Based on",
			Value: cli.FormatTrips(stats.Trips),
			Note:  r.Query.City + ", " + r.Query.Country,
		},
	}, cw)

	var cards []string
	var widths []int
	if a.isCompactLayout() {
		widths = []int{cw, cw}
	} else {
		widths = components.LayoutRow(cw, 2)
	}
	cards = append(cards,
		components.ContentCard("Budget breakdown", a.renderBreakdown(est, widths[0]), widths[0]),
		components.ContentCard("Historical cost per person / day", a.renderStats(stats, widths[1]), widths[1]),
	)

	var b strings.Builder
	b.WriteString(metrics)
	b.WriteString("\n")
	if a.isCompactLayout() {
		b.WriteString(strings.Join(cards, "\n"))
	} else {
		b.WriteString(components.CardRow(cards))
	}
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Tips", a.renderTips(), cw))
	return b.String()
}

func (a App) renderBreakdown(est *model.Estimate, outerW int) string {
	inner := components.CardInnerWidth(outerW)
	labelW := 13
	barW := max(6, inner-labelW-1-5-2-12)

	lines := make([]string, len(est.Breakdown))
	for i, cc := range est.Breakdown {
		lines[i] = components.ShareBar(string(cc.Category), cc.Share.InexactFloat64(),
			cli.FormatDecimal(cc.Amount, a.opts.Currency), labelW, barW)
	}
	return strings.Join(lines, "\n")
}

func (a App) renderStats(stats model.CostStats, outerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	cur := a.opts.Currency

	rows := []struct{ label, value string }{
		{"Average", cli.FormatMoney(stats.Average, cur)},
		{"Median", cli.FormatMoney(stats.Median, cur)},
		{"Minimum", cli.FormatMoney(stats.Minimum, cur)},
		{"Maximum", cli.FormatMoney(stats.Maximum, cur)},
	}

	inner := components.CardInnerWidth(outerW)
	lines := make([]string, len(rows))
	for i, row := range rows {
		gap := max(1, inner-lipgloss.Width(row.label)-lipgloss.Width(row.value))
		lines[i] = labelStyle.Render(row.label) +
			lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap)) +
			valueStyle.Render(row.value)
	}
	return strings.Join(lines, "\n")
}

// renderTips names the cheapest travel mode and accommodation for the
// destination.
func (a App) renderTips() string {
	t := theme.Active
	r := a.report
	cur := a.opts.Currency

	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	cheapStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var lines []string
	if c := r.CheapestMode; c != nil {
		lines = append(lines, textStyle.Render("Cheapest way to travel: ")+
			cheapStyle.Render(c.Key)+
			mutedStyle.Render(fmt.Sprintf(" (%s per person / day)", cli.FormatMoney(c.Average, cur))))
	}
	if c := r.CheapestAccommodation; c != nil {
		lines = append(lines, textStyle.Render("Cheapest place to stay: ")+
			cheapStyle.Render(c.Key)+
			mutedStyle.Render(fmt.Sprintf(" (%s per person / day)", cli.FormatMoney(c.Average, cur))))
	}
	if len(lines) == 0 {
		return mutedStyle.Render("No comparisons available for this destination.")
	}
	return strings.Join(lines, "\n")
}
