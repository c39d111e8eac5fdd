// Package tui provides the interactive Bubble Tea trip planner.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
	"github.com/theirongolddev/tripcost/internal/pipeline"
	"github.com/theirongolddev/tripcost/internal/store"
	"github.com/theirongolddev/tripcost/internal/tui/components"
	"github.com/theirongolddev/tripcost/internal/tui/theme"
)

// DataLoadedMsg is sent when the dataset finishes loading.
type DataLoadedMsg struct {
	Trips     []model.Trip
	Rows      int
	Rejected  int
	FromCache bool
	LoadTime  time.Duration
	Err       error
}

// ProgressMsg reports how many rows the loader has read so far.
type ProgressMsg struct {
	Rows int
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Result DataLoadedMsg
}

// Options configures a new App.
type Options struct {
	Dataset  string
	UseCache bool
	Query    pipeline.Query
	Currency string
	// AskFirst opens the trip form as soon as the dataset is loaded.
	AskFirst bool
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	eng       *pipeline.Engine
	loaded    bool
	loadErr   error
	loadTime  time.Duration
	rows      int
	rejected  int
	fromCache bool

	// Background reload
	refreshing bool
	refreshErr error

	// Current query and its answers
	query     pipeline.Query
	report    *pipeline.Report
	reportErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Trip form (huh); vals is shared with the form's bound fields.
	tripForm *huh.Form
	tripVals *tripValues

	// Loading: progress streamed from the loader goroutine
	spinner  spinner.Model
	frame    int
	progress int
	loadSub  chan tea.Msg
}

const (
	minTerminalWidth = 70
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5
)

const noDataMessage = "No data available for the selected combination."

// NewApp creates a new planner model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.Currency == "" {
		opts.Currency = "€"
	}

	return App{
		opts:    opts,
		query:   opts.Query,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Dataset, a.opts.UseCache, a.loadSub),
		a.spinner.Tick,
	)
}

// applyLoad swaps in a freshly loaded dataset and recomputes the report.
func (a *App) applyLoad(msg DataLoadedMsg) {
	a.eng = pipeline.NewEngine(msg.Trips)
	a.rows = msg.Rows
	a.rejected = msg.Rejected
	a.fromCache = msg.FromCache
	a.loadTime = msg.LoadTime
	a.loadErr = nil
	a.query = pipeline.ResolveQuery(a.eng, a.query)
	a.recompute()
}

func (a *App) recompute() {
	if a.eng == nil {
		return
	}
	a.report, a.reportErr = pipeline.BuildReport(context.Background(), a.eng, a.query)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.tripForm != nil {
			a.tripForm = a.tripForm.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.loadErr != nil || a.showHelp || a.tripForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			if key == "q" {
				return a, tea.Quit
			}
			return a, nil
		}

		// The trip form intercepts all keys while open.
		if a.tripForm != nil {
			if key == "esc" {
				a.closeForm()
				return a, nil
			}
			return a.updateTripForm(msg)
		}

		if a.loadErr != nil {
			switch key {
			case "q":
				return a, tea.Quit
			case "r":
				return a.startRefresh()
			}
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.handleKey(key)

	case DataLoadedMsg:
		a.loaded = true
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.loadTime = msg.LoadTime
			return a, nil
		}
		a.applyLoad(msg)

		if a.opts.AskFirst {
			return a.openForm()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Rows
		return a, waitForLoadMsg(a.loadSub)

	case RefreshDataMsg:
		a.refreshing = false
		if msg.Result.Err != nil {
			if a.eng == nil {
				a.loadErr = msg.Result.Err
				return a, nil
			}
			// Keep showing the previous dataset.
			a.refreshErr = msg.Result.Err
			return a, nil
		}
		a.refreshErr = nil
		a.applyLoad(msg.Result)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			a.frame++
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward everything else (cursor blinks, etc.) to the open form.
	if a.tripForm != nil {
		return a.updateTripForm(msg)
	}

	return a, nil
}

// handleKey applies one planner key binding.
func (a App) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "f":
		return a.openForm()
	case "r":
		return a.startRefresh()
	case "t":
		theme.SetActive(theme.Next(theme.Active.Name).Name)
		return a, nil

	case "]":
		a.query.Days++
	case "[":
		if a.query.Days > 1 {
			a.query.Days--
		}
	case "+", "=":
		a.query.Travelers++
	case "-", "_":
		if a.query.Travelers > 1 {
			a.query.Travelers--
		}
	case "S":
		a.query.Season = nextSeason(a.query.Season)

	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil

	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil
	}

	a.recompute()
	return a, nil
}

func (a App) startRefresh() (tea.Model, tea.Cmd) {
	if a.refreshing {
		return a, nil
	}
	a.refreshing = true
	return a, tea.Batch(refreshDataCmd(a.opts.Dataset, a.opts.UseCache), a.spinner.Tick)
}

// nextSeason cycles through the known seasons. Unknown labels restart at the
// first one.
func nextSeason(season string) string {
	for i, s := range model.Seasons {
		if string(s) == season {
			return string(model.Seasons[(i+1)%len(model.Seasons)])
		}
	}
	return string(model.Seasons[0])
}

func (a App) openForm() (tea.Model, tea.Cmd) {
	a.tripVals = newTripValues(a.query)
	a.tripForm = newTripForm(a.eng, a.tripVals)
	if a.width > 0 {
		a.tripForm = a.tripForm.WithWidth(formWidth(a.width))
	}
	return a, a.tripForm.Init()
}

func (a *App) closeForm() {
	a.tripForm = nil
	a.tripVals = nil
}

func (a App) updateTripForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.tripForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.tripForm = f
	}

	switch a.tripForm.State {
	case huh.StateCompleted:
		a.query = a.tripVals.apply(a.query)
		a.closeForm()
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}

	return a, cmd
}

func formWidth(termWidth int) int {
	return max(40, min(termWidth-8, 72))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.loadErr != nil {
		return a.viewLoadError()
	}

	if a.tripForm != nil {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tripcost needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

// overlay centers a card on the themed background.
func (a App) overlay(card string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(theme.Active.Background))
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	barW := max(20, min(40, a.width-30))

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ tripcost"))
	b.WriteString(subtitleStyle.Render(" · Trip Cost Planner"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Reading trips"))
	b.WriteString("\n\n")
	b.WriteString(components.ActivityBar(a.frame, barW))
	b.WriteString("\n")
	b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
	b.WriteString(subtitleStyle.Render(" rows"))

	return a.overlay(cardStyle.Render(b.String()))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3).
		Width(min(a.width-4, 80))

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not load the trip dataset"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Point --data or TRIPCOST_DATASET at a CSV file, or run `tripcost setup`."))
	b.WriteString("\n")
	if a.refreshing {
		b.WriteString(hintStyle.Render(a.spinner.View() + " retrying..."))
	} else {
		b.WriteString(hintStyle.Render("[r] retry  [q] quit"))
	}

	return a.overlay(cardStyle.Render(b.String()))
}

func (a App) viewForm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	body := titleStyle.Render("◈ Plan a trip") + "\n\n" +
		a.tripForm.View() + "\n" +
		hintStyle.Render("esc to cancel")

	return a.overlay(cardStyle.Render(body))
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"e c s", "Jump to tab"},
			{"← →", "Previous / Next tab"},
		}},
		{"Trip", []binding{
			{"f", "Choose destination and trip"},
			{"[ ]", "Fewer / More days"},
			{"- +", "Fewer / More travelers"},
			{"S", "Next season"},
		}},
		{"Other", []binding{
			{"r", "Reload dataset"},
			{"t", "Next theme"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.overlay(cardStyle.Render(b.String()))
}

// queryLine renders the current query as the header's second row.
func (a App) queryLine(w int) string {
	t := theme.Active

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sep := dim.Render(" │ ")

	q := a.query
	line := dim.Render(" ") +
		accent.Render(q.Country) + dim.Render(" › ") + accent.Render(q.City) + sep +
		accent.Render(q.Accommodation) + sep +
		accent.Render(fmt.Sprintf("%d days", q.Days)) + sep +
		accent.Render(fmt.Sprintf("%d travelers", q.Travelers)) + sep +
		accent.Render(q.Season) + dim.Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(w).MaxWidth(w).Render(line)
}

func (a App) statusInfo() string {
	parts := []string{cli.FormatTrips(a.eng.Len())}
	if a.rejected > 0 {
		parts = append(parts, fmt.Sprintf("%s skipped", cli.FormatNumber(int64(a.rejected))))
	}
	if a.fromCache {
		parts = append(parts, "cached")
	}
	parts = append(parts, fmt.Sprintf("%.1fs", a.loadTime.Seconds()))
	return strings.Join(parts, " · ")
}

func (a App) statusWarning() string {
	switch {
	case a.refreshing:
		return a.spinner.View() + " reloading dataset"
	case a.refreshErr != nil:
		return "reload failed: " + truncStr(a.refreshErr.Error(), a.width/2)
	}
	return ""
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.queryLine(w)
	statusBar := components.RenderStatusBar(w, a.statusInfo(), a.statusWarning())

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch {
	case a.reportErr != nil:
		content = components.ContentCard("Error", a.reportErr.Error(), cw)
	case a.report == nil:
		content = ""
	default:
		switch a.activeTab {
		case 0:
			content = a.renderEstimateTab(cw)
		case 1:
			content = a.renderCompareTab(cw)
		case 2:
			content = a.renderSeasonsTab(cw, contentH)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Loading ────────────────────────────────────────────────────

// loadDataCmd loads the dataset in a background goroutine and streams
// ProgressMsg updates followed by one DataLoadedMsg through sub.
func loadDataCmd(path string, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking: a dropped update is superseded by the next one.
			progressFn := func(rows int) {
				select {
				case sub <- ProgressMsg{Rows: rows}:
				default:
				}
			}
			sub <- loadDataset(path, useCache, progressFn)
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads the dataset without progress reporting.
func refreshDataCmd(path string, useCache bool) tea.Cmd {
	return func() tea.Msg {
		return RefreshDataMsg{Result: loadDataset(path, useCache, nil)}
	}
}

// loadDataset tries the cache first and falls back to parsing the file.
func loadDataset(path string, useCache bool, progressFn pipeline.ProgressFunc) DataLoadedMsg {
	start := time.Now()

	if useCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			cr, loadErr := pipeline.LoadWithCache(path, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return DataLoadedMsg{
					Trips:     cr.Trips,
					Rows:      cr.Rows,
					Rejected:  cr.RejectedCount,
					FromCache: cr.FromCache,
					LoadTime:  time.Since(start),
				}
			}
			log.WithError(loadErr).Debug("cached load failed")
		}
	}

	lr, err := pipeline.Load(path, progressFn)
	if err != nil {
		return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
	}
	return DataLoadedMsg{
		Trips:    lr.Trips,
		Rows:     lr.Rows,
		Rejected: lr.RejectedCount,
		LoadTime: time.Since(start),
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads every line to width w with the background
// color so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at column x of the tab bar, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// One-column separator between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
