// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for truthweb.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/truthweb/internal/answers"
	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/config"
	"github.com/kingrea/truthweb/internal/logbook"
	"github.com/kingrea/truthweb/internal/survey"
)

// appState represents which "screen" we're on
type appState int

const (
	stateHome     appState = iota // List of question sets
	stateQuestion                 // One question at a time
	stateResults                  // Answers, contradictions and unmet requirements
	stateWeb                      // TruthWeb graph
	stateResolve                  // Resolution flow
)

const logPanelLines = 6

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithCatalog replaces the catalog loaded from the config's sets directory.
func WithCatalog(c *catalog.Catalog) AppOption {
	return func(a *App) {
		if c != nil {
			a.catalog = c
		}
	}
}

// WithStore replaces the file store rooted at the config's data directory.
func WithStore(s answers.Store) AppOption {
	return func(a *App) {
		if s != nil {
			a.store = s
		}
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	agreeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	disagreeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E57373"))
	conflictStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D32F2F"))
	unmetStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
)

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	catalog *catalog.Catalog
	store   answers.Store
	logbook *logbook.Logbook

	// UI components
	home      list.Model // Question set picker
	statusMsg string     // Status message to display

	// Survey state for the open set
	session     *survey.Session
	flow        *survey.Flow
	flowReturn  appState
	webSelected int

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// setItem implements list.Item for the home screen. An empty name is the
// Exit entry.
type setItem struct {
	name  string
	title string
	desc  string
}

func (i setItem) Title() string       { return i.title }
func (i setItem) Description() string { return i.desc }
func (i setItem) FilterValue() string { return i.title }

// NewApp creates a new App instance
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, errors.New("tui: config is required")
	}
	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		lb = nil
	}

	home := list.New(nil, list.NewDefaultDelegate(), 60, 20)
	home.Title = "⬡ QUESTION SETS"
	home.SetShowStatusBar(false)
	home.SetFilteringEnabled(false)

	app := &App{
		state:   stateHome,
		config:  cfg,
		logbook: lb,
		home:    home,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.catalog == nil {
		cat, err := catalog.Load(cfg.SetsDir())
		if err != nil {
			return nil, err
		}
		app.catalog = cat
	}
	if app.store == nil {
		app.store = answers.NewFileStore(cfg.DataDir(), answers.WithLogbook(lb))
	}
	app.refreshHome()
	app.selectSet(cfg.DefaultSet())
	app.logInfo("Session opened · %d question set(s)", app.catalog.Len())
	return app, nil
}

func (a *App) logInfo(format string, args ...any) {
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	a.logbook.Error(format, args...)
}

// refreshHome rebuilds the set list so progress labels reflect what is on disk.
func (a *App) refreshHome() {
	names := a.catalog.Names()
	items := make([]list.Item, 0, len(names)+1)
	for _, name := range names {
		set, err := a.catalog.Get(name)
		if err != nil {
			continue
		}
		records, err := a.store.Load(name)
		if err != nil {
			a.logWarn("Home · answers for %s unavailable: %v", name, err)
			records = answers.Records{}
		}
		kept, _ := records.Prune(set)
		desc := fmt.Sprintf("%d/%d answered", len(kept), set.Len())
		if d := strings.TrimSpace(set.Description); d != "" {
			desc = d + " · " + desc
		}
		items = append(items, setItem{
			name:  name,
			title: survey.ProgressOf(set, records).MenuLabel(name),
			desc:  desc,
		})
	}
	items = append(items, setItem{title: "Exit", desc: "Leave truthweb"})
	idx := a.home.Index()
	a.home.SetItems(items)
	if idx >= 0 && idx < len(items) {
		a.home.Select(idx)
	}
}

func (a *App) selectSet(name string) {
	for i, item := range a.home.Items() {
		if it, ok := item.(setItem); ok && it.name != "" && it.name == name {
			a.home.Select(i)
			return
		}
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.home.SetSize(max(20, msg.Width-6), max(6, msg.Height-16))
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.logInfo("Session closed")
			return a, tea.Quit
		}
		switch a.state {
		case stateHome:
			return a.updateHome(msg)
		case stateQuestion:
			return a.updateQuestion(msg)
		case stateResults:
			return a.updateResults(msg)
		case stateWeb:
			return a.updateWeb(msg)
		case stateResolve:
			return a.updateResolve(msg)
		}
	}

	return a, nil
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		a.logInfo("Session closed")
		return a, tea.Quit
	case "enter":
		item, ok := a.home.SelectedItem().(setItem)
		if !ok {
			return a, nil
		}
		if item.name == "" {
			a.logInfo("Menu · Exit selected")
			return a, tea.Quit
		}
		a.logInfo("Menu · %s selected", item.name)
		return a.openSet(item.name)
	}
	var cmd tea.Cmd
	a.home, cmd = a.home.Update(msg)
	return a, cmd
}

func (a *App) openSet(name string) (tea.Model, tea.Cmd) {
	set, err := a.catalog.Get(name)
	if err != nil {
		a.statusMsg = err.Error()
		a.logError("Menu · %v", err)
		return a, nil
	}
	session, err := survey.Open(set, a.store, survey.WithLogbook(a.logbook))
	if err != nil {
		a.statusMsg = fmt.Sprintf("Could not open %s: %v", name, err)
		a.logError("Menu · open %s failed: %v", name, err)
		return a, nil
	}
	if err := a.config.SetDefaultSet(name); err != nil {
		a.logWarn("Config · could not remember %s: %v", name, err)
	}
	a.session = session
	a.flow = nil
	a.webSelected = 0
	a.statusMsg = ""
	a.state = stateQuestion
	if session.Complete() {
		a.state = stateResults
		a.statusMsg = "All questions answered · review your results"
	}
	return a, nil
}

func (a *App) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "y":
		return a.answerCurrent(true)
	case "d", "n":
		return a.answerCurrent(false)
	case "esc":
		return a.returnHome()
	}
	return a, nil
}

func (a *App) answerCurrent(value bool) (tea.Model, tea.Cmd) {
	q, err := a.session.Record(value)
	if err != nil {
		if errors.Is(err, survey.ErrComplete) {
			a.state = stateResults
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Could not save answer: %v", err)
		return a, nil
	}
	set := a.session.Set()
	a.statusMsg = ""
	if conflicts := a.session.Conflicts(q.ID); len(conflicts) > 0 {
		labels := make([]string, len(conflicts))
		for i, id := range conflicts {
			labels[i] = set.Label(id)
		}
		a.statusMsg = fmt.Sprintf("%s contradicts %s", set.Label(q.ID), strings.Join(labels, ", "))
		if a.config.ResolveImmediately() {
			flow, err := survey.NewFocusedFlow(a.session, q.ID)
			if err == nil && flow.Phase() != survey.PhaseResolved {
				return a.startFlow(flow)
			}
		}
	}
	if a.session.Complete() {
		a.state = stateResults
		if a.statusMsg == "" {
			a.statusMsg = "All questions answered"
		}
	}
	return a, nil
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "w":
		a.state = stateWeb
		a.logInfo("TruthWeb · %s opened", a.session.Set().Name)
	case "x":
		return a.beginResolution()
	case "r":
		return a.restart()
	case "h", "esc":
		return a.returnHome()
	}
	return a, nil
}

func (a *App) updateWeb(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := a.session.Set().Len()
	switch msg.String() {
	case "right", "down", "j", "tab":
		if n > 0 {
			a.webSelected = (a.webSelected + 1) % n
		}
	case "left", "up", "k", "shift+tab":
		if n > 0 {
			a.webSelected = (a.webSelected - 1 + n) % n
		}
	case "x":
		return a.beginResolution()
	case "esc":
		a.state = stateResults
	case "h":
		return a.returnHome()
	}
	return a, nil
}

func (a *App) beginResolution() (tea.Model, tea.Cmd) {
	if len(a.session.Evaluate().Contradictions) == 0 {
		a.statusMsg = "No contradictions to resolve"
		return a, nil
	}
	return a.startFlow(survey.NewFlow(a.session))
}

func (a *App) startFlow(flow *survey.Flow) (tea.Model, tea.Cmd) {
	a.flow = flow
	a.flowReturn = a.state
	a.state = stateResolve
	return a, nil
}

func (a *App) updateResolve(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.flow
	if f == nil {
		a.state = stateResults
		return a, nil
	}
	var ev survey.Event
	switch f.Phase() {
	case survey.PhasePresenting:
		edge, _ := f.Conflict()
		switch msg.String() {
		case "1":
			ev = survey.Choose{QuestionID: edge.From}
		case "2":
			ev = survey.Choose{QuestionID: edge.To}
		case "s":
			ev = survey.Skip{}
		case "esc":
			ev = survey.Cancel{}
		}
	case survey.PhaseAwaitingResolution:
		switch msg.String() {
		case "a", "y":
			ev = survey.Answer{Value: true}
		case "d", "n":
			ev = survey.Answer{Value: false}
		case "esc":
			ev = survey.Back{}
		}
	}
	if ev == nil {
		return a, nil
	}
	if err := f.Handle(ev); err != nil {
		a.statusMsg = err.Error()
		return a, nil
	}
	if f.Phase() == survey.PhaseResolved {
		a.finishFlow()
	}
	return a, nil
}

func (a *App) finishFlow() {
	f := a.flow
	a.flow = nil
	if f.Cancelled() {
		a.statusMsg = fmt.Sprintf("Resolution stopped after %d change(s)", f.Revisions())
	} else {
		a.statusMsg = fmt.Sprintf("Resolved with %d change(s)", f.Revisions())
	}
	a.state = a.flowReturn
	if a.state == stateQuestion && a.session.Complete() {
		a.state = stateResults
	}
}

func (a *App) restart() (tea.Model, tea.Cmd) {
	if err := a.session.Restart(); err != nil {
		a.statusMsg = fmt.Sprintf("Could not restart: %v", err)
		return a, nil
	}
	a.webSelected = 0
	a.state = stateQuestion
	a.statusMsg = "Answers cleared"
	return a, nil
}

// returnHome transitions back to the set list
func (a *App) returnHome() (tea.Model, tea.Cmd) {
	a.state = stateHome
	a.session = nil
	a.flow = nil
	a.statusMsg = ""
	a.refreshHome()
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	inner := max(20, width-4)
	var content string
	switch a.state {
	case stateHome:
		content = a.renderHome()
	case stateQuestion:
		content = a.renderQuestion(inner - 4)
	case stateResults:
		content = a.renderResults()
	case stateWeb:
		content = a.renderWeb(inner - 4)
	case stateResolve:
		content = a.renderResolve(inner - 4)
	}
	sections := []string{
		headerStyle.Render("⬡ TRUTHWEB"),
		panelStyle.Width(inner).Render(content),
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, mutedStyle.MarginTop(1).Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := titleStyle.Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderHome() string {
	view := a.home.View()
	if a.catalog.Len() == 0 {
		view = "No question sets available"
	}
	hint := hintStyle.Render("Enter → open    ↑/↓ → move    q → quit")
	return lipgloss.JoinVertical(lipgloss.Left, view, hint)
}
