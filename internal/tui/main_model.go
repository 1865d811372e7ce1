// Package tui renders the interactive surface: an activity log fed from the
// operation event stream, a result viewport and a status bar listing the
// operations in flight. The render loop never blocks on background work; it
// drains the subscriber on a fixed tick.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shipmate/internal/app"
	"shipmate/internal/ops"
)

// tickInterval drives both the spinner and the event drain.
const tickInterval = 100 * time.Millisecond

// drainBudget caps how many events one tick consumes so a burst cannot
// starve rendering.
const drainBudget = 64

// sweepAge is how long finished operations stay queryable.
const sweepAge = 10 * time.Minute

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

type keyMap struct {
	Analyze       key.Binding
	CommitMessage key.Binding
	Notes         key.Binding
	Release       key.Binding
	DryRelease    key.Binding
	Search        key.Binding
	Cancel        key.Binding
	Quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Analyze:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analyze")),
		CommitMessage: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "commit msg")),
		Notes:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notes")),
		DryRelease:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "release (dry)")),
		Release:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "release")),
		Search:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tasks")),
		Cancel:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type MainModel struct {
	app   *app.Application
	sub   *ops.Subscriber
	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	vp    viewport.Model
	input textinput.Model

	searching  bool
	lines      []string
	result     string
	statusText string
	spinnerPos int
}

func NewMainModel(application *app.Application) *MainModel {
	ti := textinput.New()
	ti.Placeholder = "search tasks, Enter runs, Esc closes"
	ti.CharLimit = 200
	ti.Prompt = "/ "

	m := &MainModel{
		app:        application,
		sub:        application.Dispatcher.Subscribe(),
		theme:      NewTheme(),
		keys:       newKeyMap(),
		width:      100,
		height:     30,
		input:      ti,
		statusText: "Ready",
	}
	m.appendLine(m.theme.LineProgress.Render("shipmate ready. a analyze, m commit msg, n notes, r release (dry), t tasks, q quit."))
	if application.MockMode {
		m.appendLine(m.theme.LineProgress.Render("no Gemini token configured: AI responses are mocked."))
	}
	return m
}

func (m *MainModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpH := max(3, m.height-7)
		vpW := max(20, m.width-4)
		if !m.ready {
			m.vp = viewport.New(vpW, vpH)
			m.ready = true
		} else {
			m.vp.Width = vpW
			m.vp.Height = vpH
		}
		m.input.Width = max(10, m.width-8)
		m.refreshViewport()
		return m, nil

	case tickMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		m.drainEvents()
		m.app.Dispatcher.Sweep(sweepAge)
		return m, tick()

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearchInput(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Analyze):
			m.startOp(m.app.StartAnalysis)
			return m, nil
		case key.Matches(msg, m.keys.CommitMessage):
			m.startOp(m.app.StartCommitMessage)
			return m, nil
		case key.Matches(msg, m.keys.Notes):
			m.startOp(m.app.StartReleaseNotes)
			return m, nil
		case key.Matches(msg, m.keys.DryRelease):
			m.startOp(func() (ops.OperationID, error) { return m.app.StartSemanticRelease(true) })
			return m, nil
		case key.Matches(msg, m.keys.Release):
			m.startOp(func() (ops.OperationID, error) { return m.app.StartSemanticRelease(false) })
			return m, nil
		case key.Matches(msg, m.keys.Search):
			m.searching = true
			m.input.SetValue("")
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Cancel):
			m.cancelRunning()
			return m, nil
		case msg.Type == tea.KeyUp:
			m.vp.LineUp(1)
			return m, nil
		case msg.Type == tea.KeyDown:
			m.vp.LineDown(1)
			return m, nil
		case msg.Type == tea.KeyPgUp:
			m.vp.HalfViewUp()
			return m, nil
		case msg.Type == tea.KeyPgDown:
			m.vp.HalfViewDown()
			return m, nil
		}
	}
	return m, nil
}

func (m *MainModel) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		query := m.input.Value()
		m.searching = false
		m.input.Blur()
		m.startOp(func() (ops.OperationID, error) { return m.app.StartTaskSearch(query) })
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startOp runs a Start helper and reports synchronous refusals (clean tree,
// missing repo, operation already in flight) as activity lines.
func (m *MainModel) startOp(start func() (ops.OperationID, error)) {
	_, err := start()
	if err == nil {
		return
	}
	var running *ops.AlreadyRunningError
	if errors.As(err, &running) {
		m.appendLine(m.theme.LineLagged.Render(fmt.Sprintf("%s is already running", running.Kind)))
		return
	}
	m.appendLine(m.theme.LineFailed.Render(err.Error()))
}

// cancelRunning cancels one in-flight operation, last in kind order.
func (m *MainModel) cancelRunning() {
	running := m.app.Dispatcher.ListRunning()
	if len(running) == 0 {
		m.appendLine(m.theme.LineProgress.Render("nothing to cancel"))
		return
	}
	target := running[len(running)-1]
	if err := m.app.Dispatcher.Cancel(target.ID); err != nil {
		m.appendLine(m.theme.LineFailed.Render(err.Error()))
		return
	}
	m.appendLine(m.theme.LineCancelled.Render(fmt.Sprintf("cancelling %s", target.Kind)))
}

func (m *MainModel) drainEvents() {
	changed := false
	for i := 0; i < drainBudget; i++ {
		ev, ok := m.sub.TryNext()
		if !ok {
			break
		}
		m.appendLineRaw(m.renderEvent(ev))
		if ev.Type == ops.EventCompleted && ev.Result != "" {
			m.result = ev.Result
		}
		changed = true
	}
	if changed {
		m.refreshViewport()
	}
}

func (m *MainModel) renderEvent(ev ops.Event) string {
	line := eventLine(ev)
	switch ev.Type {
	case ops.EventCompleted:
		return m.theme.LineCompleted.Render(line)
	case ops.EventFailed:
		return m.theme.LineFailed.Render(line)
	case ops.EventCancelled:
		return m.theme.LineCancelled.Render(line)
	case ops.EventLagged:
		return m.theme.LineLagged.Render(line)
	default:
		return m.theme.LineProgress.Render(line)
	}
}

// eventLine formats one event as a plain activity-log line.
func eventLine(ev ops.Event) string {
	switch ev.Type {
	case ops.EventProgress:
		return fmt.Sprintf("%s: %s", ev.Kind, ev.Text)
	case ops.EventCompleted:
		return fmt.Sprintf("%s: done", ev.Kind)
	case ops.EventFailed:
		return fmt.Sprintf("%s: failed: %s", ev.Kind, ev.Err)
	case ops.EventCancelled:
		return fmt.Sprintf("%s: cancelled", ev.Kind)
	case ops.EventLagged:
		return fmt.Sprintf("display fell behind, %d update(s) skipped", ev.Dropped)
	default:
		return string(ev.Kind)
	}
}

func (m *MainModel) appendLine(line string) {
	m.appendLineRaw(line)
	m.refreshViewport()
}

func (m *MainModel) appendLineRaw(line string) {
	m.lines = append(m.lines, line)
	const keep = 500
	if len(m.lines) > keep {
		m.lines = m.lines[len(m.lines)-keep:]
	}
}

func (m *MainModel) refreshViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, l := range m.lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	if m.result != "" {
		b.WriteString("\n")
		b.WriteString(m.result)
		b.WriteString("\n")
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

// statusLine renders the in-flight summary shown under the viewport.
func statusLine(running []ops.Running, frame string) string {
	if len(running) == 0 {
		return "idle"
	}
	kinds := make([]string, len(running))
	for i, r := range running {
		kinds[i] = string(r.Kind)
	}
	return fmt.Sprintf("%s running: %s", frame, strings.Join(kinds, ", "))
}

func (m *MainModel) View() string {
	if !m.ready {
		return "loading..."
	}

	title := m.theme.TopBarTitle.Render("shipmate")
	meta := ""
	if m.app.MockMode {
		meta = " " + m.theme.TopBarBadge.Render("[mock]")
	}
	top := m.theme.TopBar.Render(title + meta)

	pane := m.theme.Pane.Width(max(20, m.width-2)).Render(
		m.theme.PaneTitle.Render("Activity") + "\n" + m.vp.View())

	status := statusLine(m.app.Dispatcher.ListRunning(), m.theme.Spinner.Render(spinnerFrames[m.spinnerPos]))

	footer := m.theme.Footer.Render("a analyze · m commit msg · n notes · r/R release · t tasks · c cancel · q quit")

	parts := []string{top, pane}
	if m.searching {
		parts = append(parts, m.theme.InputBox.Width(max(20, m.width-4)).Render(m.input.View()))
	}
	parts = append(parts, status, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
