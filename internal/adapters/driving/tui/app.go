package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/custodia-labs/caremind/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/caremind/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/caremind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/caremind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/caremind/internal/core/domain"
)

// chatLine is one rendered exchange in the transcript.
type chatLine struct {
	query   string
	answer  *domain.Answer
	err     error
	pending bool
}

// App is the chat TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap

	// session is the current conversation session id.
	session string

	// transcript holds the exchanges in order.
	transcript []chatLine

	// viewport scrolls the transcript.
	viewport viewport.Model

	// input is the message input field.
	input *input.MessageInput

	// spinner shows while an answer is pending.
	spinner spinner.Model

	// waiting is true while a query is in flight.
	waiting bool

	// stats feeds the status bar.
	stats *domain.KnowledgeStats

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		session: uuid.NewString(),
		input:   input.NewMessageInput(s),
		spinner: sp,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Session returns the current session id.
func (a *App) Session() string {
	return a.session
}

// Init starts the input cursor blink and loads the status bar stats.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.input.Init(), a.loadStats())
}

// Update handles all Bubbletea messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Sequence(a.endSession(), tea.Quit)

		case key.Matches(msg, a.keys.Send):
			return a, a.submit()

		case key.Matches(msg, a.keys.Clear):
			return a, a.newSession()

		case key.Matches(msg, a.keys.ScrollUp):
			a.viewport.HalfViewUp()
			return a, nil

		case key.Matches(msg, a.keys.ScrollDown):
			a.viewport.HalfViewDown()
			return a, nil
		}

		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case messages.AnswerReceived:
		a.waiting = false
		a.resolvePending(msg)
		a.refreshTranscript()
		return a, nil

	case messages.SessionEnded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			a.stats = msg.Stats
		}
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.refreshTranscript()
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View renders the whole application.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("caremind"))
	b.WriteString("\n\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")
	b.WriteString(a.input.View())
	b.WriteString("\n")
	b.WriteString(a.statusBar())
	return b.String()
}

// submit sends the typed query to the assistant.
func (a *App) submit() tea.Cmd {
	query := strings.TrimSpace(a.input.Value())
	if query == "" || a.waiting {
		return nil
	}
	a.input.Reset()

	a.transcript = append(a.transcript, chatLine{query: query, pending: true})
	a.waiting = true
	a.refreshTranscript()

	ask := func() tea.Msg {
		answer, err := a.ports.Assistant.Ask(a.ctx, a.session, query)
		return messages.AnswerReceived{Query: query, Answer: answer, Err: err}
	}
	return tea.Batch(a.spinner.Tick, ask)
}

// newSession ends the current session and starts a fresh one.
func (a *App) newSession() tea.Cmd {
	end := a.endSession()
	a.session = uuid.NewString()
	a.transcript = nil
	a.waiting = false
	a.err = nil
	a.refreshTranscript()
	return end
}

func (a *App) endSession() tea.Cmd {
	session := a.session
	return func() tea.Msg {
		return messages.SessionEnded{Err: a.ports.Assistant.EndSession(a.ctx, session)}
	}
}

func (a *App) loadStats() tea.Cmd {
	if a.ports.Knowledge == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := a.ports.Knowledge.Stats(a.ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// resolvePending fills in the answer on the last pending line.
func (a *App) resolvePending(msg messages.AnswerReceived) {
	for i := len(a.transcript) - 1; i >= 0; i-- {
		if a.transcript[i].pending {
			a.transcript[i].pending = false
			a.transcript[i].answer = msg.Answer
			a.transcript[i].err = msg.Err
			return
		}
	}
}

// layout sizes the viewport and input to the terminal.
func (a *App) layout() {
	// Header, input, and status bar take fixed rows.
	contentHeight := a.height - 6
	if contentHeight < 3 {
		contentHeight = 3
	}
	a.viewport = viewport.New(a.width, contentHeight)
	a.input.SetWidth(a.width)
	a.refreshTranscript()
}

// refreshTranscript re-renders the transcript into the viewport and
// keeps it scrolled to the latest exchange.
func (a *App) refreshTranscript() {
	if !a.ready && a.viewport.Width == 0 {
		return
	}

	var b strings.Builder
	for _, line := range a.transcript {
		b.WriteString(a.styles.User.Render("you: "))
		b.WriteString(a.styles.Normal.Render(line.query))
		b.WriteString("\n")

		switch {
		case line.pending:
			b.WriteString(a.styles.Muted.Render(a.spinner.View() + " thinking..."))
		case line.err != nil:
			b.WriteString(a.styles.Error.Render("error: " + line.err.Error()))
		case line.answer != nil:
			b.WriteString(a.styles.Agent.Render("caremind: " + line.answer.Text))
			if len(line.answer.Sources) > 0 {
				b.WriteString("\n")
				b.WriteString(a.styles.Sources.Render("  sources: " + strings.Join(line.answer.Sources, ", ")))
			}
			if line.answer.Escalate {
				b.WriteString("\n")
				b.WriteString(a.styles.Escalation.Render("  flagged for a human agent"))
			}
		}
		b.WriteString("\n\n")
	}

	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// statusBar renders the bottom status line.
func (a *App) statusBar() string {
	parts := []string{fmt.Sprintf("session %s", shortID(a.session))}
	if a.stats != nil {
		parts = append(parts,
			fmt.Sprintf("%d entries", a.stats.TotalEntries),
			fmt.Sprintf("%d learned", a.stats.LearnedFacts))
	}
	parts = append(parts, "enter send · ctrl+l new session · esc quit")
	return a.styles.StatusBar.Width(a.width).Render(strings.Join(parts, "  |  "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
