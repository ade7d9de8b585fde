package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/hand"
	"github.com/lox/blackjack/internal/strategy"
)

// TUIModel represents the Bubble Tea model for the blackjack table
type TUIModel struct {
	game    *game.Game
	logger  *log.Logger
	clock   quartz.Clock
	bridge  *Bridge
	advisor strategy.Strategy

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []logEntry
	quitting    bool
	focusedPane int // 0 = log, 1 = input
	showStats   bool

	// Dealer pacing. While a reveal is running, engine events are buffered
	// and typed commands are held back.
	dealerDelay time.Duration
	buffering   bool
	buffer      []logEntry
	reveal      reveal
	held        []string

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// Options configure a TUIModel
type Options struct {
	Clock       quartz.Clock
	DealerDelay time.Duration
	ShowStats   bool
	TestMode    bool
}

type logEntry struct {
	text       string
	style      lipgloss.Style
	dealerDraw bool
}

// reveal tracks dealer cards being shown one at a time after the engine has
// already resolved the round
type reveal struct {
	active  bool
	shown   int
	pending []logEntry
}

// revealMsg asks the model to show the next dealer card
type revealMsg struct{}

// NewTUIModel creates a new TUI model with default options
func NewTUIModel(g *game.Game, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(g, logger, Options{})
}

// NewTUIModelWithOptions creates a new TUI model over a game
func NewTUIModelWithOptions(g *game.Game, logger *log.Logger, opts Options) *TUIModel {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}

	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet 10, hit, stand, double, split, help"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		game:        g,
		logger:      logger.WithPrefix("tui"),
		clock:       opts.Clock,
		advisor:     strategy.Basic{},
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
		showStats:   opts.ShowStats,
		dealerDelay: opts.DealerDelay,
		testMode:    opts.TestMode,
	}
	m.bridge = NewBridge(g, m)

	m.AddLogEntry("Welcome to Blackjack. Type 'help' for commands.")
	m.AddLogEntry(g.Snapshot().Message)
	return m
}

// Run starts an interactive session on the terminal and blocks until the
// player quits
func Run(g *game.Game, logger *log.Logger, opts Options) error {
	model := NewTUIModelWithOptions(g, logger, opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case revealMsg:
		return m, m.advanceReveal()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				cmds = append(cmds, m.Submit(input))
				if m.quitting {
					return m, tea.Batch(cmds...)
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit runs a typed command, or holds it while the dealer is still
// revealing cards
func (m *TUIModel) Submit(input string) tea.Cmd {
	if m.reveal.active {
		m.held = append(m.held, input)
		return nil
	}
	return m.processAction(input)
}

// play runs an engine call with its events buffered, then either logs them
// straight away or starts pacing the dealer's draws
func (m *TUIModel) play(verb string, fn func() error) (tea.Cmd, error) {
	m.buffering = true
	err := fn()
	m.buffering = false
	entries := m.buffer
	m.buffer = nil

	if err != nil {
		for _, e := range entries {
			m.addEntry(e)
		}
		m.addEntry(logEntry{text: fmt.Sprintf("Cannot %s: %v", verb, err), style: ErrorStyle})
		return nil, err
	}
	return m.startReveal(entries), nil
}

func (m *TUIModel) startReveal(entries []logEntry) tea.Cmd {
	draws := 0
	for _, e := range entries {
		if e.dealerDraw {
			draws++
		}
	}
	if draws == 0 || m.dealerDelay <= 0 {
		for _, e := range entries {
			m.addEntry(e)
		}
		return nil
	}

	dealt := len(m.game.Snapshot().Dealer.Cards)
	m.reveal = reveal{active: true, shown: dealt - draws, pending: entries}
	m.flushUntilDraw()
	return m.scheduleReveal()
}

// scheduleReveal waits out the dealer delay on the model's clock
func (m *TUIModel) scheduleReveal() tea.Cmd {
	clock, delay := m.clock, m.dealerDelay
	return func() tea.Msg {
		fired := make(chan struct{})
		clock.AfterFunc(delay, func() { close(fired) }, "tui", "reveal")
		<-fired
		return revealMsg{}
	}
}

// advanceReveal shows the next dealer card along with the log lines that
// follow it. The held commands run once the last card is out.
func (m *TUIModel) advanceReveal() tea.Cmd {
	if !m.reveal.active {
		return nil
	}

	if len(m.reveal.pending) > 0 {
		m.addEntry(m.reveal.pending[0])
		m.reveal.pending = m.reveal.pending[1:]
	}
	m.reveal.shown++
	m.flushUntilDraw()

	if len(m.reveal.pending) > 0 {
		return m.scheduleReveal()
	}
	m.reveal = reveal{}
	return m.releaseHeld()
}

func (m *TUIModel) flushUntilDraw() {
	for len(m.reveal.pending) > 0 && !m.reveal.pending[0].dealerDraw {
		m.addEntry(m.reveal.pending[0])
		m.reveal.pending = m.reveal.pending[1:]
	}
}

func (m *TUIModel) releaseHeld() tea.Cmd {
	var cmds []tea.Cmd
	for len(m.held) > 0 && !m.reveal.active && !m.quitting {
		input := m.held[0]
		m.held = m.held[1:]
		cmds = append(cmds, m.processAction(input))
	}
	return tea.Batch(cmds...)
}

// Revealing reports whether dealer cards are still being paced out
func (m *TUIModel) Revealing() bool {
	return m.reveal.active
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	innerWidth := max(m.width-2, 1)

	tableContent := m.renderTablePane()
	tablePane := paneStyle(false).Width(innerWidth).Render(tableContent)

	actionContent := m.renderActionPane()
	actionPane := paneStyle(m.focusedPane == 1).Width(innerWidth).Render(actionContent)

	// Each bordered pane adds two rows
	bottomHeight := lipgloss.Height(tableContent) + lipgloss.Height(actionContent) + 4
	topHeight := max(m.height-bottomHeight-2, 1)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	sidebarPane := paneStyle(false).Width(sidebarWidth).Height(topHeight).Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = topHeight
	m.logViewport.SetContent(m.renderLogPane())

	// On first proper sizing, jump to the latest entries
	if !m.initialized && logWidth > 1 && topHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := paneStyle(m.focusedPane == 0).Width(logWidth).Height(topHeight).Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, tablePane, actionPane)
}

func paneStyle(focused bool) lipgloss.Style {
	border := lipgloss.Color("#626262")
	if focused {
		border = lipgloss.Color("#04B575")
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	lines := make([]string, len(m.gameLog))
	for i, e := range m.gameLog {
		lines[i] = e.style.Render(e.text)
	}
	return strings.Join(lines, "\n")
}

// renderTablePane draws the dealer and player hands
func (m *TUIModel) renderTablePane() string {
	state := m.game.Snapshot()
	var content strings.Builder

	dealer := state.Dealer.Cards
	if m.reveal.active && m.reveal.shown < len(dealer) {
		dealer = dealer[:m.reveal.shown]
	}
	content.WriteString(HandInfoStyle.Render("Dealer: "))
	if len(dealer) == 0 {
		content.WriteString(InfoStyle.Render("waiting for a bet"))
	} else {
		content.WriteString(formatCards(dealer))
		content.WriteString(InfoStyle.Render(fmt.Sprintf(" (%d)", hand.BestValue(dealer))))
	}
	content.WriteString("\n")

	for i, h := range state.Hands {
		label := "You"
		if len(state.Hands) > 1 {
			label = fmt.Sprintf("Hand %d", i+1)
		}

		marker := "  "
		if state.Phase == game.PlayerTurn && i == state.ActiveHand {
			marker = ActiveHandStyle.Render("▶ ")
		}

		line := fmt.Sprintf("%s: %s (%s) bet %d", label, formatCards(h.Cards), h.Describe(), h.Bet)
		if h.Doubled {
			line += " doubled"
		}
		if h.Outcome.Resolved() && (!m.reveal.active || h.IsBusted()) {
			line += " " + outcomeStyle(h.Outcome).Render(h.Outcome.String())
		}
		content.WriteString(marker + line + "\n")
	}

	message := state.Message
	if m.reveal.active {
		message = "Dealer's turn..."
	}
	content.WriteString(WarningStyle.Render(message))
	return content.String()
}

// renderSidebarPane creates the sidebar content
func (m *TUIModel) renderSidebarPane() string {
	state := m.game.Snapshot()
	var content strings.Builder

	content.WriteString(WarningStyle.Render(fmt.Sprintf("Chips: %d", state.Chips)))
	if bet := state.TotalBet(); bet > 0 {
		content.WriteString(" | ")
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: %d", bet)))
	}
	content.WriteString("\n")
	if state.Loans > 0 {
		content.WriteString(ErrorStyle.Render(fmt.Sprintf("Loans: %d", state.Loans)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	soft17 := "S17"
	if state.Rules.DealerHitsSoft17 {
		soft17 = "H17"
	}
	content.WriteString(InfoStyle.Render("Table:"))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  %d decks, %s\n", state.Rules.Decks, soft17))
	content.WriteString(fmt.Sprintf("  Min bet: %d\n", state.Rules.MinBet))
	content.WriteString(fmt.Sprintf("  Shoe: %d/%d\n", state.ShoeRemaining, state.ShoeTotal))

	if m.showStats {
		stats := state.Stats
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render("Statistics:"))
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("  Hands: %d\n", stats.HandsPlayed))
		content.WriteString(fmt.Sprintf("  Won/Lost/Push: %d/%d/%d\n", stats.HandsWon, stats.HandsLost, stats.HandsPushed))
		content.WriteString(fmt.Sprintf("  Win rate: %.1f%%\n", stats.WinRate()*100))
		content.WriteString(fmt.Sprintf("  Blackjacks: %d\n", stats.Blackjacks))
		content.WriteString(fmt.Sprintf("  Largest win: %d\n", stats.LargestWin))
		content.WriteString(fmt.Sprintf("  Largest loss: %d\n", stats.LargestLoss))
	}

	return content.String()
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	state := m.game.Snapshot()
	var content strings.Builder

	switch {
	case m.reveal.active:
		content.WriteString(HandInfoStyle.Render("Dealer is playing..."))
		m.actionInput.Placeholder = "Commands wait for the dealer"
	case state.Broke:
		content.WriteString(WarningStyle.Render("Out of chips. Type 'loan' or 'reset'."))
		m.actionInput.Placeholder = "loan, reset, quit"
	case state.Phase == game.PlayerTurn:
		content.WriteString(m.renderAvailableActions(state))
		m.actionInput.Placeholder = "hit, stand, double, split, hint"
	case state.Phase == game.GameOver:
		content.WriteString(HandInfoStyle.Render("Round over."))
		m.actionInput.Placeholder = "Enter for a new round, or bet N to deal again"
	default:
		content.WriteString(HandInfoStyle.Render(fmt.Sprintf("Place your bet (minimum %d)", state.Rules.MinBet)))
		m.actionInput.Placeholder = "bet 10, or just 10"
	}
	content.WriteString("\n")

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// renderAvailableActions renders the actions the engine accepts right now
func (m *TUIModel) renderAvailableActions(state game.State) string {
	var actions []string
	for _, a := range state.LegalActions() {
		switch a {
		case game.ActionHit, game.ActionStand:
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[%s]", a)))
		default:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[%s]", a)))
		}
	}

	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}

	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, len(cards))
	for i, card := range cards {
		switch {
		case !card.FaceUp:
			formatted[i] = HiddenCardStyle.Render(card.String())
		case card.IsRed():
			formatted[i] = RedCardStyle.Render(card.String())
		default:
			formatted[i] = BlackCardStyle.Render(card.String())
		}
	}

	return "[" + strings.Join(formatted, " ") + "]"
}

// emit receives a line from the bridge
func (m *TUIModel) emit(e logEntry) {
	if m.buffering {
		m.buffer = append(m.buffer, e)
		return
	}
	m.addEntry(e)
}

func (m *TUIModel) addEntry(e logEntry) {
	m.gameLog = append(m.gameLog, e)
	m.logger.Info(e.text)

	// In test mode, capture the plain text and skip UI updates
	if m.testMode {
		m.capturedLog = append(m.capturedLog, e.text)
		return
	}

	m.logViewport.SetContent(m.renderLogPane())

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.addEntry(logEntry{text: entry, style: GameLogStyle})
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = nil
	m.logViewport.SetContent("")
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
