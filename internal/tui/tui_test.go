package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 600 * time.Millisecond

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestModel builds a test-mode model over a stacked shoe. Cards are dealt
// player, dealer hole, player, dealer upcard, then in order.
func newTestModel(t *testing.T, rules game.Rules, opts Options, cards string) *TUIModel {
	t.Helper()
	shoe := deck.NewStackedShoe(deck.MustParseCards(cards)...)
	g, err := game.New(randutil.New(1), rules, game.WithShoe(shoe))
	require.NoError(t, err)

	opts.TestMode = true
	return NewTUIModelWithOptions(g, quietLogger(), opts)
}

func logText(m *TUIModel) string {
	return strings.Join(m.GetCapturedLog(), "\n")
}

func TestTUITestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		m := newTestModel(t, game.DefaultRules(), Options{}, "As 9h Kd 7c")

		assert.True(t, m.IsTestMode())
		captured := m.GetCapturedLog()
		require.Len(t, captured, 2)
		assert.Equal(t, "Welcome to Blackjack. Type 'help' for commands.", captured[0])
		assert.Equal(t, "Place your bet to start the game", captured[1])

		m.AddLogEntry("Custom entry")
		assert.Equal(t, "Custom entry", m.GetCapturedLog()[2])
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		g, err := game.New(randutil.New(1), game.DefaultRules())
		require.NoError(t, err)
		m := NewTUIModel(g, quietLogger())

		assert.False(t, m.IsTestMode())
		m.AddLogEntry("Some log entry")
		assert.Nil(t, m.GetCapturedLog())
	})
}

func TestBlackjackRound(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{}, "As 9h Kd 7c")

	assert.Nil(t, m.Submit("10"))

	out := logText(m)
	assert.Contains(t, out, "betting 10 of 100 chips")
	assert.Contains(t, out, "Hand 1: blackjack pays 25")
	assert.Contains(t, out, "Blackjack! You win 3:2! (net +15, chips 115)")
	assert.Equal(t, 115, m.game.Chips())
	assert.Equal(t, game.GameOver, m.game.Phase())

	// Enter clears the table
	m.Submit("")
	assert.Equal(t, game.Betting, m.game.Phase())
}

func TestPlayerCommands(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{}, "Th 9s 6d 7c Kc")

	m.Submit("bet 10")
	require.Equal(t, game.PlayerTurn, m.game.Phase())

	m.Submit("hint")
	assert.Contains(t, logText(m), "Hint: hit (hard 16 vs 7)")

	m.Submit("double")
	assert.Contains(t, logText(m), "Hand 1 doubles down for 10 more")
	assert.Contains(t, logText(m), "Hand 1 busts with 26, loses 20")
	assert.Equal(t, 80, m.game.Chips())

	m.Submit("hit")
	assert.Contains(t, logText(m), "Cannot hit:")

	m.Submit("surrender")
	assert.Contains(t, logText(m), "Unknown command: surrender")

	m.Submit("hint")
	assert.Contains(t, logText(m), "No hint")
}

func TestInvalidBets(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{}, "As 9h Kd 7c")

	m.Submit("bet")
	assert.Contains(t, logText(m), "Specify bet amount")

	m.Submit("bet lots")
	assert.Contains(t, logText(m), "Invalid bet amount: lots")

	m.Submit("500")
	assert.Contains(t, logText(m), "Cannot bet:")
	assert.Equal(t, game.Betting, m.game.Phase())
	assert.Equal(t, 100, m.game.Chips())
}

func TestBrokeLoanFlow(t *testing.T) {
	rules := game.Rules{Decks: 1, DealerHitsSoft17: true, MinBet: 5, StartingChips: 10, LoanAmount: 100}
	m := newTestModel(t, rules, Options{}, "Th 9s 6d 7c Kc")

	m.Submit("10")
	m.Submit("hit")
	require.Equal(t, game.GameOver, m.game.Phase())
	assert.Contains(t, logText(m), "Out of chips: 0 left, minimum bet is 5. Type 'loan' or 'reset'.")

	m.Submit("")
	assert.Contains(t, logText(m), "Cannot start a new round:")
	assert.Equal(t, game.GameOver, m.game.Phase())

	m.Submit("loan")
	assert.Contains(t, logText(m), "Loan of 100 chips granted")
	assert.Equal(t, 100, m.game.Chips())

	m.Submit("loan")
	assert.Contains(t, logText(m), "Cannot take a loan:")

	m.Submit("")
	assert.Equal(t, game.Betting, m.game.Phase())

	m.Submit("reset")
	assert.Contains(t, logText(m), "Game reset with 10 chips")
}

func TestDealerRevealIsPaced(t *testing.T) {
	// Player 18 stands, dealer 11 draws 2, 3 and 4 to 20
	m := newTestModel(t, game.DefaultRules(), Options{DealerDelay: testDelay}, "Th 6s 8d 5c 2h 3d 4c")

	m.Submit("bet 10")
	require.Equal(t, game.PlayerTurn, m.game.Phase())

	cmd := m.Submit("stand")
	require.NotNil(t, cmd)
	assert.True(t, m.Revealing())

	// The engine is already done, the log and table are not
	assert.Equal(t, game.GameOver, m.game.Phase())
	out := logText(m)
	assert.Contains(t, out, "Dealer reveals 6♠ (11)")
	assert.NotContains(t, out, "Dealer draws 2♥")
	assert.NotContains(t, out, "Dealer wins!")
	table := m.renderTablePane()
	assert.Contains(t, table, "(11)")
	assert.NotContains(t, table, "4♣")

	// Commands wait for the dealer
	assert.Nil(t, m.Submit("new"))
	assert.Equal(t, game.GameOver, m.game.Phase())

	m.Update(revealMsg{})
	assert.Contains(t, logText(m), "Dealer draws 2♥ (13)")
	assert.NotContains(t, logText(m), "Dealer draws 3♦")
	assert.True(t, m.Revealing())

	m.Update(revealMsg{})
	assert.Contains(t, logText(m), "Dealer draws 3♦ (16)")

	m.Update(revealMsg{})
	out = logText(m)
	assert.Contains(t, out, "Dealer draws 4♣ (20)")
	assert.Contains(t, out, "Hand 1 loses 10 (18 vs 20)")
	assert.Contains(t, out, "Dealer wins! (net -10, chips 90)")
	assert.False(t, m.Revealing())

	// The held command ran once the reveal finished
	assert.Equal(t, game.Betting, m.game.Phase())
}

func TestDealerRevealWithoutDelay(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{}, "Th 6s 8d 5c 2h 3d 4c")

	m.Submit("bet 10")
	assert.Nil(t, m.Submit("stand"))
	assert.False(t, m.Revealing())
	assert.Contains(t, logText(m), "Dealer wins! (net -10, chips 90)")
}

func TestRevealWaitsOnClock(t *testing.T) {
	mock := quartz.NewMock(t)
	m := newTestModel(t, game.DefaultRules(), Options{Clock: mock, DealerDelay: testDelay}, "Th 6s 8d 5c 2h 3d 4c")

	m.Submit("bet 10")
	cmd := m.Submit("stand")
	require.NotNil(t, cmd)

	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msg tea.Msg
	require.Eventually(t, func() bool {
		mock.Advance(testDelay).MustWait(ctx)
		select {
		case msg = <-got:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.IsType(t, revealMsg{}, msg)
}

func TestRulesCommands(t *testing.T) {
	g, err := game.New(randutil.New(7), game.DefaultRules())
	require.NoError(t, err)
	m := NewTUIModelWithOptions(g, quietLogger(), Options{TestMode: true})

	m.Submit("decks 2")
	out := logText(m)
	assert.Contains(t, out, "Shoe shuffled: 104 cards")
	assert.Contains(t, out, "Rules: 2 decks, dealer hits soft 17")

	m.Submit("h17 off")
	assert.Contains(t, logText(m), "Rules: 2 decks, dealer stands on soft 17")
	assert.False(t, g.Rules().DealerHitsSoft17)

	m.Submit("decks 9")
	assert.Contains(t, logText(m), "Cannot change rules:")
	assert.Equal(t, 2, g.Rules().Decks)

	m.Submit("h17 maybe")
	assert.Contains(t, logText(m), "Usage: 'h17 [on|off]'")
}

func TestInfoCommands(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{}, "As 9h Kd 7c")
	m.Submit("10")

	m.Submit("stats")
	assert.True(t, m.showStats)
	assert.Contains(t, logText(m), "Hands 1: 1 won, 0 lost, 0 pushed, 1 blackjacks")

	m.Submit("dump")
	assert.Contains(t, logText(m), "Chips: 115")

	m.Submit("help")
	assert.Contains(t, logText(m), "Available commands:")
}

func TestKeyHandling(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{}, "As 9h Kd 7c")

	m.actionInput.SetValue("10")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 115, m.game.Chips())
	assert.Empty(t, m.actionInput.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focusedPane)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focusedPane)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestQuitCommand(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{}, "As 9h Kd 7c")
	assert.NotNil(t, m.Submit("quit"))
	assert.True(t, m.quitting)
}

func TestView(t *testing.T) {
	m := newTestModel(t, game.DefaultRules(), Options{ShowStats: true}, "Th 9s 6d 7c Kc")
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Submit("bet 10")

	view := m.View()
	assert.Contains(t, view, "Chips: 90")
	assert.Contains(t, view, "Bet: 10")
	assert.Contains(t, view, "1 decks, H17")
	assert.Contains(t, view, "Statistics:")
	assert.Contains(t, view, "[hit]")
	assert.Contains(t, view, "??")
}
