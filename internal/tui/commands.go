package tui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/blackjack/internal/game"
	"github.com/sanity-io/litter"
)

var dumpOptions = litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	FieldExclusions:   regexp.MustCompile(`^Values$`),
}

// processAction dispatches one line of input
func (m *TUIModel) processAction(input string) tea.Cmd {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return m.handleEnter()
	}
	action, args := parts[0], parts[1:]
	m.logger.Debug("Processing action", "action", action, "args", args)

	// A bare number is a bet
	if _, err := strconv.Atoi(action); err == nil {
		return m.handleBet(parts)
	}

	switch action {
	case "bet", "b":
		return m.handleBet(args)
	case "hit", "h", "stand", "s", "double", "d", "split", "p":
		return m.handlePlay(action)
	case "new", "n", "deal":
		return m.handleNewRound()
	case "reset":
		return m.handleReset()
	case "loan":
		return m.handleLoan()
	case "hint":
		return m.handleHint()
	case "stats":
		return m.handleStats()
	case "dump":
		return m.handleDump()
	case "decks":
		return m.handleDecks(args)
	case "h17":
		return m.handleSoft17(args)
	case "help", "?":
		return m.handleHelp()
	case "quit", "q", "exit":
		m.logger.Info("Quit command received")
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	default:
		m.addEntry(logEntry{
			text:  fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", action),
			style: ErrorStyle,
		})
		return nil
	}
}

// handleEnter starts the next round after a result; otherwise it does nothing
func (m *TUIModel) handleEnter() tea.Cmd {
	if m.game.Phase() != game.GameOver {
		return nil
	}
	return m.handleNewRound()
}

func (m *TUIModel) handleBet(args []string) tea.Cmd {
	if len(args) == 0 {
		m.addEntry(logEntry{text: "Specify bet amount: 'bet <amount>'", style: ErrorStyle})
		return nil
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		m.addEntry(logEntry{text: fmt.Sprintf("Invalid bet amount: %s", args[0]), style: ErrorStyle})
		return nil
	}

	cmd, _ := m.play("bet", func() error {
		if m.game.Phase() == game.GameOver {
			if err := m.game.NewRound(); err != nil {
				return err
			}
		}
		return m.game.PlaceBet(amount)
	})
	return cmd
}

func (m *TUIModel) handlePlay(word string) tea.Cmd {
	action, err := game.ParseAction(word)
	if err != nil {
		m.addEntry(logEntry{text: err.Error(), style: ErrorStyle})
		return nil
	}
	cmd, _ := m.play(action.String(), func() error {
		return m.game.Apply(action)
	})
	return cmd
}

func (m *TUIModel) handleNewRound() tea.Cmd {
	cmd, err := m.play("start a new round", m.game.NewRound)
	if err == nil {
		m.addEntry(logEntry{text: m.game.Snapshot().Message, style: GameLogStyle})
	}
	return cmd
}

func (m *TUIModel) handleReset() tea.Cmd {
	cmd, _ := m.play("reset", func() error {
		m.game.ResetGame()
		return nil
	})
	m.addEntry(logEntry{text: fmt.Sprintf("Game reset with %d chips", m.game.Chips()), style: SuccessStyle})
	return cmd
}

func (m *TUIModel) handleLoan() tea.Cmd {
	cmd, err := m.play("take a loan", m.game.ApplyLoan)
	if err == nil {
		m.addEntry(logEntry{text: m.game.Snapshot().Message, style: SuccessStyle})
	}
	return cmd
}

func (m *TUIModel) handleHint() tea.Cmd {
	advice, err := m.advisor.Decide(m.game.Snapshot())
	if err != nil {
		m.addEntry(logEntry{text: "No hint: there is no hand to play", style: InfoStyle})
		return nil
	}
	m.addEntry(logEntry{text: fmt.Sprintf("Hint: %s", advice), style: InfoStyle})
	return nil
}

func (m *TUIModel) handleStats() tea.Cmd {
	m.showStats = !m.showStats

	stats := m.game.Statistics()
	m.addEntry(logEntry{
		text: fmt.Sprintf("Hands %d: %d won, %d lost, %d pushed, %d blackjacks",
			stats.HandsPlayed, stats.HandsWon, stats.HandsLost, stats.HandsPushed, stats.Blackjacks),
		style: InfoStyle,
	})
	return nil
}

func (m *TUIModel) handleDump() tea.Cmd {
	dump := dumpOptions.Sdump(m.game.Snapshot())
	m.logger.Debug("State dump", "state", dump)
	for _, line := range strings.Split(dump, "\n") {
		m.addEntry(logEntry{text: line, style: InfoStyle})
	}
	return nil
}

func (m *TUIModel) handleDecks(args []string) tea.Cmd {
	if len(args) == 0 {
		m.addEntry(logEntry{text: "Specify deck count: 'decks <1-8>'", style: ErrorStyle})
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		m.addEntry(logEntry{text: fmt.Sprintf("Invalid deck count: %s", args[0]), style: ErrorStyle})
		return nil
	}

	rules := m.game.Rules()
	rules.Decks = n
	return m.changeRules(rules)
}

func (m *TUIModel) handleSoft17(args []string) tea.Cmd {
	rules := m.game.Rules()
	switch {
	case len(args) == 0:
		rules.DealerHitsSoft17 = !rules.DealerHitsSoft17
	case args[0] == "on":
		rules.DealerHitsSoft17 = true
	case args[0] == "off":
		rules.DealerHitsSoft17 = false
	default:
		m.addEntry(logEntry{text: "Usage: 'h17 [on|off]'", style: ErrorStyle})
		return nil
	}
	return m.changeRules(rules)
}

func (m *TUIModel) changeRules(rules game.Rules) tea.Cmd {
	cmd, err := m.play("change rules", func() error {
		return m.game.SetRules(rules)
	})
	if err == nil {
		soft17 := "stands on"
		if rules.DealerHitsSoft17 {
			soft17 = "hits"
		}
		m.addEntry(logEntry{
			text:  fmt.Sprintf("Rules: %d decks, dealer %s soft 17", rules.Decks, soft17),
			style: SuccessStyle,
		})
	}
	return cmd
}

func (m *TUIModel) handleHelp() tea.Cmd {
	lines := []string{
		"Available commands:",
		"Betting:",
		"  bet <amt>  - Place a bet and deal (or just type the amount)",
		"  new        - Clear the table for the next round (or press Enter)",
		"Game Actions:",
		"  hit        - Take another card",
		"  stand      - Keep your hand",
		"  double     - Double the bet and take exactly one card",
		"  split      - Split a pair into two hands",
		"Information:",
		"  hint       - Ask basic strategy for advice",
		"  stats      - Toggle session statistics",
		"  dump       - Dump the full table state",
		"Table:",
		"  decks <n>  - Change the number of decks between rounds",
		"  h17 [on|off] - Dealer hits or stands on soft 17",
		"  loan       - Borrow chips when broke",
		"  reset      - Start over with a fresh stake",
		"Utility:",
		"  help       - Show this help",
		"  quit       - Quit the game",
	}
	for _, line := range lines {
		m.addEntry(logEntry{text: line, style: InfoStyle})
	}
	return nil
}
