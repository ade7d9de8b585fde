package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack/internal/game"
)

// Bridge feeds engine events into the model's log. Dealer draws made
// during the dealer's turn are tagged so the model can pace them.
type Bridge struct {
	model      *TUIModel
	dealerTurn bool
}

// NewBridge subscribes a bridge for the model to the game's event bus
func NewBridge(g *game.Game, model *TUIModel) *Bridge {
	bridge := &Bridge{model: model}
	g.EventBus().Subscribe(bridge)
	return bridge
}

// OnEvent implements game.EventSubscriber
func (b *Bridge) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		b.dealerTurn = false
		b.model.emit(logEntry{text: " " + game.Describe(e) + " ", style: HeaderStyle})

	case game.PhaseChangeEvent:
		b.dealerTurn = e.To == game.DealerTurn
		if b.dealerTurn {
			b.model.emit(logEntry{text: "Dealer's turn...", style: InfoStyle})
		}

	case game.CardDealtEvent:
		b.model.emit(logEntry{
			text:       game.Describe(e),
			style:      GameLogStyle,
			dealerDraw: e.Dealer && b.dealerTurn,
		})

	case game.HandResolvedEvent:
		b.model.emit(logEntry{text: game.Describe(e), style: outcomeStyle(e.Outcome)})

	case game.RoundEndEvent:
		style := WarningStyle
		switch {
		case e.Result.Net() > 0:
			style = SuccessStyle
		case e.Result.Net() < 0:
			style = ErrorStyle
		}
		b.model.emit(logEntry{text: game.Describe(e), style: style})

	case game.PlayerBrokeEvent:
		b.model.emit(logEntry{
			text:  fmt.Sprintf("%s. Type 'loan' or 'reset'.", game.Describe(e)),
			style: WarningStyle,
		})

	case game.ShoeShuffledEvent:
		b.model.emit(logEntry{text: game.Describe(e), style: InfoStyle})

	default:
		b.model.emit(logEntry{text: game.Describe(e), style: GameLogStyle})
	}
}

func outcomeStyle(o game.Outcome) lipgloss.Style {
	switch o {
	case game.Win, game.BlackjackWin:
		return SuccessStyle
	case game.Lose:
		return ErrorStyle
	default:
		return WarningStyle
	}
}
