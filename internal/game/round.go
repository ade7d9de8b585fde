package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/hand"
	"github.com/lox/blackjack/internal/statistics"
)

// dealerStandsOn is the total the dealer stops drawing at
const dealerStandsOn = 17

// PlaceBet stakes chips and deals the opening cards: player, dealer hole
// card, player, dealer upcard. A natural on either side ends the round
// immediately.
func (g *Game) PlaceBet(amount int) error {
	if g.phase != Betting {
		return fmt.Errorf("bet during %s: %w", g.phase, ErrWrongPhase)
	}
	if amount <= 0 {
		return fmt.Errorf("bet of %d: %w", amount, ErrInvalidBet)
	}
	if amount > g.chips {
		return fmt.Errorf("bet of %d with %d chips: %w", amount, g.chips, ErrInsufficientChips)
	}

	if g.shoe.ShouldReshuffle() || g.shoe.Count() < 4 {
		g.reshuffle()
	}

	g.roundID = g.ids.Generate()
	g.publish(RoundStartEvent{stamp: g.stamp(), RoundID: g.roundID, Bet: amount, Chips: g.chips})

	g.chips -= amount
	g.hands = []PlayerHand{{Hand: hand.New(amount)}}
	g.dealer = hand.Hand{}
	g.active = 0
	g.publish(BetPlacedEvent{stamp: g.stamp(), RoundID: g.roundID, HandIndex: 0, Kind: BetInitial, Amount: amount, Chips: g.chips})
	g.logger.Debug("Bet placed", "round", g.roundID, "bet", amount, "chips", g.chips)

	g.dealToPlayer(0)
	g.dealToDealer(false)
	g.dealToPlayer(0)
	g.dealToDealer(true)

	playerNatural := g.hands[0].IsBlackjack()
	dealerNatural := hand.IsBlackjack(hand.Revealed(g.dealer.Cards))
	if playerNatural || dealerNatural {
		g.logger.Debug("Natural", "round", g.roundID, "player", playerNatural, "dealer", dealerNatural)
		g.finishRound()
		return nil
	}

	g.message = "Your turn. Hit or Stand?"
	g.setPhase(PlayerTurn)
	return nil
}

// Hit deals one card to the active hand. A bust loses the hand at once and
// play moves on.
func (g *Game) Hit() error {
	if g.phase != PlayerTurn {
		return fmt.Errorf("hit during %s: %w", g.phase, ErrWrongPhase)
	}
	if g.shoe.IsEmpty() {
		return fmt.Errorf("hit: %w", ErrShoeEmpty)
	}

	g.dealToPlayer(g.active)
	if g.hands[g.active].IsBusted() {
		g.bust(g.active)
		g.advance()
		return nil
	}

	g.message = "Hit or Stand?"
	return nil
}

// Stand finishes the active hand
func (g *Game) Stand() error {
	if g.phase != PlayerTurn {
		return fmt.Errorf("stand during %s: %w", g.phase, ErrWrongPhase)
	}
	g.advance()
	return nil
}

// DoubleDown doubles the active hand's stake, deals it exactly one card and
// stands
func (g *Game) DoubleDown() error {
	if g.phase != PlayerTurn {
		return fmt.Errorf("double during %s: %w", g.phase, ErrWrongPhase)
	}
	h := &g.hands[g.active]
	if !h.CanDoubleDown() {
		return fmt.Errorf("double with %d cards: %w", len(h.Cards), ErrCannotDouble)
	}
	if g.chips < h.Bet {
		return fmt.Errorf("double %d with %d chips: %w", h.Bet, g.chips, ErrInsufficientChips)
	}
	if g.shoe.IsEmpty() {
		return fmt.Errorf("double: %w", ErrShoeEmpty)
	}

	g.chips -= h.Bet
	h.Bet *= 2
	h.Doubled = true
	g.publish(BetPlacedEvent{stamp: g.stamp(), RoundID: g.roundID, HandIndex: g.active, Kind: BetDouble, Amount: h.Bet / 2, Chips: g.chips})

	g.dealToPlayer(g.active)
	if g.hands[g.active].IsBusted() {
		g.bust(g.active)
	}
	g.advance()
	return nil
}

// Split turns a pair into two hands with equal stakes, each dealt a second
// card. Split Aces get one card each and are not played further.
func (g *Game) Split() error {
	if g.phase != PlayerTurn {
		return fmt.Errorf("split during %s: %w", g.phase, ErrWrongPhase)
	}
	h := g.hands[g.active]
	if !h.CanSplit() {
		return fmt.Errorf("split %s: %w", h.Hand, ErrCannotSplit)
	}
	if g.chips < h.Bet {
		return fmt.Errorf("split %d with %d chips: %w", h.Bet, g.chips, ErrInsufficientChips)
	}
	if g.shoe.Count() < 2 {
		return fmt.Errorf("split: %w", ErrShoeEmpty)
	}

	aces := h.Cards[0].IsAce()
	first := PlayerHand{Hand: hand.New(h.Bet, h.Cards[0]), SplitAces: aces}
	second := PlayerHand{Hand: hand.New(h.Bet, h.Cards[1]), SplitAces: aces}

	g.chips -= h.Bet
	hands := make([]PlayerHand, 0, len(g.hands)+1)
	hands = append(hands, g.hands[:g.active]...)
	hands = append(hands, first, second)
	hands = append(hands, g.hands[g.active+1:]...)
	g.hands = hands
	g.publish(BetPlacedEvent{stamp: g.stamp(), RoundID: g.roundID, HandIndex: g.active + 1, Kind: BetSplit, Amount: h.Bet, Chips: g.chips})
	g.logger.Debug("Split", "round", g.roundID, "hands", len(g.hands), "aces", aces)

	g.dealToPlayer(g.active)
	g.dealToPlayer(g.active + 1)

	if aces {
		g.advance()
		return nil
	}
	g.message = "Cards split. Playing first hand..."
	return nil
}

// advance moves to the next playable hand, or to the dealer once every hand
// is finished
func (g *Game) advance() {
	for g.active < len(g.hands)-1 {
		g.active++
		if !g.hands[g.active].SplitAces {
			g.message = "Playing next hand..."
			return
		}
	}
	g.playDealer()
}

func (g *Game) bust(i int) {
	g.hands[i].Outcome = Lose
	g.hands[i].Payout = 0
	g.message = "Bust! You lose."
	g.publishResolved(i)
}

// playDealer reveals the hole card and draws to the house rule, unless every
// player hand has already busted
func (g *Game) playDealer() {
	live := false
	for _, h := range g.hands {
		if !h.Outcome.Resolved() {
			live = true
			break
		}
	}
	if !live {
		g.finishRound()
		return
	}

	g.message = "Dealer's turn..."
	g.setPhase(DealerTurn)
	g.revealHole()

	for g.dealerShouldHit() {
		if !g.dealToDealer(true) {
			g.logger.Warn("Shoe ran out during dealer play", "round", g.roundID, "dealer", g.dealer.Value())
			break
		}
	}
	g.finishRound()
}

func (g *Game) dealerShouldHit() bool {
	v := g.dealer.Value()
	if v < dealerStandsOn {
		return true
	}
	return v == dealerStandsOn && g.rules.DealerHitsSoft17 && g.dealer.IsSoft()
}

func (g *Game) revealHole() {
	for i, c := range g.dealer.Cards {
		if !c.FaceUp {
			g.dealer.Cards[i] = c.Up()
			g.publish(CardFlippedEvent{stamp: g.stamp(), RoundID: g.roundID, Card: g.dealer.Cards[i], DealerValue: g.dealer.Value()})
		}
	}
}

// finishRound resolves every pending hand against the dealer, pays out,
// records statistics and ends the round
func (g *Game) finishRound() {
	g.revealHole()

	dealerValue := g.dealer.Value()
	dealerBust := g.dealer.IsBusted()
	dealerNatural := g.dealer.IsBlackjack()

	var result statistics.RoundResult
	for i := range g.hands {
		h := &g.hands[i]
		if !h.Outcome.Resolved() {
			h.Outcome = resolve(h.Hand, dealerNatural, dealerBust, dealerValue)
			h.Payout = payout(h.Outcome, h.Bet)
			g.chips += h.Payout
			g.publishResolved(i)
		}

		switch h.Outcome {
		case BlackjackWin:
			result.Won++
			result.Blackjacks++
			result.AmountWon += h.Payout - h.Bet
		case Win:
			result.Won++
			result.AmountWon += h.Payout - h.Bet
		case Push:
			result.Pushed++
		case Lose:
			result.Lost++
			result.AmountLost += h.Bet
		}
	}

	g.stats.Record(result)
	g.lastRound = &result
	g.message = g.resultMessage(dealerNatural, dealerBust, result)
	g.setPhase(GameOver)

	g.logger.Debug("Round over", "round", g.roundID, "won", result.Won, "lost", result.Lost,
		"pushed", result.Pushed, "net", result.Net(), "chips", g.chips)
	g.publish(RoundEndEvent{stamp: g.stamp(), RoundID: g.roundID, Result: result, Message: g.message, Chips: g.chips})

	if g.Broke() {
		g.publish(PlayerBrokeEvent{stamp: g.stamp(), Chips: g.chips, MinBet: g.rules.MinBet})
	}
}

func resolve(h hand.Hand, dealerNatural, dealerBust bool, dealerValue int) Outcome {
	playerNatural := h.IsBlackjack()
	switch {
	case h.IsBusted():
		return Lose
	case playerNatural && dealerNatural:
		return Push
	case playerNatural:
		return BlackjackWin
	case dealerNatural:
		return Lose
	case dealerBust:
		return Win
	case h.Value() > dealerValue:
		return Win
	case h.Value() < dealerValue:
		return Lose
	default:
		return Push
	}
}

// payout returns the chips handed back for a resolved hand, stake included.
// Blackjack pays 3:2 rounded down.
func payout(o Outcome, bet int) int {
	switch o {
	case BlackjackWin:
		return bet + bet*3/2
	case Win:
		return bet * 2
	case Push:
		return bet
	default:
		return 0
	}
}

func (g *Game) resultMessage(dealerNatural, dealerBust bool, r statistics.RoundResult) string {
	if len(g.hands) > 1 {
		return fmt.Sprintf("Game over: %d wins, %d pushes, %d losses", r.Won, r.Pushed, r.Lost)
	}

	h := g.hands[0]
	switch h.Outcome {
	case BlackjackWin:
		return "Blackjack! You win 3:2!"
	case Win:
		if dealerBust {
			return "Dealer busts! You win!"
		}
		return "You win!"
	case Push:
		if h.IsBlackjack() && dealerNatural {
			return "Both have Blackjack! Push."
		}
		return "Push!"
	default:
		switch {
		case h.IsBusted():
			return "Bust! You lose."
		case dealerNatural:
			return "Dealer has Blackjack! You lose."
		default:
			return "Dealer wins!"
		}
	}
}

func (g *Game) publishResolved(i int) {
	h := g.hands[i]
	g.publish(HandResolvedEvent{
		stamp:       g.stamp(),
		RoundID:     g.roundID,
		HandIndex:   i,
		Outcome:     h.Outcome,
		Bet:         h.Bet,
		Payout:      h.Payout,
		PlayerValue: h.Value(),
		DealerValue: g.dealer.Value(),
	})
}

func (g *Game) dealToPlayer(i int) bool {
	card, ok := g.shoe.Deal(true)
	if !ok {
		return false
	}
	g.hands[i].Add(card)
	g.publish(CardDealtEvent{stamp: g.stamp(), RoundID: g.roundID, Card: card, HandIndex: i, Value: g.hands[i].Value()})
	return true
}

func (g *Game) dealToDealer(faceUp bool) bool {
	card, ok := g.shoe.Deal(faceUp)
	if !ok {
		return false
	}
	g.dealer.Add(card)
	g.publish(CardDealtEvent{stamp: g.stamp(), RoundID: g.roundID, Card: card, Dealer: true, HandIndex: -1, Value: g.dealer.Value()})
	return true
}

