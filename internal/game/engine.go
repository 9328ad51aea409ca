package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// openingCards is the size of the opening deal: two for the player, one
// for the dealer.
const openingCards = 3

// Engine runs rounds of one match. It owns the deck, both hands, the dealer
// policy and the chip balance. It is not safe for concurrent use.
type Engine struct {
	rules  Rules
	rng    *rand.Rand
	deck   *Deck
	player *Hand
	dealer *Hand
	policy DrawPolicy

	phase   Phase
	turnEnd TurnEnd
	bet     int
	chips   int
	round   int
	stats   MatchStats

	outcome    RoundOutcome
	hasOutcome bool

	observer func(Event)
}

// New validates the rules and builds an engine with a fresh deck drawn from
// rng. rng is used for every deck of the match and is never reseeded.
func New(rules Rules, rng *rand.Rand) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidConfiguration)
	}

	return &Engine{
		rules:  rules,
		rng:    rng,
		deck:   NewDeck(rules.DeckSize, rng),
		player: NewHand(),
		dealer: NewHand(),
		policy: PolicyFor(rules.AggressiveDealer),
		phase:  PhaseDealing,
		chips:  rules.StartingChips,
	}, nil
}

// Observe registers fn to receive informational events. Passing nil
// removes the observer.
func (e *Engine) Observe(fn func(Event)) {
	e.observer = fn
}

func (e *Engine) emit(ev Event) {
	if e.observer != nil {
		e.observer(ev)
	}
}

func (e *Engine) draw(seat Seat, h *Hand) (Card, bool) {
	card, ok := e.deck.Draw()
	if !ok {
		e.emit(Event{Kind: EventDeckEmpty, Seat: seat, Score: h.Score()})
		return Card{}, false
	}

	h.Add(card)
	e.emit(Event{
		Kind:      EventCardDrawn,
		Seat:      seat,
		Card:      card,
		Score:     h.Score(),
		Remaining: e.deck.Remaining(),
	})
	return card, true
}

func (e *Engine) replaceDeck() {
	e.deck = NewDeck(e.rules.DeckSize, e.rng)
	e.emit(Event{Kind: EventReshuffle, Remaining: e.deck.Remaining()})
}

func wrongPhase(action string, p Phase) error {
	return fmt.Errorf("%w: cannot %s during %s", ErrWrongPhase, action, p)
}

// StartRound takes the bet and deals the opening hands. A player who opens
// on 21 has the round played out immediately.
func (e *Engine) StartRound(bet int) error {
	if e.phase != PhaseDealing {
		return wrongPhase("start a round", e.phase)
	}
	if bet < e.rules.MinimumBet || bet > e.chips {
		return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidBet, bet, e.rules.MinimumBet, e.chips)
	}

	if e.deck.Remaining() < openingCards {
		e.replaceDeck()
	}

	e.round++
	e.bet = bet
	e.turnEnd = TurnNone
	e.hasOutcome = false

	e.draw(SeatPlayer, e.player)
	e.draw(SeatPlayer, e.player)
	e.draw(SeatDealer, e.dealer)

	e.phase = PhasePlayerTurn
	e.checkPlayer()
	return nil
}

// checkPlayer ends the player's turn on a bust or on exactly 21.
func (e *Engine) checkPlayer() {
	switch score := e.player.Score(); {
	case score > BlackjackScore:
		e.endPlayerTurn(TurnBust)
	case score == BlackjackScore:
		e.endPlayerTurn(TurnBlackjack)
	}
}

// Hit draws one card for the player. ok is false when the deck ran out, in
// which case the player is made to stand.
func (e *Engine) Hit() (card Card, ok bool, err error) {
	if e.phase != PhasePlayerTurn {
		return Card{}, false, wrongPhase("hit", e.phase)
	}

	card, ok = e.draw(SeatPlayer, e.player)
	if !ok {
		e.endPlayerTurn(TurnStand)
		return Card{}, false, nil
	}

	e.checkPlayer()
	return card, true, nil
}

func (e *Engine) Stand() error {
	if e.phase != PhasePlayerTurn {
		return wrongPhase("stand", e.phase)
	}

	e.endPlayerTurn(TurnStand)
	return nil
}

func (e *Engine) endPlayerTurn(t TurnEnd) {
	e.turnEnd = t
	if t != TurnBust {
		e.phase = PhaseDealerTurn
		e.dealerTurn()
	}
	e.resolve()
}

// dealerTurn draws while the policy asks for a card and the deck has one.
func (e *Engine) dealerTurn() {
	for e.policy.ShouldDraw(e.dealer.Score()) {
		if _, ok := e.draw(SeatDealer, e.dealer); !ok {
			return
		}
	}
}

// Resolve compares final scores: a player bust loses first, then a dealer
// bust wins, then the higher score wins and equal scores push.
func Resolve(playerScore, dealerScore int) Winner {
	switch {
	case playerScore > BlackjackScore:
		return WinnerDealer
	case dealerScore > BlackjackScore:
		return WinnerPlayer
	case playerScore > dealerScore:
		return WinnerPlayer
	case playerScore == dealerScore:
		return WinnerPush
	default:
		return WinnerDealer
	}
}

func (e *Engine) resolve() {
	e.phase = PhaseResolution

	playerScore := e.player.Score()
	dealerScore := e.dealer.Score()
	winner := Resolve(playerScore, dealerScore)

	delta := 0
	switch winner {
	case WinnerPlayer:
		delta = e.bet
		e.stats.Wins++
	case WinnerDealer:
		delta = -e.bet
		e.stats.Losses++
	case WinnerPush:
		e.stats.Pushes++
	}
	e.chips += delta
	e.stats.Rounds++

	reason := e.endReason()
	if reason != EndNone {
		e.phase = PhaseMatchOver
	} else {
		e.phase = PhaseRoundOver
	}

	e.outcome = RoundOutcome{
		Round:       e.round,
		PlayerHand:  e.player.View(),
		DealerHand:  e.dealer.View(),
		PlayerScore: playerScore,
		DealerScore: dealerScore,
		Winner:      winner,
		TurnEnd:     e.turnEnd,
		Natural:     e.player.IsBlackjack(),
		Bet:         e.bet,
		ChipDelta:   delta,
		Chips:       e.chips,
		MatchOver:   reason != EndNone,
		EndReason:   reason,
	}
	e.hasOutcome = true
}

func (e *Engine) endReason() EndReason {
	switch {
	case e.chips <= 0:
		return EndOutOfChips
	case e.chips < e.rules.MinimumBet:
		return EndBelowMinimumBet
	case e.rules.TargetChips > 0 && e.chips >= e.rules.TargetChips:
		return EndTargetReached
	}
	return EndNone
}

// NextRound clears both hands, reselects the dealer policy and replaces the
// deck when fewer than ReshuffleThreshold cards remain.
func (e *Engine) NextRound() error {
	if e.phase != PhaseRoundOver {
		return wrongPhase("begin the next round", e.phase)
	}

	e.player = NewHand()
	e.dealer = NewHand()
	e.policy = PolicyFor(e.rules.AggressiveDealer)

	if e.deck.Remaining() < e.rules.ReshuffleThreshold {
		e.replaceDeck()
	}

	e.bet = 0
	e.turnEnd = TurnNone
	e.phase = PhaseDealing
	return nil
}

// RunRound plays one whole round, asking d for every player decision.
func (e *Engine) RunRound(bet int, d Decider) (RoundOutcome, error) {
	if d == nil {
		return RoundOutcome{}, errors.New("nil decider")
	}
	if err := e.StartRound(bet); err != nil {
		return RoundOutcome{}, err
	}

	for e.phase == PhasePlayerTurn {
		var err error
		if d.Decide(e.Table()) == Hit {
			_, _, err = e.Hit()
		} else {
			err = e.Stand()
		}
		if err != nil {
			return RoundOutcome{}, err
		}
	}

	return e.outcome, nil
}

// SetAggressiveDealer changes the configured dealer policy. The active
// policy is kept until the next round.
func (e *Engine) SetAggressiveDealer(aggressive bool) {
	e.rules.AggressiveDealer = aggressive
}

func (e *Engine) Describe(seat Seat) HandView {
	if seat == SeatDealer {
		return e.dealer.View()
	}
	return e.player.View()
}

func (e *Engine) Table() Table {
	return Table{
		Player: e.player.View(),
		Dealer: e.dealer.View(),
		Bet:    e.bet,
		Chips:  e.chips,
		Round:  e.round,
	}
}

// Outcome returns the result of the last resolved round.
func (e *Engine) Outcome() (RoundOutcome, bool) {
	return e.outcome, e.hasOutcome
}

func (e *Engine) Stats() MatchStats {
	s := e.stats
	s.Chips = e.chips
	return s
}

func (e *Engine) Phase() Phase       { return e.phase }
func (e *Engine) MatchOver() bool    { return e.phase == PhaseMatchOver }
func (e *Engine) Chips() int         { return e.chips }
func (e *Engine) Bet() int           { return e.bet }
func (e *Engine) Round() int         { return e.round }
func (e *Engine) Rules() Rules       { return e.rules }
func (e *Engine) Policy() DrawPolicy { return e.policy }
func (e *Engine) DeckRemaining() int { return e.deck.Remaining() }
