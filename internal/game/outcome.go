package game

// Phase is the position of the engine in the round state machine.
type Phase int

const (
	PhaseDealing    Phase = iota // waiting for a bet
	PhasePlayerTurn              // player decides hit or stand
	PhaseDealerTurn              // dealer draws by policy
	PhaseResolution              // scores compared, chips settled
	PhaseRoundOver               // round settled, next round allowed
	PhaseMatchOver               // terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhasePlayerTurn:
		return "player turn"
	case PhaseDealerTurn:
		return "dealer turn"
	case PhaseResolution:
		return "resolution"
	case PhaseRoundOver:
		return "round over"
	case PhaseMatchOver:
		return "match over"
	default:
		return "unknown"
	}
}

// TurnEnd records how the player's turn finished.
type TurnEnd int

const (
	TurnNone TurnEnd = iota
	TurnBust
	TurnStand
	TurnBlackjack
)

func (t TurnEnd) String() string {
	switch t {
	case TurnBust:
		return "bust"
	case TurnStand:
		return "stand"
	case TurnBlackjack:
		return "blackjack"
	default:
		return "none"
	}
}

type Winner int

const (
	WinnerNone Winner = iota
	WinnerPlayer
	WinnerDealer
	WinnerPush
)

func (w Winner) String() string {
	switch w {
	case WinnerPlayer:
		return "player"
	case WinnerDealer:
		return "dealer"
	case WinnerPush:
		return "push"
	default:
		return "none"
	}
}

// EndReason says why a match stopped.
type EndReason int

const (
	EndNone EndReason = iota
	EndOutOfChips
	EndBelowMinimumBet
	EndTargetReached
)

func (r EndReason) String() string {
	switch r {
	case EndOutOfChips:
		return "out of chips"
	case EndBelowMinimumBet:
		return "chips below minimum bet"
	case EndTargetReached:
		return "target reached"
	default:
		return "none"
	}
}

type Seat int

const (
	SeatPlayer Seat = iota
	SeatDealer
)

func (s Seat) String() string {
	if s == SeatDealer {
		return "dealer"
	}
	return "player"
}

type Decision int

const (
	Stand Decision = iota
	Hit
)

func (d Decision) String() string {
	if d == Hit {
		return "hit"
	}
	return "stand"
}

// Table is the view handed to a Decider at each decision point.
type Table struct {
	Player HandView
	Dealer HandView
	Bet    int
	Chips  int
	Round  int
}

// Decider supplies the player's hit/stand choice. The engine calls Decide
// once per decision point and performs no I/O itself.
type Decider interface {
	Decide(t Table) Decision
}

// DeciderFunc adapts a function to a Decider.
type DeciderFunc func(t Table) Decision

func (f DeciderFunc) Decide(t Table) Decision { return f(t) }

type EventKind int

const (
	EventCardDrawn EventKind = iota
	EventDeckEmpty
	EventReshuffle
)

func (k EventKind) String() string {
	switch k {
	case EventCardDrawn:
		return "card drawn"
	case EventDeckEmpty:
		return "deck empty"
	case EventReshuffle:
		return "reshuffle"
	default:
		return "unknown"
	}
}

// Event is an informational notice from the engine. Card is set for
// EventCardDrawn; Remaining is the deck size after the event.
type Event struct {
	Kind      EventKind
	Seat      Seat
	Card      Card
	Score     int
	Remaining int
}

type RoundOutcome struct {
	Round       int
	PlayerHand  HandView
	DealerHand  HandView
	PlayerScore int
	DealerScore int
	Winner      Winner
	TurnEnd     TurnEnd
	// Natural is set when the player's 21 came from the first two cards.
	Natural   bool
	Bet       int
	ChipDelta int
	Chips     int
	MatchOver bool
	EndReason EndReason
}

type MatchStats struct {
	Rounds int
	Wins   int
	Losses int
	Pushes int
	Chips  int
}
