package game

import "strconv"

// Kind discriminates the three card variants.
type Kind uint8

const (
	KindNormal Kind = iota + 1
	KindFace
	KindAce
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindFace:
		return "face"
	case KindAce:
		return "ace"
	default:
		return "unknown"
	}
}

type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suits = []Suit{Hearts, Diamonds, Clubs, Spades}

func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	default:
		return "?"
	}
}

const (
	aceValue  = 11
	faceValue = 10
)

var faceNames = map[int]string{11: "Jack", 12: "Queen", 13: "King"}

// Card is an immutable playing card. The zero Card is not a playable card.
type Card struct {
	kind Kind
	rank int
	suit Suit
}

// NewCard builds the card for a rank selector in [1,13]:
// 1 is an Ace, 2-10 are numbered cards and 11/12/13 are Jack, Queen, King.
func NewCard(rank int, suit Suit) Card {
	switch {
	case rank == 1:
		return Card{kind: KindAce, rank: 1, suit: suit}
	case rank >= 2 && rank <= 10:
		return Card{kind: KindNormal, rank: rank, suit: suit}
	case rank == 11 || rank == 12:
		return Card{kind: KindFace, rank: rank, suit: suit}
	default:
		return Card{kind: KindFace, rank: 13, suit: suit}
	}
}

func (c Card) Kind() Kind { return c.kind }
func (c Card) Rank() int  { return c.rank }
func (c Card) Suit() Suit { return c.suit }
func (c Card) IsAce() bool {
	return c.kind == KindAce
}

// Value returns the nominal blackjack value; an Ace counts 11 here and is
// demoted by the hand score when needed.
func (c Card) Value() int {
	switch c.kind {
	case KindAce:
		return aceValue
	case KindFace:
		return faceValue
	case KindNormal:
		return c.rank
	default:
		return 0
	}
}

// Name returns the display name without the suit: "7", "Queen", "Ace".
func (c Card) Name() string {
	switch c.kind {
	case KindAce:
		return "Ace"
	case KindFace:
		return faceNames[c.rank]
	case KindNormal:
		return strconv.Itoa(c.rank)
	default:
		return ""
	}
}

func (c Card) String() string {
	if c.kind == 0 {
		return "<no card>"
	}
	return c.Name() + " of " + c.suit.String()
}
