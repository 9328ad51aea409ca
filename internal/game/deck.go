package game

import "math/rand"

const ranksPerSuit = 13

// Deck is a finite pile of cards consumed from the top. It is never
// refilled; the engine replaces it with a fresh one between rounds.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck fills size slots, each with a uniformly random rank and suit drawn
// from rng. The same seed always yields the same deck.
func NewDeck(size int, rng *rand.Rand) *Deck {
	if size < 0 {
		size = 0
	}

	d := &Deck{
		cards: make([]Card, 0, size),
	}

	for i := 0; i < size; i++ {
		rank := rng.Intn(ranksPerSuit) + 1
		suit := suits[rng.Intn(len(suits))]
		d.cards = append(d.cards, NewCard(rank, suit))
	}

	return d
}

// DeckOf builds a deck that deals the given cards in order.
func DeckOf(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Draw removes and returns the top card. ok is false when the deck is
// empty, in which case the returned Card is the zero value.
func (d *Deck) Draw() (card Card, ok bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}

	card = d.cards[d.next]
	d.cards[d.next] = Card{}
	d.next++
	return card, true
}

func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

func (d *Deck) IsEmpty() bool {
	return d.Remaining() == 0
}

// Size is the number of cards the deck was created with.
func (d *Deck) Size() int {
	return len(d.cards)
}
