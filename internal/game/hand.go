package game

// Hand is the ordered set of cards a participant holds during one round.
// It has no score field; Score is always derived from the cards.
type Hand struct {
	cards []Card
}

func NewHand() *Hand {
	return &Hand{
		cards: make([]Card, 0, 10),
	}
}

func (h *Hand) Add(card Card) {
	h.cards = append(h.cards, card)
}

func (h *Hand) Score() int {
	return CalculateScore(h.cards)
}

func (h *Hand) Len() int {
	return len(h.cards)
}

// Cards returns a copy of the held cards in the order they were received.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) IsBust() bool {
	return IsBust(h.cards)
}

func (h *Hand) IsBlackjack() bool {
	return IsBlackjack(h.cards)
}

// CardView is the rendering data of one card.
type CardView struct {
	Name  string
	Suit  string
	Value int
}

// HandView is what a front-end needs to draw a hand: the cards in order and
// the final score.
type HandView struct {
	Cards []CardView
	Score int
}

func (h *Hand) View() HandView {
	v := HandView{
		Cards: make([]CardView, 0, len(h.cards)),
		Score: h.Score(),
	}
	for _, c := range h.cards {
		v.Cards = append(v.Cards, CardView{
			Name:  c.Name(),
			Suit:  c.Suit().String(),
			Value: c.Value(),
		})
	}
	return v
}
