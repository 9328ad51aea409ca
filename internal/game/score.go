package game

const (
	BlackjackScore = 21
	aceDemotion    = aceValue - 1
)

// CalculateScore sums nominal card values, then demotes Aces from 11 to 1
// one at a time while the total is over 21.
func CalculateScore(cards []Card) int {
	score := 0
	aces := 0

	for _, card := range cards {
		score += card.Value()
		if card.IsAce() {
			aces++
		}
	}

	for score > BlackjackScore && aces > 0 {
		score -= aceDemotion
		aces--
	}

	return score
}

// IsBlackjack reports a natural: exactly two cards worth 21.
func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && CalculateScore(cards) == BlackjackScore
}

func IsBust(cards []Card) bool {
	return CalculateScore(cards) > BlackjackScore
}
