package game

// DrawPolicy decides whether the dealer takes another card at a given score.
// Implementations are stateless and safe to share.
type DrawPolicy interface {
	ShouldDraw(score int) bool
	Name() string
}

const (
	ConservativeStop = 15
	AggressiveStop   = 18
)

// Conservative stops drawing at 15 or more.
type Conservative struct{}

func (Conservative) ShouldDraw(score int) bool { return score < ConservativeStop }
func (Conservative) Name() string              { return "conservative" }

// Aggressive keeps drawing until 18 or more.
type Aggressive struct{}

func (Aggressive) ShouldDraw(score int) bool { return score < AggressiveStop }
func (Aggressive) Name() string              { return "aggressive" }

func PolicyFor(aggressive bool) DrawPolicy {
	if aggressive {
		return Aggressive{}
	}
	return Conservative{}
}
