package console

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"consolejack/internal/game"
	"consolejack/internal/player"
)

func suitSymbol(suit string) string {
	switch suit {
	case "Hearts":
		return pterm.LightRed("♥")
	case "Diamonds":
		return pterm.LightRed("♦")
	case "Clubs":
		return "♣"
	case "Spades":
		return "♠"
	default:
		return "?"
	}
}

func formatCard(c game.CardView) string {
	return fmt.Sprintf("%s%s (%d)", c.Name, suitSymbol(c.Suit), c.Value)
}

// FormatHand renders a hand the way every screen shows it:
// "Queen♥ (10), Ace♠ (11) -> 21".
func FormatHand(h game.HandView) string {
	cards := make([]string, 0, len(h.Cards))
	for _, c := range h.Cards {
		cards = append(cards, formatCard(c))
	}
	if len(cards) == 0 {
		cards = append(cards, "-")
	}
	return fmt.Sprintf("%s -> %s", strings.Join(cards, ", "), pterm.Bold.Sprint(h.Score))
}

func (u *UI) println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UI) Welcome(difficulty string, rules game.Rules) {
	u.println(pterm.DefaultHeader.Sprint("Blackjack (" + difficulty + " mode)"))
	u.println("Get as close to 21 as you can without going over.")
	u.println("Face cards are worth 10, an Ace 1 or 11.")
	u.println(fmt.Sprintf("You start with %d chips, minimum bet %d.", rules.StartingChips, rules.MinimumBet))
	if rules.TargetChips > 0 {
		u.println(fmt.Sprintf("Reach %d chips to win the match.", rules.TargetChips))
	}
	u.println(fmt.Sprintf("The dealer plays %s.", game.PolicyFor(rules.AggressiveDealer).Name()))
}

func (u *UI) ShowTable(t game.Table) {
	u.println()
	u.println("Your hand:    " + FormatHand(t.Player))
	u.println("Dealer shows: " + FormatHand(t.Dealer))
}

// Event renders engine notices as they happen.
func (u *UI) Event(ev game.Event) {
	switch ev.Kind {
	case game.EventCardDrawn:
		if ev.Seat == game.SeatDealer {
			u.println(fmt.Sprintf("Dealer draws %s", ev.Card))
		} else {
			u.println(fmt.Sprintf("You draw %s", ev.Card))
		}
	case game.EventDeckEmpty:
		if ev.Seat == game.SeatDealer {
			u.println(pterm.Warning.Sprint("The deck is empty, the dealer must stand."))
		} else {
			u.println(pterm.Warning.Sprint("The deck is empty, you must stand."))
		}
	case game.EventReshuffle:
		u.println(pterm.Info.Sprintf("The dealer brings a fresh deck of %d cards.", ev.Remaining))
	}
}

func (u *UI) RoundResult(out game.RoundOutcome) {
	u.println()
	u.println(pterm.DefaultSection.Sprint(fmt.Sprintf("Round %d results", out.Round)))
	u.println("Your hand:   " + FormatHand(out.PlayerHand))
	u.println("Dealer hand: " + FormatHand(out.DealerHand))

	switch out.TurnEnd {
	case game.TurnBust:
		u.println(pterm.Error.Sprint("Bust! You went over 21."))
	case game.TurnBlackjack:
		if out.Natural {
			u.println(pterm.Success.Sprint("Blackjack!"))
		} else {
			u.println(pterm.Success.Sprint("Twenty-one!"))
		}
	}

	switch {
	case out.Winner == game.WinnerPush:
		u.println(pterm.Info.Sprint("Push. Your bet is returned."))
	case out.Winner == game.WinnerPlayer && out.DealerScore > game.BlackjackScore:
		u.println(pterm.Success.Sprintf("Dealer busts. You win %d chips.", out.ChipDelta))
	case out.Winner == game.WinnerPlayer:
		u.println(pterm.Success.Sprintf("You win %d chips.", out.ChipDelta))
	default:
		u.println(pterm.Error.Sprintf("Dealer wins. You lose %d chips.", -out.ChipDelta))
	}
	u.println(fmt.Sprintf("Chips: %d", out.Chips))

	if out.MatchOver {
		u.println(pterm.Warning.Sprint("Match over: " + out.EndReason.String() + "."))
	}
}

func (u *UI) Summary(stats game.MatchStats, history []player.Round) {
	u.println()
	u.println(pterm.DefaultHeader.Sprint("Thanks for playing!"))
	u.println(fmt.Sprintf("Rounds: %d | Wins: %d | Losses: %d | Pushes: %d | Final chips: %d",
		stats.Rounds, stats.Wins, stats.Losses, stats.Pushes, stats.Chips))

	if len(history) == 0 {
		return
	}

	data := pterm.TableData{{"Round", "Bet", "You", "Dealer", "Winner", "Chips"}}
	for _, rd := range history {
		data = append(data, []string{
			fmt.Sprint(rd.Round), fmt.Sprint(rd.Bet), fmt.Sprint(rd.PlayerScore),
			fmt.Sprint(rd.DealerScore), rd.Winner, fmt.Sprint(rd.ChipsAfter),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return
	}
	u.println("Last rounds:")
	u.println(table)
}
