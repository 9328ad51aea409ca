package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"consolejack/internal/game"
)

// UI is the text console collaborator: it renders the table and reads the
// player's bets and decisions, retrying on malformed input.
type UI struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewUI(in io.Reader, out io.Writer) *UI {
	return &UI{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// prompt writes question and returns the next trimmed input line. ok is
// false once input is exhausted.
func (u *UI) prompt(question string) (string, bool) {
	fmt.Fprint(u.out, question)
	if !u.in.Scan() {
		fmt.Fprintln(u.out)
		return "", false
	}
	return strings.TrimSpace(u.in.Text()), true
}

// Decide shows the table and asks for hit or stand until the answer is
// understood. Closed input stands.
func (u *UI) Decide(t game.Table) game.Decision {
	u.ShowTable(t)

	for {
		answer, ok := u.prompt("[H]it or [S]tand? ")
		if !ok {
			return game.Stand
		}

		switch strings.ToLower(answer) {
		case "h", "hit":
			return game.Hit
		case "s", "stand":
			u.println(fmt.Sprintf("You stand with %d.", t.Player.Score))
			return game.Stand
		}
		u.println(pterm.Warning.Sprint("Please type h or s."))
	}
}

// AskBet reads a bet between minBet and chips inclusive.
func (u *UI) AskBet(minBet, chips int) (int, bool) {
	u.println()
	u.println(fmt.Sprintf("You have %d chips.", chips))

	for {
		answer, ok := u.prompt(fmt.Sprintf("Place your bet (%d-%d): ", minBet, chips))
		if !ok {
			return 0, false
		}

		bet, err := strconv.Atoi(answer)
		if err == nil && bet >= minBet && bet <= chips {
			return bet, true
		}
		u.println(pterm.Warning.Sprintf("Invalid bet! Enter a number between %d and %d.", minBet, chips))
	}
}

func (u *UI) AskContinue() bool {
	for {
		answer, ok := u.prompt("Play the next round? (y/n): ")
		if !ok {
			return false
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		u.println(pterm.Warning.Sprint("Please type y or n."))
	}
}
