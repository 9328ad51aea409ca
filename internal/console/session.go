package console

import (
	"fmt"
	"log"

	"consolejack/internal/game"
	"consolejack/internal/player"
)

const historySize = 5

// Session plays one match on the console and records every round in the
// ledger.
type Session struct {
	engine     *game.Engine
	ui         *UI
	players    player.Repository
	player     *player.Player
	difficulty string
}

func NewSession(engine *game.Engine, ui *UI, repo player.Repository, difficulty string) (*Session, error) {
	rules := engine.Rules()
	p, err := repo.GetOrCreate(player.NewID(), rules.StartingChips, rules.MinimumBet)
	if err != nil {
		return nil, fmt.Errorf("failed to create session player: %w", err)
	}

	engine.Observe(ui.Event)

	return &Session{
		engine:     engine,
		ui:         ui,
		players:    repo,
		player:     p,
		difficulty: difficulty,
	}, nil
}

func (s *Session) PlayerID() string {
	return s.player.ID
}

// Run plays rounds until the match ends, the player quits or input runs out.
func (s *Session) Run() error {
	rules := s.engine.Rules()
	s.ui.Welcome(s.difficulty, rules)

	for {
		bet, ok := s.ui.AskBet(rules.MinimumBet, s.engine.Chips())
		if !ok {
			break
		}

		out, err := s.engine.RunRound(bet, s.ui)
		if err != nil {
			return fmt.Errorf("round %d: %w", s.engine.Round(), err)
		}
		s.ui.RoundResult(out)

		if _, err := s.players.RecordRound(s.player, out); err != nil {
			log.Printf("Failed to record round: %v", err)
		}

		if out.MatchOver || !s.ui.AskContinue() {
			break
		}
		if err := s.engine.NextRound(); err != nil {
			return err
		}
	}

	history, err := s.players.History(s.player.ID, historySize)
	if err != nil {
		log.Printf("Failed to load history: %v", err)
	}
	s.ui.Summary(s.engine.Stats(), history)
	return nil
}
