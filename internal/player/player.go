package player

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consolejack/internal/game"
)

// Player is one seat's running tally for the current process.
type Player struct {
	ID      string
	Balance int
	Wins    int
	Losses  int
	Draws   int
	Games   int
	LastBet int
}

type Stats struct {
	ID      string
	Balance int
	Wins    int
	Games   int
	WinRate float64
}

// Round is one settled round as stored in the ledger.
type Round struct {
	ID          string
	PlayerID    string
	Round       int
	Bet         int
	PlayerScore int
	DealerScore int
	Winner      string
	ChipsAfter  int
	CreatedAt   time.Time
}

type Repository interface {
	GetOrCreate(id string, startBalance, defaultBet int) (*Player, error)
	Save(player *Player) error
	GetTopByBalance(limit int) ([]Stats, error)
	RecordRound(player *Player, out game.RoundOutcome) (Round, error)
	History(playerID string, limit int) ([]Round, error)
}

// NewID returns a fresh player or session identifier.
func NewID() string {
	return uuid.NewString()
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetOrCreate(id string, startBalance, defaultBet int) (*Player, error) {
	player := &Player{ID: id}

	err := r.db.QueryRow(`
		SELECT balance, wins, losses, draws, games, last_bet
		FROM players WHERE id = ?
	`, id).Scan(
		&player.Balance, &player.Wins, &player.Losses,
		&player.Draws, &player.Games, &player.LastBet,
	)

	if err == sql.ErrNoRows {
		player.Balance = startBalance
		player.LastBet = defaultBet

		_, err = r.db.Exec(`
			INSERT INTO players (id, balance, last_bet)
			VALUES (?, ?, ?)
		`, id, player.Balance, player.LastBet)

		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (r *SQLiteRepository) Save(player *Player) error {
	return save(r.db, player)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func save(db execer, player *Player) error {
	_, err := db.Exec(`
		UPDATE players SET
			balance = ?, wins = ?, losses = ?, draws = ?,
			games = ?, last_bet = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, player.Balance, player.Wins, player.Losses, player.Draws,
		player.Games, player.LastBet, player.ID)

	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// RecordRound applies a settled round to the player and stores both the
// round and the updated player in one transaction. player is only updated
// once the transaction commits.
func (r *SQLiteRepository) RecordRound(player *Player, out game.RoundOutcome) (Round, error) {
	updated := *player
	updated.Record(out)

	round := Round{
		ID:          uuid.NewString(),
		PlayerID:    player.ID,
		Round:       out.Round,
		Bet:         out.Bet,
		PlayerScore: out.PlayerScore,
		DealerScore: out.DealerScore,
		Winner:      out.Winner.String(),
		ChipsAfter:  out.Chips,
	}

	tx, err := r.db.Begin()
	if err != nil {
		return Round{}, fmt.Errorf("failed to begin round: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO rounds (id, player_id, round, bet, player_score, dealer_score, winner, chips_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, round.ID, round.PlayerID, round.Round, round.Bet,
		round.PlayerScore, round.DealerScore, round.Winner, round.ChipsAfter)
	if err != nil {
		return Round{}, fmt.Errorf("failed to record round: %w", err)
	}

	if err := save(tx, &updated); err != nil {
		return Round{}, err
	}

	if err := tx.Commit(); err != nil {
		return Round{}, fmt.Errorf("failed to commit round: %w", err)
	}
	*player = updated
	return round, nil
}

// History returns the player's most recent rounds, newest first.
func (r *SQLiteRepository) History(playerID string, limit int) ([]Round, error) {
	rows, err := r.db.Query(`
		SELECT id, player_id, round, bet, player_score, dealer_score, winner, chips_after, created_at
		FROM rounds
		WHERE player_id = ?
		ORDER BY created_at DESC, round DESC
		LIMIT ?
	`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var rd Round
		if err := rows.Scan(&rd.ID, &rd.PlayerID, &rd.Round, &rd.Bet, &rd.PlayerScore,
			&rd.DealerScore, &rd.Winner, &rd.ChipsAfter, &rd.CreatedAt); err != nil {
			return nil, err
		}
		rounds = append(rounds, rd)
	}

	return rounds, rows.Err()
}

func (r *SQLiteRepository) GetTopByBalance(limit int) ([]Stats, error) {
	rows, err := r.db.Query(`
		SELECT id, balance, wins, games
		FROM players
		WHERE games > 0
		ORDER BY balance DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.ID, &s.Balance, &s.Wins, &s.Games); err != nil {
			return nil, err
		}
		if s.Games > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Games) * 100
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// Record updates the tally from a settled round. The engine owns the chip
// balance, so it is copied rather than recomputed.
func (p *Player) Record(out game.RoundOutcome) {
	p.Balance = out.Chips
	p.LastBet = out.Bet
	p.Games++

	switch out.Winner {
	case game.WinnerPlayer:
		p.Wins++
	case game.WinnerDealer:
		p.Losses++
	case game.WinnerPush:
		p.Draws++
	}
}

func (p *Player) CanAfford(amount int) bool {
	return p.Balance >= amount
}

func (p *Player) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games) * 100
}
