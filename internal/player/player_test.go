package player

import (
	"testing"

	"consolejack/internal/database"
	"consolejack/internal/game"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestGetOrCreate(t *testing.T) {
	repo := newRepo(t)
	id := NewID()

	p, err := repo.GetOrCreate(id, 100, 10)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if p.Balance != 100 || p.LastBet != 10 || p.Games != 0 {
		t.Fatalf("new player = %+v", p)
	}

	p.Balance = 140
	p.Wins = 2
	p.Games = 3
	if err := repo.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := repo.GetOrCreate(id, 100, 10)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if again.Balance != 140 || again.Wins != 2 || again.Games != 3 {
		t.Fatalf("reloaded player = %+v", again)
	}
}

func TestRecordRound(t *testing.T) {
	repo := newRepo(t)
	p, err := repo.GetOrCreate("console", 100, 10)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	outcomes := []game.RoundOutcome{
		{Round: 1, Bet: 10, PlayerScore: 20, DealerScore: 18, Winner: game.WinnerPlayer, ChipDelta: 10, Chips: 110},
		{Round: 2, Bet: 20, PlayerScore: 23, DealerScore: 9, Winner: game.WinnerDealer, ChipDelta: -20, Chips: 90},
		{Round: 3, Bet: 30, PlayerScore: 19, DealerScore: 19, Winner: game.WinnerPush, Chips: 90},
	}
	for _, out := range outcomes {
		rd, err := repo.RecordRound(p, out)
		if err != nil {
			t.Fatalf("RecordRound(%d): %v", out.Round, err)
		}
		if rd.ID == "" || rd.Winner != out.Winner.String() {
			t.Fatalf("round = %+v", rd)
		}
	}

	if p.Balance != 90 || p.Wins != 1 || p.Losses != 1 || p.Draws != 1 || p.Games != 3 || p.LastBet != 30 {
		t.Fatalf("player after rounds = %+v", p)
	}

	stored, err := repo.GetOrCreate("console", 0, 0)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if *stored != *p {
		t.Fatalf("stored %+v, in memory %+v", stored, p)
	}

	history, err := repo.History("console", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].Round != 3 || history[1].Round != 2 {
		t.Fatalf("History = %+v", history)
	}
	if history[1].PlayerScore != 23 || history[1].ChipsAfter != 90 {
		t.Errorf("round 2 = %+v", history[1])
	}
}

func TestRecordRoundFailureLeavesPlayer(t *testing.T) {
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	repo := NewRepository(db.DB)

	p, err := repo.GetOrCreate("console", 100, 10)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	before := *p
	db.Close()

	out := game.RoundOutcome{Round: 1, Bet: 20, Winner: game.WinnerPlayer, ChipDelta: 20, Chips: 120}
	if _, err := repo.RecordRound(p, out); err == nil {
		t.Fatal("RecordRound on a closed database should fail")
	}
	if *p != before {
		t.Errorf("player changed by failed RecordRound: %+v, was %+v", p, before)
	}
}

func TestGetTopByBalance(t *testing.T) {
	repo := newRepo(t)

	balances := map[string]int{"a": 50, "b": 300, "c": 120}
	for id, chips := range balances {
		p, err := repo.GetOrCreate(id, 100, 10)
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		if _, err := repo.RecordRound(p, game.RoundOutcome{Round: 1, Bet: 10, Winner: game.WinnerPlayer, Chips: chips}); err != nil {
			t.Fatalf("RecordRound: %v", err)
		}
	}
	if _, err := repo.GetOrCreate("idle", 1000, 10); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	top, err := repo.GetTopByBalance(2)
	if err != nil {
		t.Fatalf("GetTopByBalance: %v", err)
	}
	if len(top) != 2 || top[0].ID != "b" || top[1].ID != "c" {
		t.Fatalf("top = %+v", top)
	}
	if top[0].WinRate != 100 {
		t.Errorf("WinRate = %v", top[0].WinRate)
	}
}

func TestWinRateAndCanAfford(t *testing.T) {
	p := &Player{Balance: 30}
	if p.WinRate() != 0 {
		t.Errorf("WinRate() with no games = %v", p.WinRate())
	}
	p.Record(game.RoundOutcome{Bet: 10, Winner: game.WinnerPlayer, Chips: 40})
	p.Record(game.RoundOutcome{Bet: 10, Winner: game.WinnerDealer, Chips: 30})
	if p.WinRate() != 50 {
		t.Errorf("WinRate() = %v, want 50", p.WinRate())
	}
	if !p.CanAfford(30) || p.CanAfford(31) {
		t.Errorf("CanAfford with balance %d", p.Balance)
	}
}
