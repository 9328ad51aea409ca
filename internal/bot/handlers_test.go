package bot

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"consolejack/internal/config"
	"consolejack/internal/database"
	"consolejack/internal/game"
	"consolejack/internal/player"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

func newTestHandler(t *testing.T, rules game.Rules) (*Handler, *fakeSender, *player.SQLiteRepository) {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := player.NewRepository(db.DB)

	cfg := &config.Config{Difficulty: "normal", Seed: 42, Rules: rules}
	fs := &fakeSender{}
	return NewHandler(fs, cfg, repo), fs, repo
}

func callback(chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}
}

// findChat plays a 10-chip opening deal on successive chats and returns the
// first one whose deal leaves the player deciding (or not, per deciding).
func findChat(t *testing.T, h *Handler, deciding bool) int64 {
	t.Helper()
	for chatID := int64(1); chatID <= 500; chatID++ {
		h.HandlePlay(chatID, []string{"10"})
		s := h.sessions.Get(chatID)
		if s == nil || s.engine == nil {
			continue
		}
		if (s.engine.Phase() == game.PhasePlayerTurn) == deciding {
			return chatID
		}
	}
	t.Fatalf("no chat found with deciding=%v", deciding)
	return 0
}

// settle plays one 10-chip round on chatID, standing on the opening hand.
func settle(h *Handler, chatID int64) {
	h.HandlePlay(chatID, []string{"10"})
	if s := h.sessions.Get(chatID); s != nil && s.engine != nil && s.engine.Phase() == game.PhasePlayerTurn {
		h.HandleCallback(callback(chatID, CallbackStand))
	}
}

func loadPlayer(t *testing.T, repo *player.SQLiteRepository, chatID int64) *player.Player {
	t.Helper()
	p, err := repo.GetOrCreate(playerID(chatID), 0, 0)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	return p
}

func TestPlayStandAndNextRound(t *testing.T) {
	h, fs, repo := newTestHandler(t, game.DefaultRules())

	chatID := findChat(t, h, true)
	engine := h.sessions.Get(chatID).engine

	h.HandlePlay(chatID, []string{"10"})
	if !strings.Contains(fs.last(), "Сначала закончите") {
		t.Errorf("second /play mid-round = %q", fs.last())
	}
	if engine.Round() != 1 || engine.Phase() != game.PhasePlayerTurn {
		t.Fatalf("round %d in %v after refused /play", engine.Round(), engine.Phase())
	}

	h.HandleCallback(callback(chatID, CallbackStand))
	if engine.Phase() != game.PhaseRoundOver {
		t.Fatalf("phase after stand = %v", engine.Phase())
	}

	p := loadPlayer(t, repo, chatID)
	if p.Games != 1 || p.Balance != engine.Chips() || p.LastBet != 10 {
		t.Errorf("ledger player = %+v, engine chips %d", p, engine.Chips())
	}
	if !strings.Contains(fs.last(), "Баланс: "+strconv.Itoa(engine.Chips())) {
		t.Errorf("result message = %q", fs.last())
	}

	h.HandleCallback(callback(chatID, CallbackPlayAgain))
	if got := h.sessions.Get(chatID).engine; got != engine {
		t.Fatal("settled round replaced the engine")
	}
	if engine.Round() != 2 {
		t.Errorf("Round() = %d after play again, want 2", engine.Round())
	}
}

func TestRoundEndingOnTheDealIsRecorded(t *testing.T) {
	h, fs, repo := newTestHandler(t, game.DefaultRules())

	chatID := findChat(t, h, false)

	history, err := repo.History(playerID(chatID), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].PlayerScore != game.BlackjackScore {
		t.Fatalf("History = %+v", history)
	}
	if !strings.Contains(fs.last(), "Баланс") {
		t.Errorf("result message = %q", fs.last())
	}
}

func TestPrepareReusesOrRebuilds(t *testing.T) {
	h, _, _ := newTestHandler(t, game.DefaultRules())

	s := &Session{notes: []string{"stale"}}
	if err := h.prepare(1, s, 100); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if s.engine == nil || s.engine.Chips() != 100 || s.notes != nil {
		t.Fatalf("fresh session: engine %v, notes %v", s.engine, s.notes)
	}

	first := s.engine
	if err := first.StartRound(20); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if first.Phase() == game.PhasePlayerTurn {
		if err := h.prepare(1, s, 100); err != nil || s.engine != first {
			t.Fatalf("prepare mid-round replaced the engine (err %v)", err)
		}
		if err := first.Stand(); err != nil {
			t.Fatalf("Stand: %v", err)
		}
	}

	if err := h.prepare(1, s, first.Chips()); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if s.engine != first || first.Phase() != game.PhaseDealing {
		t.Fatalf("matching balance should reuse the engine, phase %v", first.Phase())
	}

	if err := h.prepare(1, s, first.Chips()+5); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if s.engine == first || s.engine.Chips() != first.Chips()+5 {
		t.Errorf("balance changed elsewhere should rebuild the engine")
	}
}

func TestConcurrentPlaysKeepLedgerConsistent(t *testing.T) {
	h, _, repo := newTestHandler(t, game.DefaultRules())
	const chatID = 7

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.HandleCallback(callback(chatID, CallbackPlayAgain))
		}()
		go func() {
			defer wg.Done()
			h.HandleCallback(callback(chatID, CallbackStand))
		}()
	}
	wg.Wait()
	settle(h, chatID)

	p := loadPlayer(t, repo, chatID)
	history, err := repo.History(playerID(chatID), 1000)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if p.Games != len(history) {
		t.Fatalf("Games = %d, %d rounds recorded", p.Games, len(history))
	}

	balance := h.cfg.Rules.StartingChips
	for _, rd := range history {
		switch rd.Winner {
		case game.WinnerPlayer.String():
			balance += rd.Bet
		case game.WinnerDealer.String():
			balance -= rd.Bet
		}
	}
	if p.Balance != balance {
		t.Errorf("ledger balance %d, recorded rounds add up to %d", p.Balance, balance)
	}
	if s := h.sessions.Get(chatID); s != nil && s.engine != nil && s.engine.Chips() != p.Balance {
		t.Errorf("engine chips %d, ledger balance %d", s.engine.Chips(), p.Balance)
	}
}

func TestMatchOverDropsSession(t *testing.T) {
	rules := game.DefaultRules()
	rules.StartingChips = 10
	h, fs, repo := newTestHandler(t, rules)

	for chatID := int64(1); chatID <= 200; chatID++ {
		settle(h, chatID)
		if loadPlayer(t, repo, chatID).Balance != 0 {
			continue
		}

		if h.sessions.Get(chatID) != nil {
			t.Fatal("session kept after the match ended")
		}
		h.HandlePlay(chatID, []string{"10"})
		if !strings.Contains(fs.last(), "Фишки закончились") {
			t.Errorf("/play with no chips = %q", fs.last())
		}
		if h.sessions.Get(chatID) != nil {
			t.Error("refused /play left a session behind")
		}
		return
	}
	t.Fatal("no chat lost its first round")
}

func TestCallbackWithoutGame(t *testing.T) {
	h, fs, _ := newTestHandler(t, game.DefaultRules())

	h.HandleCallback(callback(3, CallbackHit))
	if len(fs.sent) != 0 || h.sessions.Get(3) != nil {
		t.Errorf("hit with no game sent %v", fs.sent)
	}
}
