package bot

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"consolejack/internal/config"
	"consolejack/internal/game"
	"consolejack/internal/player"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	topSize     = 10
	historySize = 10
)

// sender is the part of the Bot API the handlers talk to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot      sender
	cfg      *config.Config
	players  player.Repository
	sessions *Manager
}

func NewHandler(bot sender, cfg *config.Config, repo player.Repository) *Handler {
	return &Handler{
		bot:      bot,
		cfg:      cfg,
		players:  repo,
		sessions: NewManager(),
	}
}

// ============== ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ ==============

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	h.bot.Request(tgbotapi.NewCallback(id, text))
}

func playerID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (h *Handler) getPlayer(chatID int64) (*player.Player, error) {
	return h.players.GetOrCreate(playerID(chatID), h.cfg.Rules.StartingChips, h.cfg.Rules.MinimumBet)
}

// chatRules carries the ledger balance into a new match. Telegram matches
// have no target: they run until the chat stops or runs out of chips.
func chatRules(base game.Rules, balance int) game.Rules {
	r := base
	r.StartingChips = balance
	r.TargetChips = 0
	return r
}

// lockSession returns the chat's live session with its mutex held, or nil
// when create is false and the chat has none. A session evicted while we
// waited for its lock is skipped.
func (h *Handler) lockSession(chatID int64, create bool) *Session {
	for {
		var s *Session
		if create {
			s = h.sessions.GetOrCreate(chatID)
		} else {
			s = h.sessions.Get(chatID)
		}
		if s == nil {
			return nil
		}

		s.mu.Lock()
		if h.sessions.Get(chatID) == s {
			return s
		}
		s.mu.Unlock()
	}
}

func (h *Handler) newEngine(chatID int64, balance int) (*game.Engine, error) {
	seed := time.Now().UnixNano()
	if h.cfg.Seed != 0 {
		seed = h.cfg.Seed ^ chatID
	}
	return game.New(chatRules(h.cfg.Rules, balance), rand.New(rand.NewSource(seed)))
}

// ============== ФОРМАТИРОВАНИЕ ==============

var suitSymbols = map[string]string{
	"Hearts":   "♥️",
	"Diamonds": "♦️",
	"Clubs":    "♣️",
	"Spades":   "♠️",
}

func formatHand(v game.HandView) string {
	cards := make([]string, 0, len(v.Cards))
	for _, c := range v.Cards {
		cards = append(cards, c.Name+suitSymbols[c.Suit])
	}
	return fmt.Sprintf("[%s] (%d)", strings.Join(cards, ", "), v.Score)
}

func formatGameStatus(t game.Table) string {
	return fmt.Sprintf("🎴 Вы: %s\n🃏 Дилер: %s",
		formatHand(t.Player), formatHand(t.Dealer))
}

func formatResult(out game.RoundOutcome) string {
	switch {
	case out.TurnEnd == game.TurnBust:
		return "💥 Перебор!"
	case out.Winner == game.WinnerPush:
		return "🤝 Ничья!"
	case out.Winner == game.WinnerPlayer && out.Natural:
		return "🎰 BLACKJACK! Вы выиграли!"
	case out.Winner == game.WinnerPlayer && out.DealerScore > game.BlackjackScore:
		return "🎉 У дилера перебор, вы выиграли!"
	case out.Winner == game.WinnerPlayer:
		return "🎉 Вы выиграли!"
	default:
		return "😔 Дилер выиграл!"
	}
}

func formatGameEnd(out game.RoundOutcome) string {
	msg := fmt.Sprintf("🎴 Вы: %s\n🃏 Дилер: %s\n\n%s",
		formatHand(out.PlayerHand), formatHand(out.DealerHand), formatResult(out))

	switch {
	case out.ChipDelta > 0:
		msg += fmt.Sprintf("\n💰 Выигрыш: +%d", out.ChipDelta)
	case out.ChipDelta < 0:
		msg += fmt.Sprintf("\n💸 Проигрыш: %d", out.ChipDelta)
	}
	msg += fmt.Sprintf("\n💵 Баланс: %d", out.Chips)

	return msg
}

func dealerStop(aggressive bool) int {
	if aggressive {
		return game.AggressiveStop
	}
	return game.ConservativeStop
}

func eventNote(ev game.Event) string {
	switch ev.Kind {
	case game.EventDeckEmpty:
		if ev.Seat == game.SeatDealer {
			return "⚠️ Колода закончилась, дилер останавливается"
		}
		return "⚠️ Колода закончилась, вы останавливаетесь"
	case game.EventReshuffle:
		return fmt.Sprintf("🔀 Новая колода: %d карт", ev.Remaining)
	default:
		return ""
	}
}

// withNotes prefixes text with the deck notices gathered since the last
// message and clears them.
func withNotes(s *Session, text string) string {
	if len(s.notes) == 0 {
		return text
	}
	text = strings.Join(s.notes, "\n") + "\n\n" + text
	s.notes = s.notes[:0]
	return text
}

// ============== ОБРАБОТЧИКИ КОМАНД ==============

func (h *Handler) HandleStart(chatID int64) {
	p, err := h.getPlayer(chatID)
	if err != nil {
		h.send(chatID, "❌ Ошибка. Попробуйте позже.")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"🎰 Добро пожаловать в Blackjack!\n\n"+
			"💵 Баланс: %d\n\n"+
			"/play <ставка> — играть\n"+
			"/balance — статистика\n"+
			"/history — последние раздачи\n"+
			"/top — топ игроков\n"+
			"/help — правила",
		p.Balance))
}

func (h *Handler) HandleHelp(chatID int64) {
	h.send(chatID, fmt.Sprintf(
		"📖 Правила Blackjack:\n\n"+
			"🎯 Цель: набрать 21 очко или больше дилера, не перебрав\n\n"+
			"📊 Очки:\n"+
			"• 2-10 — номинал\n"+
			"• J, Q, K — 10\n"+
			"• A — 11 или 1\n\n"+
			"🎮 Действия:\n"+
			"• Hit — взять карту\n"+
			"• Stand — остановиться\n\n"+
			"🃏 Дилер берёт карты, пока у него меньше %d\n"+
			"💰 Выигрыш равен ставке, минимальная ставка %d",
		dealerStop(h.cfg.Rules.AggressiveDealer),
		h.cfg.Rules.MinimumBet))
}

func (h *Handler) HandleBalance(chatID int64) {
	p, err := h.getPlayer(chatID)
	if err != nil {
		h.send(chatID, "❌ Ошибка")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"💰 Баланс: %d\n\n"+
			"📊 Статистика:\n"+
			"🎮 Игр: %d\n"+
			"✅ Побед: %d (%.1f%%)\n"+
			"❌ Поражений: %d\n"+
			"🤝 Ничьих: %d",
		p.Balance, p.Games, p.Wins, p.WinRate(), p.Losses, p.Draws))
}

func (h *Handler) HandleTop(chatID int64) {
	stats, err := h.players.GetTopByBalance(topSize)
	if err != nil {
		h.send(chatID, "❌ Ошибка")
		return
	}

	if len(stats) == 0 {
		h.send(chatID, "🏆 Пока никто не играл!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Топ игроков:\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			medal = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %d 💰 | %d игр (%.0f%%)\n",
			medal, s.Balance, s.Games, s.WinRate))
	}

	h.send(chatID, sb.String())
}

func (h *Handler) HandleHistory(chatID int64) {
	rounds, err := h.players.History(playerID(chatID), historySize)
	if err != nil {
		h.send(chatID, "❌ Ошибка")
		return
	}

	if len(rounds) == 0 {
		h.send(chatID, "📜 Вы ещё не играли")
		return
	}

	h.send(chatID, formatHistory(rounds))
}

func formatHistory(rounds []player.Round) string {
	var sb strings.Builder
	sb.WriteString("📜 Последние раздачи:\n\n")
	for _, rd := range rounds {
		sb.WriteString(fmt.Sprintf("#%d ставка %d: %d против %d, %s → %d 💰\n",
			rd.Round, rd.Bet, rd.PlayerScore, rd.DealerScore, rd.Winner, rd.ChipsAfter))
	}
	return sb.String()
}

// parseBet reads the /play argument, falling back to the last bet.
func parseBet(args []string, lastBet int) (int, bool) {
	if len(args) == 0 {
		return lastBet, true
	}
	b, err := strconv.Atoi(args[0])
	if err != nil || b <= 0 {
		return 0, false
	}
	return b, true
}

// HandlePlay starts a round. The player is read under the session lock so
// the balance always reflects the last settled round.
func (h *Handler) HandlePlay(chatID int64, args []string) {
	s := h.lockSession(chatID, true)
	defer s.mu.Unlock()

	p, err := h.getPlayer(chatID)
	if err != nil {
		h.send(chatID, "❌ Ошибка")
		return
	}

	minBet := h.cfg.Rules.MinimumBet
	if p.Balance < minBet {
		h.sessions.Delete(chatID)
		h.send(chatID, fmt.Sprintf("❌ Фишки закончились! Баланс: %d, минимальная ставка %d", p.Balance, minBet))
		return
	}

	bet, ok := parseBet(args, p.LastBet)
	if !ok {
		h.send(chatID, fmt.Sprintf("❌ Неверная ставка. Пример: /play %d", minBet))
		return
	}
	if bet < minBet || !p.CanAfford(bet) {
		h.send(chatID, fmt.Sprintf("❌ Ставка от %d до %d", minBet, p.Balance))
		return
	}

	if err := h.prepare(chatID, s, p.Balance); err != nil {
		log.Printf("Failed to prepare game for chat %d: %v", chatID, err)
		h.send(chatID, "❌ Ошибка")
		return
	}
	if s.engine.Phase() == game.PhasePlayerTurn {
		h.send(chatID, "🎲 Сначала закончите текущую раздачу")
		return
	}

	if err := s.engine.StartRound(bet); err != nil {
		log.Printf("Failed to start round for chat %d: %v", chatID, err)
		h.send(chatID, "❌ Ошибка")
		return
	}

	if s.engine.Phase() != game.PhasePlayerTurn {
		h.finish(chatID, s, p)
		return
	}

	h.sendWithKeyboard(chatID,
		withNotes(s, fmt.Sprintf("💰 Ставка: %d | Баланс: %d\n\n%s",
			bet, p.Balance, formatGameStatus(s.engine.Table()))),
		GameKeyboard())
}

// prepare leaves s ready for StartRound or mid-round. A chat gets a fresh
// engine on first play, after a finished match, or when its balance moved
// outside this session.
func (h *Handler) prepare(chatID int64, s *Session, balance int) error {
	if s.engine != nil {
		switch s.engine.Phase() {
		case game.PhasePlayerTurn:
			return nil
		case game.PhaseRoundOver:
			if s.engine.Chips() == balance {
				return s.engine.NextRound()
			}
		case game.PhaseDealing:
			if s.engine.Chips() == balance {
				return nil
			}
		}
	}

	engine, err := h.newEngine(chatID, balance)
	if err != nil {
		return err
	}
	engine.Observe(func(ev game.Event) {
		if note := eventNote(ev); note != "" {
			s.notes = append(s.notes, note)
		}
	})
	s.engine = engine
	s.notes = nil
	return nil
}

// finish records the resolved round and shows the result. A finished match
// drops the chat's session; the caller must hold s.mu.
func (h *Handler) finish(chatID int64, s *Session, p *player.Player) {
	out, ok := s.engine.Outcome()
	if !ok {
		return
	}

	if _, err := h.players.RecordRound(p, out); err != nil {
		log.Printf("Failed to record round: %v", err)
	}

	h.sendWithKeyboard(chatID, withNotes(s, formatGameEnd(out)), EndGameKeyboard(out.Bet))

	if out.MatchOver {
		h.sessions.Delete(chatID)
	}
}

// ============== ОБРАБОТЧИКИ CALLBACK ==============

func (h *Handler) HandleCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch data {
	case CallbackPlayAgain:
		h.answerCallback(callback.ID, "")
		h.HandlePlay(chatID, nil)
		return

	case CallbackBalance:
		p, err := h.getPlayer(chatID)
		if err != nil {
			h.answerCallback(callback.ID, "Ошибка")
			return
		}
		h.answerCallback(callback.ID, fmt.Sprintf("💵 %d", p.Balance))
		return
	}

	s := h.lockSession(chatID, false)
	if s == nil {
		h.answerCallback(callback.ID, "Игра не активна")
		return
	}
	defer s.mu.Unlock()

	if s.engine == nil || s.engine.Phase() != game.PhasePlayerTurn {
		h.answerCallback(callback.ID, "Игра не активна")
		return
	}

	p, err := h.getPlayer(chatID)
	if err != nil {
		h.answerCallback(callback.ID, "Ошибка")
		return
	}

	switch data {
	case CallbackHit:
		h.handleHit(chatID, s, p)
	case CallbackStand:
		h.handleStand(chatID, s, p)
	}

	h.answerCallback(callback.ID, "")
}

func (h *Handler) handleHit(chatID int64, s *Session, p *player.Player) {
	if _, _, err := s.engine.Hit(); err != nil {
		log.Printf("Hit failed for chat %d: %v", chatID, err)
		return
	}

	if s.engine.Phase() != game.PhasePlayerTurn {
		h.finish(chatID, s, p)
		return
	}

	h.sendWithKeyboard(chatID, withNotes(s, formatGameStatus(s.engine.Table())), GameKeyboard())
}

func (h *Handler) handleStand(chatID int64, s *Session, p *player.Player) {
	if err := s.engine.Stand(); err != nil {
		log.Printf("Stand failed for chat %d: %v", chatID, err)
		return
	}
	h.finish(chatID, s, p)
}

// ============== ОБРАБОТЧИК СООБЩЕНИЙ ==============

func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := msg.Text
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch {
	case cmd == "/start":
		h.HandleStart(chatID)
	case cmd == "/help":
		h.HandleHelp(chatID)
	case cmd == "/play":
		h.HandlePlay(chatID, args)
	case cmd == "/balance":
		h.HandleBalance(chatID)
	case cmd == "/history":
		h.HandleHistory(chatID)
	case cmd == "/top":
		h.HandleTop(chatID)
	}
}
