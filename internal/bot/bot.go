package bot

import (
	"context"
	"log"

	"consolejack/internal/config"
	"consolejack/internal/player"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTimeout = 60

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
}

func New(cfg *config.Config, repo player.Repository) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:     api,
		handler: NewHandler(api, cfg, repo),
	}, nil
}

// Run dispatches updates until ctx is cancelled. Each update is handled on
// its own goroutine; per-chat sessions serialize the game itself.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("Bot started: @%s (%s mode)", b.api.Self.UserName, b.handler.cfg.Difficulty)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(update)
		}
	}
}

func (b *Bot) dispatch(update tgbotapi.Update) {
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		go b.handler.HandleCallback(update.CallbackQuery)
		return
	}

	if update.Message != nil {
		go b.handler.HandleMessage(update.Message)
	}
}
