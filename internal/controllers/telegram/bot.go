package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/metrics"
	"voice-order-service/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot takes orders over Telegram chat. Each chat is one conversation kept
// in the session store between messages.
type Bot struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	engine  *dialogue.Engine
	store   session.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewBot(token string, engine *dialogue.Engine, store session.Store, mt *metrics.Metrics, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	b := newBot(api, engine, store, mt, logger)
	b.api = api
	return b, nil
}

func newBot(sender Sender, engine *dialogue.Engine, store session.Store, mt *metrics.Metrics, logger *zap.Logger) *Bot {
	return &Bot{
		sender:  sender,
		engine:  engine,
		store:   store,
		metrics: mt,
		logger:  logger,
	}
}

// Run long-polls for updates until ctx is cancelled. Messages are handled
// one at a time, which keeps every chat's turns in order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message.Chat.ID, update.Message.Text)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, chatID int64, text string) {
	key := "tg:" + strconv.FormatInt(chatID, 10)

	if strings.HasPrefix(text, "/start") {
		if err := b.store.Delete(ctx, key); err != nil {
			b.logger.Warn("failed to reset session", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		b.reply(chatID, b.engine.Greeting())
		return
	}

	conv, err := b.store.Get(ctx, key)
	if err != nil {
		b.logger.Warn("failed to load session, starting fresh", zap.Int64("chat_id", chatID), zap.Error(err))
		conv = session.Conversation{}
	}

	start := time.Now()
	res := b.engine.Turn(ctx, strings.TrimPrefix(text, "/"), conv.State, conv.Step)
	b.metrics.ObserveTurn("telegram", res.Step.String(), len(res.Unrecognized), time.Since(start))

	if res.State == nil || res.Step == dialogue.StepDone {
		err = b.store.Delete(ctx, key)
	} else {
		err = b.store.Save(ctx, key, session.Conversation{State: res.State, Step: res.Step})
	}
	if err != nil {
		b.logger.Warn("failed to store session", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	b.reply(chatID, res.Reply)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
