// Package telegram adapts the Telegram Bot API to the command router: it
// long-polls for updates, parses slash commands and delivers replies.
package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/useglowbot/glowbot/bot"
)

// Handler dispatches one parsed command and produces the reply.
type Handler interface {
	Handle(ctx context.Context, cmd bot.Command) bot.Reply
}

// Transport is the long-polling Telegram adapter. It also implements
// bot.Sender so the tip scheduler can broadcast through the same connection.
type Transport struct {
	api     *tgbotapi.BotAPI
	handler Handler
	logger  *slog.Logger
}

// New authenticates against the Telegram API with the given token.
func New(token string, handler Handler) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "connect to telegram")
	}

	return &Transport{
		api:     api,
		handler: handler,
		logger:  slog.Default(),
	}, nil
}

// Run long-polls for updates until the context is cancelled. Every command
// is handled on its own goroutine, so one slow catalog call never stalls
// the other users.
func (t *Transport) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := t.api.GetUpdatesChan(updateConfig)

	t.logger.Info("telegram transport started", "bot", t.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			cmd, ok := commandFromMessage(update.Message)
			if !ok {
				continue
			}
			go t.dispatch(ctx, cmd)
		}
	}
}

// commandFromMessage parses a Telegram message into a bot command. Plain
// text without a leading slash command is ignored.
func commandFromMessage(message *tgbotapi.Message) (bot.Command, bool) {
	if message == nil || !message.IsCommand() {
		return bot.Command{}, false
	}

	return bot.Command{
		UserID: strconv.FormatInt(message.Chat.ID, 10),
		Name:   message.Command(),
		Args:   strings.Fields(message.CommandArguments()),
	}, true
}

func (t *Transport) dispatch(ctx context.Context, cmd bot.Command) {
	reply := t.handler.Handle(ctx, cmd)
	if err := t.deliver(ctx, cmd.UserID, reply); err != nil {
		t.logger.Error("failed to deliver reply", "user", cmd.UserID, "command", cmd.Name, "error", err)
	}
}

func (t *Transport) deliver(ctx context.Context, userID string, reply bot.Reply) error {
	if reply.ImageURL != "" {
		return t.SendPhoto(ctx, userID, reply.ImageURL, reply.Text)
	}
	return t.SendMessage(ctx, userID, reply.Text)
}

// SendMessage implements bot.Sender.
func (t *Transport) SendMessage(ctx context.Context, userID string, text string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid chat id %q", userID)
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return errors.Wrapf(err, "send message to %s", userID)
	}
	return nil
}

// SendPhoto implements bot.Sender.
func (t *Transport) SendPhoto(ctx context.Context, userID string, photoURL string, caption string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid chat id %q", userID)
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption
	if _, err := t.api.Send(photo); err != nil {
		return errors.Wrapf(err, "send photo to %s", userID)
	}
	return nil
}
