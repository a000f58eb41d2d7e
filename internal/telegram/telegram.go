// Package telegram connects the chat controller to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/mikhailyemets/todoplash/internal/bot"
)

// Handler answers one chat message.
type Handler interface {
	Handle(ctx context.Context, msg bot.Message) bot.Reply
}

// Bot is a long-polling Telegram front-end.
type Bot struct {
	tb      *tele.Bot
	handler Handler
	menu    *tele.ReplyMarkup
	logger  *slog.Logger
	base    context.Context
}

type options struct {
	pollTimeout time.Duration
	apiURL      string
	offline     bool
	logger      *slog.Logger
}

// Option configures a Bot.
type Option func(*options)

// WithPollTimeout sets the long-poll timeout.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollTimeout = d
		}
	}
}

// WithAPIURL points the bot at a different Bot API server.
func WithAPIURL(u string) Option {
	return func(o *options) { o.apiURL = u }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates the bot and registers its handlers.
func New(token string, h Handler, opts ...Option) (*Bot, error) {
	if token == "" {
		return nil, errors.New("telegram: empty token")
	}
	o := options{pollTimeout: 10 * time.Second, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bot{
		handler: h,
		menu:    Menu(),
		logger:  o.logger,
		base:    context.Background(),
	}

	tb, err := tele.NewBot(tele.Settings{
		URL:         o.apiURL,
		Token:       token,
		Poller:      &tele.LongPoller{Timeout: o.pollTimeout},
		Offline:     o.offline,
		// Updates are dispatched one at a time so each user's messages
		// reach the controller in arrival order.
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			attrs := []any{"error", err}
			if c != nil && c.Sender() != nil {
				attrs = append(attrs, "user_id", c.Sender().ID)
			}
			b.logger.Error("Telegram handler failed", attrs...)
		},
	})
	if err != nil {
		return nil, err
	}
	b.tb = tb

	tb.Handle(bot.CommandStart, b.onText)
	tb.Handle(bot.CommandCancel, b.onText)
	tb.Handle(tele.OnText, b.onText)

	return b, nil
}

// Menu builds the main reply keyboard.
func Menu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(bot.MenuRows))
	for _, labels := range bot.MenuRows {
		buttons := make([]tele.Btn, len(labels))
		for i, label := range labels {
			buttons[i] = menu.Text(label)
		}
		rows = append(rows, menu.Row(buttons...))
	}
	menu.Reply(rows...)
	return menu
}

func (b *Bot) onText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	msg := bot.Message{
		UserID: strconv.FormatInt(sender.ID, 10),
		Text:   c.Text(),
	}
	reply := b.handler.Handle(b.base, msg)
	if reply.Text == "" {
		return nil
	}
	if reply.Menu {
		return c.Send(reply.Text, b.menu)
	}
	return c.Send(reply.Text)
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.base = ctx
	b.logger.Info("Telegram bot started", "username", b.tb.Me.Username)

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.tb.Start()
	}()

	<-ctx.Done()
	b.tb.Stop()
	<-done
	b.logger.Info("Telegram bot stopped")
	return nil
}
