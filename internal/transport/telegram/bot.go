package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	cfg     core.TelegramConfig
	router  core.CmdRouter
	perms   core.Permissions
	limiter *limiter
	sender  *sender
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	router core.CmdRouter,
	perms core.Permissions,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		router:  router,
		perms:   perms,
		limiter: newLimiter(cfg.GetTelegramRate(), cfg.GetTelegramBurst()),
		sender:  newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: drop anonymous updates and users over their rate
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil {
				return nil
			}
			if !bot.limiter.Allow(c.Sender().ID) {
				log.FromCtx(ctx).Debug().Int64("user", c.Sender().ID).Msg("rate limited")
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx).With().Int64("user", c.Sender().ID).Logger()
	ctx = logger.WithContext(ctx)

	u := newUser(ctx, c.Sender().ID, c.Sender().Username, b.cfg.GetTelegramOwnerID(), b.perms)
	handled, ok := b.router.Execute(ctx, u, c.Text())
	if !ok {
		return nil
	}
	logger.Debug().Bool("handled", handled).Str("text", c.Text()).Msg("telegram command")

	return b.sender.sendLines(ctx, c.Chat(), u.replies())
}
