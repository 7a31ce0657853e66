package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/tuskcmd/pkg/log"
)

type TelegramConfig struct {
	Token   string `env:"TUSK_TELEGRAM_TOKEN,required,notEmpty"`
	OwnerID int64  `env:"TUSK_TELEGRAM_OWNER_ID,required"`

	// Commands per second allowed for a single user, and the burst on top.
	Rate  float64 `env:"TUSK_TELEGRAM_RATE" envDefault:"1"`
	Burst int     `env:"TUSK_TELEGRAM_BURST" envDefault:"5"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) GetTelegramToken() string {
	return c.Token
}

func (c TelegramConfig) GetTelegramOwnerID() int64 {
	return c.OwnerID
}

func (c TelegramConfig) GetTelegramRate() float64 {
	return c.Rate
}

func (c TelegramConfig) GetTelegramBurst() int {
	return c.Burst
}
