package bootstrap

import (
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/session"

	"go.uber.org/fx"
)

var SessionModule = fx.Module("session",
	fx.Provide(
		NewSessionService,
	),
)

func NewSessionService(cfg config.Config, clk clock.Clock) *session.Service {
	return session.NewService(cfg.Session.Secret, cfg.Session.Duration, clk)
}
