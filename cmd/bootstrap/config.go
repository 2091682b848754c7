package bootstrap

import (
	"time"

	"salon-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewLocation,
	),
)

// NewLocation provides the salon timezone used for every wall-clock resolution.
func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
