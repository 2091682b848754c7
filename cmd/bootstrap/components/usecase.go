package components

import (
	"time"

	"salon-booking/internal/domain/order"
	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/domain/slot"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/metrics"
	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	slot.NewEngine,
	func(clk clock.Clock, cfg config.Config) *reservation.Manager {
		return reservation.NewManager(clk, cfg.Booking.HoldTimeout)
	},
	func(cfg config.Config) order.Policy {
		return order.Policy{FreeShippingThresholdCents: cfg.Shop.FreeShippingThreshold}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewHoldUseCase,
		commands.NewCartUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewAvailabilityQueries,
	),
)

func NewAvailabilityQueries(
	uow shared.UnitOfWork,
	holds shared.HoldStore,
	engine *slot.Engine,
	clk clock.Clock,
	loc *time.Location,
	cfg config.Config,
	m *metrics.BookingMetrics,
) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(uow, holds, engine, clk, loc, cfg.Booking.MaxRangeDays, m)
}
