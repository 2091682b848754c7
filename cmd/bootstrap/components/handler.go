package components

import (
	"salon-booking/internal/handler"
	"salon-booking/internal/handler/api"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSessionHandler,
		api.NewAvailabilityHandler,
		api.NewHoldHandler,
		api.NewCartHandler,
		middleware.NewSessionMiddleware,
		NewHoldRateLimiter,
		NewHandlers,
		NewMiddlewares,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHoldRateLimiter(cfg config.Config) *middleware.HoldRateLimiter {
	return middleware.NewHoldRateLimiter(cfg.Booking.HoldRatePerMin, cfg.Booking.HoldBurst)
}

func NewHandlers(
	session *api.SessionHandler,
	availability *api.AvailabilityHandler,
	hold *api.HoldHandler,
	cart *api.CartHandler,
) handler.Handlers {
	return handler.Handlers{
		Session:      session,
		Availability: availability,
		Hold:         hold,
		Cart:         cart,
	}
}

func NewMiddlewares(
	session *middleware.SessionMiddleware,
	holdRate *middleware.HoldRateLimiter,
	m *metrics.BookingMetrics,
	gatherer prometheus.Gatherer,
) handler.Middlewares {
	return handler.Middlewares{
		Session:  session,
		HoldRate: holdRate,
		Metrics:  m,
		Gatherer: gatherer,
	}
}
