package components

import (
	"time"

	"salon-booking/internal/infra/cartstore"
	"salon-booking/internal/infra/catalog"
	"salon-booking/internal/infra/holdstore"
	"salon-booking/internal/infra/uow"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	repositoryModule,
	redisStoreModule,
	catalogModule,
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			NewUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

var redisStoreModule = fx.Module("persistence/redis",
	fx.Provide(
		fx.Annotate(
			NewHoldStore,
			fx.As(new(shared.HoldStore)),
		),
		fx.Annotate(
			NewCartStore,
			fx.As(new(shared.CartStore)),
		),
	),
)

var catalogModule = fx.Module("persistence/catalog",
	fx.Provide(
		fx.Annotate(
			NewShippingCatalog,
			fx.As(new(shared.ShippingCatalog)),
		),
	),
)

func NewUnitOfWork(pool *pgxpool.Pool, loc *time.Location, cfg config.Config) *uow.PostgresUoW {
	return uow.NewPostgresUoW(pool, loc, cfg.Booking.ConfirmRetries)
}

func NewHoldStore(client *redis.Client, cfg config.Config) *holdstore.RedisHoldStore {
	return holdstore.NewRedisHoldStore(client, cfg.Redis.KeyPrefix)
}

func NewCartStore(client *redis.Client, cfg config.Config) *cartstore.RedisCartStore {
	return cartstore.NewRedisCartStore(client, cfg.Redis.KeyPrefix, cfg.Shop.CartTTL)
}

func NewShippingCatalog(cfg config.Config) (*catalog.ShippingCatalog, error) {
	return catalog.LoadShippingCatalog(cfg.Shop.ShippingCatalogPath)
}
