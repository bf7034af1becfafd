package registrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sdc-club/backend/config"
	"github.com/sdc-club/backend/pkg/database"
	"github.com/sdc-club/backend/pkg/mongodb"
)

// Open connects the store selected by cfg.Store.Driver. The returned func releases its connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory registration store; data is lost on restart")
		return NewMemoryStore(), func() {}, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo.URI, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		store, err := NewMongoStore(ctx, client.Database(cfg.Mongo.Database))
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		return store, closeFn, nil

	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return NewRepository(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
