package main

import (
	"context"
	"net/http"
	"time"

	allocationapp "github.com/Qguillot-pro/barstock-pro/application/allocation"
	ordersapp "github.com/Qguillot-pro/barstock-pro/application/orders"
	"github.com/Qguillot-pro/barstock-pro/application/priority"
	restockapp "github.com/Qguillot-pro/barstock-pro/application/restock"
	shelflifeapp "github.com/Qguillot-pro/barstock-pro/application/shelflife"
	"github.com/Qguillot-pro/barstock-pro/cmd/config"
	redisclient "github.com/Qguillot-pro/barstock-pro/cmd/redis"
	catalogRepo "github.com/Qguillot-pro/barstock-pro/repository/catalog"
	"github.com/Qguillot-pro/barstock-pro/repository/outbox"
	persistenceRepo "github.com/Qguillot-pro/barstock-pro/repository/persistence"
	redisRepo "github.com/Qguillot-pro/barstock-pro/repository/redis"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/Qguillot-pro/barstock-pro/thirdparty/rabbitmq"
	"github.com/Qguillot-pro/barstock-pro/transport"
	"github.com/Qguillot-pro/barstock-pro/utils/logger"
	validatorx "github.com/Qguillot-pro/barstock-pro/utils/validator"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// @title BARSTOCK PRO API
// @version 1.0
// @description Inventory allocation and replenishment engine API
// @host localhost:8080
// @BasePath /
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	validatorx.Init()

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Initialize Redis client. The snapshot cache is a fallback, not a hard
	// dependency, so a failure here only degrades startup behavior.
	if err := redisclient.New(cfg); err != nil {
		logger.Warn("err connect redis, snapshot cache disabled", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Initialize repositories
	CatalogRepo := catalogRepo.NewCatalogRepository(db)
	PersistenceRepo := persistenceRepo.NewPersistenceRepository(db)
	RedisRepo := redisRepo.NewRepository()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the working snapshot, preferring the database and falling back to
	// the last cached copy in Redis.
	snap, err := CatalogRepo.LoadSnapshot(ctx)
	if err != nil {
		logger.Error("err load snapshot from db, trying redis cache", zap.Error(err))
		cached, found, cacheErr := RedisRepo.LoadSnapshot(ctx)
		if cacheErr != nil || !found {
			logger.Fatal("no usable snapshot", zap.Error(cacheErr))
		}
		snap = cached
	}

	st := store.New(cfg.Engine.OverflowLocationID)
	st.Load(snap)

	// Start the async persistence worker
	ob := outbox.New(PersistenceRepo)
	ob.Start(ctx)
	defer ob.Wait()

	// Shortage alerts are optional; the engine runs without a broker.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
		if err != nil {
			logger.Warn("err connect rabbitmq, alerts disabled", zap.Error(err))
			publisher = nil
		} else {
			defer func() {
				_ = publisher.Close()
			}()
		}
	}

	// Initialize application layers
	resolver := priority.NewResolver(st)
	Tracker := shelflifeapp.NewTracker(st, ob)
	AllocationApp := allocationapp.NewAllocationApp(st, resolver, Tracker, ob, publisher)
	OrderApp := ordersapp.NewOrderApp(st, ob)
	RestockApp := restockapp.NewRestockApp(st, resolver, AllocationApp, OrderApp)

	// Periodically refresh the Redis snapshot cache
	go func() {
		ticker := time.NewTicker(cfg.Engine.SnapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := RedisRepo.SaveSnapshot(ctx, st.Snapshot()); err != nil {
					logger.Warn("err save snapshot cache", zap.Error(err))
				}
			}
		}
	}()

	httpTransport := transport.NewTransport(st, AllocationApp, OrderApp, RestockApp, Tracker)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
