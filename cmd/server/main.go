package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restopos-be/internal/api"
	"restopos-be/internal/cart"
	"restopos-be/internal/config"
	"restopos-be/internal/db"
	"restopos-be/internal/events"
	"restopos-be/internal/lock"
	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"
	"restopos-be/internal/product"
	"restopos-be/internal/restaurant"
	"restopos-be/internal/staff"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := initDBFunc(cfg)
	defer database.Close()

	handler, cleanup := newServer(ctx, cfg, database)
	defer cleanup()

	logger.L().Info("POS server starting", zap.String("port", cfg.AppPort))
	return startServerFunc(ctx, ":"+cfg.AppPort, handler)
}

// newServer wires repositories, services and the optional redis and kafka
// backends. cleanup releases whatever was opened.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, func()) {
	var closers []func()

	locker := lock.Locker(lock.Noop{})
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		closers = append(closers, func() { _ = client.Close() })
		locker = lock.NewRedis(client)
	}

	hub := events.NewHub()
	go hub.Run(ctx)

	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.L().Warn("kafka disabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.Error(err))
		} else {
			closers = append(closers, func() { _ = producer.Close() })
			publishers = append(publishers, producer)
		}
	}

	stats := &metrics.CartLifecycle{}

	productSvc := product.NewService(product.NewRepository(database))
	restaurantSvc := restaurant.NewService(restaurant.NewRepository(database))
	staffSvc := staff.NewService(staff.NewRepository(database))
	cartSvc := cart.NewService(
		cart.NewRepository(database),
		productSvc,
		restaurantSvc,
		locker,
		publishers,
		stats,
	)

	h := api.NewHandler(cartSvc, productSvc, restaurantSvc, staffSvc, publishers)
	router := setupRouter(h, hub, stats, cfg)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return router, cleanup
}

func setupRouter(h *api.Handler, hub *events.Hub, stats *metrics.CartLifecycle, cfg *config.Config) http.Handler {
	engine := api.NewRouter(h, hub, stats, api.RouterConfig{
		CORSOrigins:  cfg.CORSOrigins,
		AuthRequired: cfg.AuthRequired,
	})
	return api.Wrap(engine)
}

func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
