package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/vending-machine/internal/clock"
	"github.com/rogerio-castellano/vending-machine/internal/config"
	"github.com/rogerio-castellano/vending-machine/internal/cooldown"
	"github.com/rogerio-castellano/vending-machine/internal/db"
	"github.com/rogerio-castellano/vending-machine/internal/history"
	"github.com/rogerio-castellano/vending-machine/internal/http/handlers"
	rl "github.com/rogerio-castellano/vending-machine/internal/http/rate_limiter"
	"github.com/rogerio-castellano/vending-machine/internal/http/router"
	"github.com/rogerio-castellano/vending-machine/internal/obs"
	"github.com/rogerio-castellano/vending-machine/internal/purchase"
	"github.com/rogerio-castellano/vending-machine/internal/redissvc"
	"github.com/rogerio-castellano/vending-machine/internal/repo"
)

type stores struct {
	products  repo.ProductRepository
	purchases repo.PurchaseRepository
	metrics   repo.MetricsRepository
	close     func() error
}

// @title Vending Machine API
// @version 1.0
// @description REST API for browsing products, buying them and reviewing purchase history.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	obs.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		obs.Logger.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := obs.InitTelemetry(ctx, obs.TelemetryConfig{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("could not initialize telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			obs.Logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	if cfg.Seed {
		n, err := db.Seed(ctx, st.products, db.DefaultCatalog)
		if err != nil {
			return fmt.Errorf("could not seed catalog: %w", err)
		}
		if n > 0 {
			obs.Logger.Info("seeded product catalog", "products", n)
		}
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("could not connect to Redis: %w", err)
		}
		defer rdb.Close()

		redisService := redissvc.NewRedisService(rdb, cfg.CacheTTL)
		st.products = repo.NewCachedProductRepository(st.products, redisService)
		st.purchases = repo.NewInvalidatingPurchaseRepository(st.purchases, redisService)
		handlers.SetHealthCheck("redis", redisService)
		obs.Logger.Info("catalog cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	clk := clock.Real{}
	handlers.SetProductRepo(st.products)
	handlers.SetMetricsRepo(st.metrics)
	handlers.SetPurchaseEngine(purchase.NewEngine(purchase.Config{
		Products:  st.products,
		Purchases: st.purchases,
		Cooldown:  cooldown.NewTracker(cfg.Cooldown, clk),
		Dispenser: purchase.TimerDispenser{Delay: cfg.ProcessingDelay},
		Clock:     clk,
		LockKey:   cfg.LockKey,
		MachineID: cfg.MachineID,
	}))
	handlers.SetHistoryEngine(history.NewEngine(st.purchases, clk))

	visitors := rl.NewVisitors(cfg.RequestsPerSecond, cfg.Burst)
	go visitors.StartCleanupLoop(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(visitors),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.ProcessingDelay + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		obs.Logger.Info("server running",
			"addr", cfg.HTTPAddr,
			"store", cfg.StoreDriver,
			"machine_id", cfg.MachineID,
			"cooldown", cfg.Cooldown,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	obs.Logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		if err := db.Migrate(ctx, database); err != nil {
			database.Close()
			return nil, fmt.Errorf("could not migrate database: %w", err)
		}
		handlers.SetHealthCheck("postgres", handlers.PingFunc(database.PingContext))
		return postgresStores(database), nil

	default:
		products := repo.NewInMemoryProductRepository()
		purchases := repo.NewInMemoryPurchaseRepository(products)
		return &stores{
			products:  products,
			purchases: purchases,
			metrics:   repo.NewInMemoryMetricsRepository(products, purchases),
			close:     func() error { return nil },
		}, nil
	}
}

func postgresStores(database *sql.DB) *stores {
	return &stores{
		products:  repo.NewPostgresProductRepository(database),
		purchases: repo.NewPostgresPurchaseRepository(database),
		metrics:   repo.NewPostgresMetricsRepository(database),
		close:     database.Close,
	}
}
