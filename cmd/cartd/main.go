package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstore/internal/budget"
	"github.com/nikolayk812/cartstore/internal/cartstore"
	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/checkout"
	"github.com/nikolayk812/cartstore/internal/config"
	"github.com/nikolayk812/cartstore/internal/httpapi"
	"github.com/nikolayk812/cartstore/internal/logger"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/nikolayk812/cartstore/internal/recommend"
	"github.com/nikolayk812/cartstore/internal/repository"
	"github.com/nikolayk812/cartstore/internal/voice"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logger.New(logger.Options{Service: "cartd", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return err
	}

	store, closeStore, err := openBlobStore(ctx, cfg.Cart)
	if err != nil {
		return fmt.Errorf("openBlobStore: %w", err)
	}
	defer closeStore()

	repo, err := repository.NewCart(store, cfg.Cart.Key)
	if err != nil {
		return fmt.Errorf("repository.NewCart: %w", err)
	}

	cart, err := cartstore.New(repo, log)
	if err != nil {
		return fmt.Errorf("cartstore.New: %w", err)
	}
	loaded := cart.Load(ctx)
	log.Info("cart loaded", slog.String("backend", cfg.Cart.Backend), slog.Int("items", len(loaded.Items)))

	products, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("catalog.Load: %w", err)
	}

	seed := uint64(time.Now().UnixNano())
	gateway := checkout.NewSimulatedGateway(cfg.PaymentSuccessRate, rand.New(rand.NewPCG(seed, seed>>1)), time.Now)

	checkoutSvc, err := checkout.NewService(cart, gateway, unit, rand.New(rand.NewPCG(seed>>2, seed)), log)
	if err != nil {
		return fmt.Errorf("checkout.NewService: %w", err)
	}

	planner, err := budget.NewPlanner(store, cfg.BudgetKey, products, unit, log)
	if err != nil {
		return fmt.Errorf("budget.NewPlanner: %w", err)
	}

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := httpapi.NewHandler(
		cart,
		products,
		recommend.New(products),
		checkoutSvc,
		voice.NewExecutor(products, cart, log),
		planner,
		unit,
		log,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("srv.ListenAndServe: %w", err)
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}

func openBlobStore(ctx context.Context, cfg config.CartConfig) (port.BlobStore, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendMemory:
		return repository.NewMemoryBlobStore(), noop, nil

	case config.BackendFile:
		store, err := repository.NewFileBlobStore(cfg.FileDir)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewFileBlobStore: %w", err)
		}
		return store, noop, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("os.MkdirAll: %w", err)
		}
		store, err := repository.OpenSQLiteBlobStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.OpenSQLiteBlobStore: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		if err := repository.ApplyPostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.ApplyPostgresSchema: %w", err)
		}
		return repository.NewPostgresBlobStore(pool), pool.Close, nil

	case config.BackendRedis:
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis.ParseURL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedisBlobStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
