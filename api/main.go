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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/db"
	api "github.com/rogerio-castellano/inventory-ledger/internal/http"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/ban"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	"github.com/rogerio-castellano/inventory-ledger/internal/redissvc"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/seed"
	"github.com/spf13/cobra"
)

const serviceName = "inventory-ledger"

// @title Inventory Ledger API
// @version 1.0
// @description Products, suppliers, categories and the stock transaction ledger.
// @host localhost:8080
// @BasePath /
func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          serviceName,
		Short:        "Inventory stock ledger service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations, seed sample data and serve the HTTP API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd.Context(), configFile, serve)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd.Context(), configFile, migrate)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the sample catalogue into an empty database",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(cmd.Context(), configFile, seedOnly)
			},
		},
	)
	return root
}

type app struct {
	cfg *config.Config
	log *logger.Logger
}

func withRuntime(ctx context.Context, configFile string, fn func(context.Context, app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fn(ctx, app{cfg: cfg, log: log}); err != nil {
		log.Error(ctx, "command failed", err)
		return err
	}
	return nil
}

// store is the selected persistence backend.
type store struct {
	repos  repo.Repositories
	sqlDB  *sql.DB
	health func(ctx context.Context) error
}

func (s store) Close() {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
}

func openStore(ctx context.Context, rt app) (store, error) {
	if rt.cfg.Database.InMemory() {
		rt.log.Warn(ctx, "no database url configured, using the in-memory store")
		return store{repos: repo.NewInMemoryRepositories(repo.NewMemoryDB())}, nil
	}

	sqlDB, err := db.Connect(ctx, rt.cfg.Database)
	if err != nil {
		return store{}, err
	}
	rt.log.Info(ctx, "database connection established")
	return store{
		repos:  repo.NewPostgresRepositories(sqlDB),
		sqlDB:  sqlDB,
		health: sqlDB.PingContext,
	}, nil
}

func runMigrations(ctx context.Context, rt app, st store) error {
	if st.sqlDB == nil {
		return nil
	}
	if err := db.Migrate(ctx, st.sqlDB); err != nil {
		return err
	}
	version, err := db.Version(ctx, st.sqlDB)
	if err != nil {
		return err
	}
	rt.log.Info(rt.log.WithField(ctx, "version", version), "migrations applied")
	return nil
}

func runSeed(ctx context.Context, rt app, st store) error {
	res, err := seed.Run(ctx, st.repos)
	if err != nil {
		return err
	}
	rt.log.Info(rt.log.WithFields(ctx, map[string]any{
		"suppliers":  res.Suppliers,
		"categories": res.Categories,
		"products":   res.Products,
	}), "seed finished")
	return nil
}

func migrate(ctx context.Context, rt app) error {
	if rt.cfg.Database.InMemory() {
		return errors.New("migrate needs database.url (INVENTORY_DATABASE_URL)")
	}
	st, err := openStore(ctx, rt)
	if err != nil {
		return err
	}
	defer st.Close()
	return runMigrations(ctx, rt, st)
}

func seedOnly(ctx context.Context, rt app) error {
	if rt.cfg.Database.InMemory() {
		return errors.New("seed needs database.url (INVENTORY_DATABASE_URL)")
	}
	st, err := openStore(ctx, rt)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := runMigrations(ctx, rt, st); err != nil {
		return err
	}
	return runSeed(ctx, rt, st)
}

func banStore(ctx context.Context, rt app) (ban.Store, func(), error) {
	if rt.cfg.Redis.Addr == "" {
		return ban.NewMemoryStore(), func() {}, nil
	}
	rdb, err := redissvc.Connect(ctx, rt.cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	rt.log.Info(ctx, "redis connection established")
	return ban.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
}

func serve(ctx context.Context, rt app) error {
	cfg := rt.cfg

	st, err := openStore(ctx, rt)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := runMigrations(ctx, rt, st); err != nil {
		return err
	}
	if cfg.Seed.Enabled {
		if err := runSeed(ctx, rt, st); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	if cfg.JWT.Secret == "" {
		rt.log.Warn(ctx, "jwt.secret is empty, tokens will not survive a restart")
	}
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	server := handlers.NewServer(handlers.Options{
		Repos:  st.repos,
		Ledger: ledger.New(st.repos.Transactions, rt.log, m),
		Tokens: tokens,
		Logger: rt.log,
		Health: st.health,
	})

	routerCfg := api.RouterConfig{
		Server:   server,
		Logger:   rt.log,
		Metrics:  m,
		Gatherer: reg,
	}
	if cfg.RateLimit.Enabled {
		bans, closeBans, err := banStore(ctx, rt)
		if err != nil {
			return err
		}
		defer closeBans()

		limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go limiter.Run(ctx)

		routerCfg.RateLimit = api.RateLimitPolicy{
			Limiter:     limiter,
			Bans:        bans,
			Strikes:     cfg.RateLimit.Strikes,
			StrikeTTL:   cfg.RateLimit.StrikeTTL,
			BanDuration: cfg.RateLimit.BanDuration,
		}
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info(rt.log.WithField(ctx, "addr", cfg.HTTP.Addr), "server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
