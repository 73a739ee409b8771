// Package storefront собирает приложение витрины: хранилища, сессии,
// аналитику и HTTP-маршруты.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/guitar-shop/internal/cache"
	"github.com/magabrotheeeer/guitar-shop/internal/config"
	"github.com/magabrotheeeer/guitar-shop/internal/consent"
	grpchealth "github.com/magabrotheeeer/guitar-shop/internal/grpc/health"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/health"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/jwt"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/metrics"
	"github.com/magabrotheeeer/guitar-shop/internal/migrations"
	authservice "github.com/magabrotheeeer/guitar-shop/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/guitar-shop/internal/services/catalog"
	"github.com/magabrotheeeer/guitar-shop/internal/session"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
	"github.com/magabrotheeeer/guitar-shop/internal/storage"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

const healthInterval = 15 * time.Second

// App - собранная витрина.
type App struct {
	server     *http.Server
	grpcHealth *grpchealth.Server
	logger     *slog.Logger
	db         *storage.Storage
	cache      *cache.Cache
	amqpConn   *amqp.Connection
	amqpCh     *amqp.Channel
}

// New поднимает зависимости витрины по конфигу. Redis и RabbitMQ
// необязательны: без них снапшоты живут в памяти, а аналитика отключена.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "storefront.New"

	app := &App{logger: logger}

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.db = db
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	checkers := map[string]health.Checker{"postgres": db}
	grpcCheckers := map[string]grpchealth.Checker{"postgres": db}

	var (
		sessions     session.Store
		catalogCache catalogservice.Cache
	)
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.cache = cacheRedis
		sessions = session.NewRedisStore(cacheRedis, cfg.Session.TTL)
		catalogCache = cacheRedis
		checkers["redis"] = cacheRedis
		grpcCheckers["redis"] = cacheRedis
	} else {
		logger.Warn("redis is not configured, session snapshots are kept in memory")
		sessions = session.NewMemoryStore()
	}

	analytics, err := app.analyticsClient(cfg)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	adapter := consent.NewAdapter(logger, analytics, cfg.WriteKey)
	adapter.Subscribe("metrics", func(_ context.Context, ev consent.Event) {
		for _, name := range ev.Categories.Names() {
			m.ConsentChanges.WithLabelValues(name, strconv.FormatBool(ev.Categories[name])).Inc()
		}
	})
	if !adapter.Enabled() {
		logger.Info("analytics disabled")
	}

	cookies := session.NewCookies(jwt.NewJWTMaker(cfg.SecretKey, cfg.Session.TTL), session.CookieOptions{
		Name:   cfg.CookieName,
		Secure: cfg.SecureCookie,
		TTL:    cfg.Session.TTL,
	})

	sh, err := shell.New(logger, stores.NewServerProvider(), sessions, cookies, adapter, m, shell.Options{
		WriteKey: cfg.WriteKey,
		GTMID:    cfg.GTMID,
	})
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authService := authservice.NewService(db, logger)
	catalogService := catalogservice.NewService(db, catalogCache, cfg.CacheTTL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:   logger,
		Shell:    sh,
		Auth:     authService,
		Catalog:  catalogService,
		Metrics:  m,
		Gatherer: reg,
		Checkers: checkers,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.AddressGRPC != "" {
		hs, err := grpchealth.New(cfg.AddressGRPC, grpcCheckers, healthInterval, logger)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.grpcHealth = hs
	}

	return app, nil
}

func (a *App) analyticsClient(cfg *config.Config) (consent.Client, error) {
	if cfg.RabbitMQ.URL == "" || cfg.WriteKey == "" {
		return consent.Noop{}, nil
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.Retries, 2*time.Second)
	if err != nil {
		return nil, err
	}
	a.amqpConn = conn
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.GetAnalyticsQueues())
	if err != nil {
		return nil, err
	}
	a.amqpCh = ch
	return consent.NewRabbitClient(ch, cfg.Exchange), nil
}

// Run запускает HTTP-сервер и gRPC health-пробу и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	grpcCtx, cancelGRPC := context.WithCancel(ctx)
	defer cancelGRPC()
	if a.grpcHealth != nil {
		go func() {
			if err := a.grpcHealth.Run(grpcCtx); err != nil {
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	cancelGRPC()
	a.close()
	return runErr
}

func (a *App) close() {
	if a.amqpCh != nil {
		if err := a.amqpCh.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close postgres", sl.Err(err))
		}
	}
}
