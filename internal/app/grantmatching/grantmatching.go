// Package grantmatching собирает HTTP API: хранилище, кеш, брокер, внешние
// клиенты, сервисы и маршруты, а также внутренний gRPC health-сервер.
package grantmatching

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/grant-matching/internal/aiprovider"
	"github.com/magabrotheeeer/grant-matching/internal/auth"
	"github.com/magabrotheeeer/grant-matching/internal/cache"
	"github.com/magabrotheeeer/grant-matching/internal/config"
	grpcserver "github.com/magabrotheeeer/grant-matching/internal/grpc/server"
	"github.com/magabrotheeeer/grant-matching/internal/http/handlers/health"
	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/lib/fetch"
	"github.com/magabrotheeeer/grant-matching/internal/lib/jwt"
	"github.com/magabrotheeeer/grant-matching/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/metrics"
	"github.com/magabrotheeeer/grant-matching/internal/migrations"
	"github.com/magabrotheeeer/grant-matching/internal/paymentprovider"
	"github.com/magabrotheeeer/grant-matching/internal/services/announcement"
	"github.com/magabrotheeeer/grant-matching/internal/services/approval"
	"github.com/magabrotheeeer/grant-matching/internal/services/company"
	"github.com/magabrotheeeer/grant-matching/internal/services/competition"
	"github.com/magabrotheeeer/grant-matching/internal/services/drafting"
	"github.com/magabrotheeeer/grant-matching/internal/services/feedback"
	"github.com/magabrotheeeer/grant-matching/internal/services/guest"
	"github.com/magabrotheeeer/grant-matching/internal/services/newsletter"
	"github.com/magabrotheeeer/grant-matching/internal/services/notification"
	"github.com/magabrotheeeer/grant-matching/internal/services/payment"
	"github.com/magabrotheeeer/grant-matching/internal/services/saved"
	"github.com/magabrotheeeer/grant-matching/internal/services/search"
	"github.com/magabrotheeeer/grant-matching/internal/services/subscription"
	"github.com/magabrotheeeer/grant-matching/internal/services/upload"
	"github.com/magabrotheeeer/grant-matching/internal/services/user"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
	"github.com/magabrotheeeer/grant-matching/internal/supabase"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 10 * time.Second
	healthCheckTimeout  = 2 * time.Second
	outboundTimeout     = 15 * time.Second
)

// App представляет HTTP API вместе с gRPC health-сервером.
type App struct {
	server        *http.Server
	grpcServer    *grpc.Server
	grpcAddr      string
	health        *grpcserver.HealthServer
	logger        *slog.Logger
	db            *repository.Storage
	cache         cache.Cache
	conn          *amqp.Connection
	ch            *amqp.Channel
	announcements *announcement.Service
}

// New создаёт приложение: подключает базу и применяет миграции, поднимает кеш
// и канал RabbitMQ, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	appCache, err := cache.New(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = closeCache(appCache)
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = closeCache(appCache)
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	outbound := &http.Client{Timeout: outboundTimeout}
	policy := auth.NewPolicy(cfg.AdminEmailList())

	announcements := announcement.New(db, appCache, cfg.AnnouncementTTL, logger)
	services := Services{
		Announcements: announcements,
		Approvals:     approval.New(db, logger),
		Companies:     company.New(db, logger),
		Competition:   competition.New(db, logger),
		Drafting: drafting.New(db, aiprovider.New(cfg.AI),
			fetch.New(outbound, appCache, cfg.FetchTTL, logger), m, logger),
		Feedback:      feedback.New(db, logger),
		Guest:         guest.New(db, logger),
		Newsletter:    newsletter.New(db, rabbitmq.NewPublisher(ch), cfg.SiteURL, logger),
		Notifications: notification.New(db, logger),
		Payments: payment.New(db,
			paymentprovider.NewClient(cfg.TossSecretKey, cfg.TossAPIURL, outbound),
			paymentConfig(cfg), m, logger),
		Saved:         saved.New(db, logger),
		Search:        search.New(db, logger),
		Subscriptions: subscription.New(db, policy, logger),
		Uploads:       upload.New(db, logger),
		Users:         user.New(db, supabase.NewAdmin(cfg.Supabase.URL, cfg.ServiceRoleKey, outbound), logger),
	}

	cacheProbe := cacheChecker(appCache)
	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, Deps{
		Sessions: jwt.NewJWTMaker(cfg.JWTSecret, time.Hour),
		Admins:   policy,
		Limiter:  middlewarectx.NewIPRateLimiter(cfg.RPS, cfg.Burst),
		Metrics:  m,
		Gatherer: registry,
		Checkers: map[string]health.Checker{"postgres": db, "cache": cacheProbe},
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	grpcSrv := grpc.NewServer()
	hs := grpcserver.NewHealthServer(map[string]grpcserver.Checker{
		"postgres": db,
		"cache":    cacheProbe,
	}, healthCheckTimeout, logger)
	hs.Register(grpcSrv)

	return &App{
		server:        srv,
		grpcServer:    grpcSrv,
		grpcAddr:      cfg.AddressGRPC,
		health:        hs,
		logger:        logger,
		db:            db,
		cache:         appCache,
		conn:          conn,
		ch:            ch,
		announcements: announcements,
	}, nil
}

func paymentConfig(cfg *config.Config) payment.Config {
	secrets := make(map[payment.Gateway]string, 3)
	for _, g := range []payment.Gateway{payment.GatewayToss, payment.GatewayKakao, payment.GatewayNaver} {
		secrets[g] = cfg.WebhookSecret(string(g))
	}
	return payment.Config{
		Secrets:          secrets,
		ProPrice:         cfg.ProPrice,
		GuestRevealPrice: cfg.GuestRevealPrice,
	}
}

// cacheChecker проверяет кеш чтением служебного ключа. Промах не считается ошибкой.
func cacheChecker(c cache.Cache) grpcserver.CheckerFunc {
	return func(ctx context.Context) error {
		var probe struct{}
		_, err := c.Get(ctx, "healthz:probe", &probe)
		return err
	}
}

// closeCache закрывает клиент кеша, если он держит соединение.
func closeCache(c cache.Cache) error {
	if cl, ok := c.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Run запускает HTTP и gRPC серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", a.grpcAddr)
	if err != nil {
		a.closeResources()
		return fmt.Errorf("failed to listen gRPC: %w", err)
	}

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	go a.health.Run(healthCtx, healthCheckInterval)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("gRPC health server starting on", slog.String("address", a.grpcAddr))
		if err := a.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.grpcServer.Stop()
		a.closeResources()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.grpcServer.GracefulStop()
		a.closeResources()
		return err
	}
}

func (a *App) closeResources() {
	a.announcements.Close()
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := closeCache(a.cache); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
