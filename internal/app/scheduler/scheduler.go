// Package scheduler собирает фоновый процесс напоминаний о сроках подачи
// и понижения истёкших подписок.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/grant-matching/internal/auth"
	"github.com/magabrotheeeer/grant-matching/internal/config"
	"github.com/magabrotheeeer/grant-matching/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/grant-matching/internal/services/scheduler"
	"github.com/magabrotheeeer/grant-matching/internal/services/subscription"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

const (
	dbReadyRetries = 10
	dbReadyDelay   = 3 * time.Second
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	reminderSpec     string
	downgradeSpec    string
	db               *repository.Storage
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	var err error
	for range dbReadyRetries {
		if err = repository.CheckDatabaseReady(ctx, db); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

// New создает новый экземпляр приложения планировщика. Миграции применяет API,
// поэтому планировщик только дожидается готовой схемы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, nil, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, nil, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		closeResources(ch, conn, db, logger)
		return nil, err
	}

	subscriptions := subscription.New(db, auth.NewPolicy(cfg.AdminEmailList()), logger)
	schedulerService := schedulerservice.NewSchedulerService(db, subscriptions, rabbitmq.NewPublisher(ch), loc, logger)

	return &App{
		schedulerService: schedulerService,
		reminderSpec:     cfg.ReminderCron,
		downgradeSpec:    cfg.DowngradeCron,
		db:               db,
		conn:             conn,
		ch:               ch,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, db *repository.Storage, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", sl.Err(err))
		}
	}
}

// Run запускает расписание и ждёт отмены ctx. Выполняющиеся задачи
// дорабатывают до закрытия ресурсов.
func (a *App) Run(ctx context.Context) error {
	c, err := a.schedulerService.Start(ctx, a.reminderSpec, a.downgradeSpec)
	if err != nil {
		closeResources(a.ch, a.conn, a.db, a.logger)
		return err
	}

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-c.Stop().Done()

	closeResources(a.ch, a.conn, a.db, a.logger)
	return nil
}
