// Package sender собирает фоновый процесс, который читает очереди уведомлений
// и отправляет письма через SMTP.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/grant-matching/internal/config"
	"github.com/magabrotheeeer/grant-matching/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/grant-matching/internal/services/sender"
)

// App представляет приложение отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ и собирает сервис отправки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	mailer := smtp.NewMailer(smtp.NewTransport(cfg.SMTP, logger), logger)
	senderService := senderservice.NewSenderService(mailer, cfg.SiteURL, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей обеих очередей и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	consumers := []struct {
		queue   string
		handler func([]byte) error
	}{
		{rabbitmq.QueueDeadline, a.senderService.SendDeadlineReminder},
		{rabbitmq.QueueNewsletter, a.senderService.SendNewsletterConfirmation},
	}
	for _, c := range consumers {
		if err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, c.queue, c.handler); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", c.queue), sl.Err(err))
			a.close()
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
