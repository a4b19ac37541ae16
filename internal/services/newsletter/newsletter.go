// Package newsletter реализует подписку на рассылку с двойным подтверждением
// и отписку от маркетинговых писем.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/grant-matching/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// ErrTokenRequired — подтверждение без токена.
var ErrTokenRequired = errors.New("token is required")

// Repository определяет методы хранилища подписчиков и гостевых лидов.
type Repository interface {
	UpsertNewsletterSubscriber(ctx context.Context, email, token string) (*models.NewsletterSubscriber, error)
	ConfirmNewsletter(ctx context.Context, token string) (*models.NewsletterSubscriber, error)
	UnsubscribeNewsletter(ctx context.Context, email string) (int64, error)
	OptOutGuestLeads(ctx context.Context, email string) (int64, error)
}

// Publisher публикует сообщения в очередь уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service реализует сценарии рассылки.
type Service struct {
	repo      Repository
	publisher Publisher
	siteURL   string
	log       *slog.Logger
}

// New создаёт сервис рассылки. siteURL используется для ссылки подтверждения.
func New(repo Repository, publisher Publisher, siteURL string, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		siteURL:   strings.TrimRight(siteURL, "/"),
		log:       log,
	}
}

// Subscribe регистрирует адрес (в нижнем регистре) со статусом pending и отправляет письмо подтверждения.
// Уже подтверждённый адрес остаётся подтверждённым, письмо не отправляется.
func (s *Service) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	const op = "newsletter.Subscribe"

	// уникальный индекс по email регистрозависим, отписка сравнивает lower(email)
	email = strings.ToLower(strings.TrimSpace(email))
	sub, err := s.repo.UpsertNewsletterSubscriber(ctx, email, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sub.Status == models.NewsletterConfirmed {
		return sub, nil
	}

	msg := models.NewsletterConfirmation{Email: sub.Email, ConfirmURL: s.confirmURL(sub.Token)}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingNewsletter, msg); err != nil {
		return nil, fmt.Errorf("%s: publish confirmation: %w", op, err)
	}
	s.log.Info("newsletter confirmation queued", slog.String("subscriber_id", sub.ID))
	return sub, nil
}

func (s *Service) confirmURL(token string) string {
	return s.siteURL + "/api/newsletter/confirm?token=" + url.QueryEscape(token)
}

// Confirm подтверждает подписку по токену. Повторное подтверждение успешно.
func (s *Service) Confirm(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	const op = "newsletter.Confirm"

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}
	sub, err := s.repo.ConfirmNewsletter(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// Unsubscribe отписывает адрес от ретаргетинга и рассылки. Всегда успешна:
// ошибки хранилища только логируются, чтобы ссылка из письма не раскрывала детали.
func (s *Service) Unsubscribe(ctx context.Context, email string) {
	const op = "newsletter.Unsubscribe"
	log := s.log.With(slog.String("op", op))

	email = strings.TrimSpace(email)
	if email == "" {
		return
	}
	leads, err := s.repo.OptOutGuestLeads(ctx, email)
	if err != nil {
		log.Error("failed to opt out guest leads", sl.Err(err))
	}
	subs, err := s.repo.UnsubscribeNewsletter(ctx, email)
	if err != nil {
		log.Error("failed to unsubscribe newsletter", sl.Err(err))
	}
	log.Info("unsubscribed", slog.Int64("leads", leads), slog.Int64("subscribers", subs))
}
