// Package scheduler по расписанию публикует напоминания о сроках подачи заявок
// и понижает истёкшие отменённые подписки.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/grant-matching/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// ReminderRepository находит напоминания на дату.
type ReminderRepository interface {
	ListDeadlineReminders(ctx context.Context, today time.Time) ([]models.DeadlineReminder, error)
}

// Downgrader понижает истёкшие подписки.
type Downgrader interface {
	DowngradeExpired(ctx context.Context) (int64, error)
}

// Publisher публикует сообщения в очередь уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// SchedulerService выполняет фоновые задачи уведомлений.
type SchedulerService struct {
	repo       ReminderRepository
	downgrader Downgrader
	publisher  Publisher
	loc        *time.Location
	log        *slog.Logger
	now        func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService. Дата «сегодня»
// для напоминаний вычисляется в часовом поясе loc.
func NewSchedulerService(repo ReminderRepository, downgrader Downgrader, publisher Publisher,
	loc *time.Location, log *slog.Logger) *SchedulerService {
	if loc == nil {
		loc = time.UTC
	}
	return &SchedulerService{
		repo:       repo,
		downgrader: downgrader,
		publisher:  publisher,
		loc:        loc,
		log:        log,
		now:        time.Now,
	}
}

// SendDeadlineReminders публикует напоминания на сегодня и возвращает число
// опубликованных. Сбой публикации одного сообщения не останавливает остальные.
func (s *SchedulerService) SendDeadlineReminders(ctx context.Context) (int, error) {
	const op = "scheduler.SendDeadlineReminders"
	s.log.Info("starting deadline reminder run")

	y, m, d := s.now().In(s.loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	reminders, err := s.repo.ListDeadlineReminders(ctx, today)
	if err != nil {
		s.log.Error("failed to find reminders", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(reminders) == 0 {
		s.log.Info("no deadline reminders found")
		return 0, nil
	}

	published := 0
	for _, r := range reminders {
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingDeadline, r); err != nil {
			s.log.Error("failed to publish message",
				slog.String("user_id", r.UserID),
				slog.String("announcement_id", r.AnnouncementID),
				sl.Err(err))
			continue
		}
		published++
	}
	s.log.Info("deadline reminders published", slog.Int("found", len(reminders)), slog.Int("published", published))
	return published, nil
}

// DowngradeExpired понижает отменённые подписки с истёкшим периодом.
func (s *SchedulerService) DowngradeExpired(ctx context.Context) {
	if _, err := s.downgrader.DowngradeExpired(ctx); err != nil {
		s.log.Error("failed to downgrade expired subscriptions", sl.Err(err))
	}
}

// Start регистрирует задачи в cron и запускает его. Вызывающий останавливает
// расписание через Stop у возвращённого *cron.Cron.
func (s *SchedulerService) Start(ctx context.Context, reminderSpec, downgradeSpec string) (*cron.Cron, error) {
	const op = "scheduler.Start"

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(reminderSpec, func() {
		_, _ = s.SendDeadlineReminders(ctx)
	}); err != nil {
		return nil, fmt.Errorf("%s: reminder spec %q: %w", op, reminderSpec, err)
	}
	if _, err := c.AddFunc(downgradeSpec, func() {
		s.DowngradeExpired(ctx)
	}); err != nil {
		return nil, fmt.Errorf("%s: downgrade spec %q: %w", op, downgradeSpec, err)
	}
	c.Start()

	s.log.Info("scheduler started",
		slog.String("reminder_cron", reminderSpec),
		slog.String("downgrade_cron", downgradeSpec),
		slog.String("timezone", s.loc.String()))
	return c, nil
}
