// Package sender превращает сообщения очереди уведомлений в письма.
package sender

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/grant-matching/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// ErrInvalidMessage — сообщение без адреса получателя.
var ErrInvalidMessage = errors.New("invalid notification message")

// Mailer отправляет текстовое письмо.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// SenderService обрабатывает сообщения очередей notification.deadline и notification.newsletter.
type SenderService struct {
	mailer  Mailer
	siteURL string
	log     *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(mailer Mailer, siteURL string, log *slog.Logger) *SenderService {
	return &SenderService{
		mailer:  mailer,
		siteURL: strings.TrimRight(siteURL, "/"),
		log:     log,
	}
}

// SendDeadlineReminder отправляет напоминание о скором окончании приёма заявок.
func (s *SenderService) SendDeadlineReminder(body []byte) error {
	const op = "sender.SendDeadlineReminder"

	var msg models.DeadlineReminder
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, err)
	}
	if msg.Email == "" {
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, ErrInvalidMessage)
	}

	subject := fmt.Sprintf("[마감 D-%d] %s", msg.DaysLeft, msg.AnnouncementTitle)
	text := fmt.Sprintf("안녕하세요.\n\n"+
		"저장하신 공고의 신청 마감이 %d일 남았습니다.\n\n"+
		"공고명: %s\n주관기관: %s\n마감일: %s\n\n"+
		"공고 보기: %s/announcements/%s\n\n"+
		"알림 설정은 %s/settings/notifications 에서 변경할 수 있습니다.",
		msg.DaysLeft, msg.AnnouncementTitle, msg.Organization, msg.ApplicationEnd.Format("2006-01-02"),
		s.siteURL, msg.AnnouncementID, s.siteURL)

	if err := s.mailer.Send([]string{msg.Email}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendNewsletterConfirmation отправляет письмо со ссылкой подтверждения подписки.
func (s *SenderService) SendNewsletterConfirmation(body []byte) error {
	const op = "sender.SendNewsletterConfirmation"

	var msg models.NewsletterConfirmation
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, err)
	}
	if msg.Email == "" || msg.ConfirmURL == "" {
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, ErrInvalidMessage)
	}

	subject := "뉴스레터 구독을 확인해 주세요"
	text := fmt.Sprintf("안녕하세요.\n\n"+
		"정부지원사업 뉴스레터 구독을 신청해 주셔서 감사합니다.\n"+
		"아래 링크를 눌러 구독을 완료해 주세요.\n\n%s\n\n"+
		"본인이 신청하지 않았다면 이 메일을 무시하셔도 됩니다.", msg.ConfirmURL)

	if err := s.mailer.Send([]string{msg.Email}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
