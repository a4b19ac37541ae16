package smtp

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
)

var (
	errNoStartTLS = errors.New("STARTTLS not supported")
	// ErrNoRecipients возвращается, если список получателей пуст.
	ErrNoRecipients = errors.New("no recipients")
)

// Mailer формирует и отправляет текстовые письма в UTF-8.
type Mailer struct {
	transport TransportInterface
	log       *slog.Logger
}

// NewMailer создаёт Mailer поверх транспорта.
func NewMailer(transport TransportInterface, log *slog.Logger) *Mailer {
	return &Mailer{transport: transport, log: log}
}

// Send отправляет одно письмо всем получателям.
func (m *Mailer) Send(to []string, subject, body string) error {
	const op = "smtp.Send"
	if len(to) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRecipients)
	}
	log := m.log.With(slog.String("op", op))
	from := m.transport.GetSMTPUser()

	client, err := m.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Debug("smtp client close", sl.Err(closeErr))
		}
	}()

	if err := client.Mail(from); err != nil {
		log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return fmt.Errorf("%s: mail: %w", op, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return fmt.Errorf("%s: rcpt: %w", op, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := wc.Write([]byte(BuildMessage(from, to, subject, body))); err != nil {
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: quit: %w", op, err)
	}

	log.Info("email sent", slog.Int("recipients", len(to)))
	return nil
}

// BuildMessage собирает письмо с заголовками. Тема кодируется по RFC 2047.
func BuildMessage(from string, to []string, subject, body string) string {
	return strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.BEncoding.Encode("UTF-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")
}
