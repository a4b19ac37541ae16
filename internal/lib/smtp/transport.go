package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/config"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
)

const dialTimeout = 10 * time.Second

// Transport реализует SMTP транспорт для отправки писем.
type Transport struct {
	cfg config.SMTP
	log *slog.Logger
}

// smtpClientWrapper обертка для *smtp.Client, реализующая интерфейс Client.
type smtpClientWrapper struct {
	client *smtp.Client
}

func (w *smtpClientWrapper) Mail(from string) error       { return w.client.Mail(from) }
func (w *smtpClientWrapper) Rcpt(to string) error         { return w.client.Rcpt(to) }
func (w *smtpClientWrapper) Data() (io.WriteCloser, error) { return w.client.Data() }
func (w *smtpClientWrapper) Quit() error                  { return w.client.Quit() }
func (w *smtpClientWrapper) Close() error                 { return w.client.Close() }

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect устанавливает соединение с SMTP сервером, включает STARTTLS и авторизуется.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"
	log := t.log.With(slog.String("op", op), slog.String("host", t.cfg.SMTPHost))

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort), dialTimeout)
	if err != nil {
		log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		log.Error("failed to create SMTP client", sl.Err(err))
		if closeErr := conn.Close(); closeErr != nil {
			log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: new client: %w", op, err)
	}

	fail := func(msg string, cause error) (Client, error) {
		log.Error(msg, sl.Err(cause))
		if closeErr := client.Close(); closeErr != nil {
			log.Error("failed to close client", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: %s: %w", op, msg, cause)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return fail("smtp server does not support STARTTLS", errNoStartTLS)
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fail("failed to start TLS", err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		return fail("smtp auth failed", err)
	}

	return &smtpClientWrapper{client: client}, nil
}

// GetSMTPUser возвращает имя пользователя SMTP, оно же адрес отправителя.
func (t *Transport) GetSMTPUser() string {
	return t.cfg.SMTPUser
}
