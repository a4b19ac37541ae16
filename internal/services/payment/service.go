// Package payment обрабатывает оплату: создание платежей, подтверждение Toss,
// вебхуки трёх шлюзов и побочные эффекты успешной оплаты.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/magabrotheeeer/grant-matching/internal/lib/deadline"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/paymentprovider"
)

var (
	// ErrLoginRequired — покупка тарифа pro без сессии.
	ErrLoginRequired = errors.New("login required")
	// ErrGuestMatchRequired — раскрытие без guest_match_id.
	ErrGuestMatchRequired = errors.New("guest_match_id is required")
	// ErrAlreadyRevealed — результат гостя уже раскрыт.
	ErrAlreadyRevealed = errors.New("guest match already revealed")
	// ErrAmountMismatch — сумма подтверждения не совпадает с суммой платежа.
	ErrAmountMismatch = errors.New("amount mismatch")
	// ErrNotConfirmable — платёж создан не через Toss.
	ErrNotConfirmable = errors.New("payment cannot be confirmed")
	// ErrConfirmFailed — шлюз не подтвердил платёж.
	ErrConfirmFailed = errors.New("payment confirmation failed")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	orderIDPrefix    = "GM-"
)

// Результаты обработки вебхука для метрик.
const (
	resultOK          = "ok"
	resultUnchanged   = "unchanged"
	resultRejected    = "rejected"
	resultUnknown     = "unknown_gateway"
	resultMalformed   = "malformed"
	resultError       = "error"
	resultEffectError = "effect_error"
)

// Repository определяет методы хранилища, нужные платежам.
type Repository interface {
	CreatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, status models.PaymentStatus, paymentKey string) (*models.Payment, bool, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error)
	GetGuestMatch(ctx context.Context, id string) (*models.GuestMatch, error)
	SetTopRevealed(ctx context.Context, guestMatchID string) error
	ActivatePro(ctx context.Context, userID string, periodEnd time.Time) error
}

// Provider подтверждает платежи Toss.
type Provider interface {
	Confirm(ctx context.Context, req paymentprovider.ConfirmRequest) (*paymentprovider.ConfirmResponse, error)
}

// Recorder учитывает события вебхуков.
type Recorder interface {
	Webhook(gateway, status, result string)
}

// Config — цены и секреты подписи вебхуков.
type Config struct {
	Secrets          map[Gateway]string
	ProPrice         int64
	GuestRevealPrice int64
}

// Service реализует платёжные сценарии.
type Service struct {
	repo     Repository
	provider Provider
	cfg      Config
	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт платёжный сервис.
func New(repo Repository, provider Provider, cfg Config, recorder Recorder, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// HandleWebhook проверяет подпись и применяет событие шлюза. gatewayHint берётся из
// пути или заголовка; если он пуст, шлюз определяется по форме тела.
//
// Возвращает ErrUnknownGateway или ErrInvalidSignature. Ошибки после проверки подписи
// только логируются: шлюз получает успешный ответ и не повторяет доставку.
func (s *Service) HandleWebhook(ctx context.Context, gatewayHint, signature string, body []byte) error {
	const op = "payment.HandleWebhook"
	log := s.log.With(slog.String("op", op))

	g, err := s.resolveGateway(gatewayHint, body)
	if err != nil {
		log.Warn("webhook gateway not recognized", slog.String("hint", gatewayHint), sl.Err(err))
		s.record("", "", resultUnknown)
		return ErrUnknownGateway
	}
	log = log.With(slog.String("gateway", string(g)))

	if err := VerifySignature(s.cfg.Secrets[g], body, signature); err != nil {
		log.Warn("webhook signature rejected", sl.Err(err))
		s.record(g, "", resultRejected)
		return err
	}

	ev, err := ParseEvent(g, body)
	if err != nil {
		log.Error("failed to parse webhook event", sl.Err(err))
		s.record(g, "", resultMalformed)
		return nil
	}
	log = log.With(slog.String("order_id", ev.OrderID), slog.String("status", string(ev.Status)))

	p, changed, err := s.repo.UpdatePaymentStatus(ctx, ev.OrderID, ev.Status, ev.PaymentKey)
	if err != nil {
		log.Error("failed to update payment status", sl.Err(err))
		s.record(g, ev.Status, resultError)
		return nil
	}
	if !changed {
		log.Info("webhook status unchanged")
		s.record(g, ev.Status, resultUnchanged)
		return nil
	}

	if ev.Status == models.PaymentCompleted {
		if err := s.applyCompleted(ctx, p); err != nil {
			log.Error("failed to apply payment side effects", sl.Err(err))
			s.record(g, ev.Status, resultEffectError)
			return nil
		}
	}

	log.Info("webhook processed", slog.String("raw_status", ev.RawStatus))
	s.record(g, ev.Status, resultOK)
	return nil
}

func (s *Service) resolveGateway(hint string, body []byte) (Gateway, error) {
	if hint != "" {
		return ParseGateway(hint)
	}
	return DetectGateway(body)
}

func (s *Service) record(g Gateway, status models.PaymentStatus, result string) {
	if s.recorder == nil {
		return
	}
	gateway := string(g)
	if gateway == "" {
		gateway = "unknown"
	}
	s.recorder.Webhook(gateway, string(status), result)
}

// applyCompleted выполняет побочные эффекты оплаты по metadata платежа.
func (s *Service) applyCompleted(ctx context.Context, p *models.Payment) error {
	var errs []error
	if id := p.Metadata[models.MetaGuestMatchID]; id != "" {
		if err := s.repo.SetTopRevealed(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("reveal guest match %s: %w", id, err))
		}
	}
	if p.Metadata[models.MetaProduct] == models.ProductPro && p.UserID != "" {
		periodEnd := deadline.AddMonths(s.now(), 1)
		if err := s.repo.ActivatePro(ctx, p.UserID, periodEnd); err != nil {
			errs = append(errs, fmt.Errorf("activate pro for %s: %w", p.UserID, err))
		}
	}
	return errors.Join(errs...)
}

// Checkout создаёт ожидающий платёж. Тариф pro доступен только с сессией,
// раскрытие гостевого результата доступно без неё.
func (s *Service) Checkout(ctx context.Context, principal models.Principal, req models.CheckoutRequest) (*models.Payment, error) {
	const op = "payment.Checkout"

	p := &models.Payment{
		UserID:   principal.ID,
		Method:   req.Method,
		OrderID:  orderIDPrefix + ulid.Make().String(),
		Status:   models.PaymentPending,
		Metadata: map[string]string{models.MetaProduct: req.Product},
	}

	switch req.Product {
	case models.ProductPro:
		if principal.IsZero() {
			return nil, ErrLoginRequired
		}
		p.Amount = s.cfg.ProPrice
	case models.ProductGuestReveal:
		if req.GuestMatchID == "" {
			return nil, ErrGuestMatchRequired
		}
		m, err := s.repo.GetGuestMatch(ctx, req.GuestMatchID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if m.TopRevealed {
			return nil, ErrAlreadyRevealed
		}
		p.Amount = s.cfg.GuestRevealPrice
		p.Metadata[models.MetaGuestMatchID] = req.GuestMatchID
	default:
		return nil, fmt.Errorf("%s: unknown product %q", op, req.Product)
	}

	created, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment created",
		slog.String("order_id", created.OrderID),
		slog.String("product", req.Product),
		slog.Int64("amount", created.Amount))
	return created, nil
}

// Confirm подтверждает платёж Toss после редиректа покупателя и применяет те же
// побочные эффекты, что и вебхук. Повторное подтверждение завершённого платежа
// возвращает его без обращения к шлюзу.
func (s *Service) Confirm(ctx context.Context, req models.ConfirmRequest) (*models.Payment, error) {
	const op = "payment.Confirm"

	p, err := s.repo.GetPaymentByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.Method != models.MethodToss {
		return nil, ErrNotConfirmable
	}
	if p.Amount != req.Amount {
		return nil, ErrAmountMismatch
	}
	if p.Status == models.PaymentCompleted {
		return p, nil
	}

	resp, err := s.provider.Confirm(ctx, paymentprovider.ConfirmRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrConfirmFailed, err)
	}

	status := MapStatus(GatewayToss, resp.Status)
	updated, changed, err := s.repo.UpdatePaymentStatus(ctx, req.OrderID, status, resp.PaymentKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if status != models.PaymentCompleted {
		return nil, fmt.Errorf("%s: %w: status %s", op, ErrConfirmFailed, resp.Status)
	}
	if changed {
		if err := s.applyCompleted(ctx, updated); err != nil {
			s.log.Error("failed to apply payment side effects",
				slog.String("op", op), slog.String("order_id", req.OrderID), sl.Err(err))
		}
	}
	return updated, nil
}

// List возвращает платежи для администратора.
func (s *Service) List(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListPayments(ctx, filter)
}
