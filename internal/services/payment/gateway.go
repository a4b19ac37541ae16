package payment

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Gateway — платёжный шлюз, присылающий вебхуки.
type Gateway string

const (
	GatewayToss  Gateway = "toss"
	GatewayKakao Gateway = "kakao"
	GatewayNaver Gateway = "naver"
)

var (
	// ErrUnknownGateway возвращается, когда шлюз не удалось определить.
	ErrUnknownGateway = errors.New("unknown payment gateway")
	// ErrMalformedEvent возвращается, когда в событии нет order id.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// statusTables — фиксированные таблицы статусов шлюзов. Статус, которого нет
// в таблице, считается pending.
var statusTables = map[Gateway]map[string]models.PaymentStatus{
	GatewayToss: {
		"DONE":                models.PaymentCompleted,
		"CANCELED":            models.PaymentCancelled,
		"PARTIAL_CANCELED":    models.PaymentCancelled,
		"ABORTED":             models.PaymentFailed,
		"EXPIRED":             models.PaymentFailed,
		"READY":               models.PaymentPending,
		"IN_PROGRESS":         models.PaymentPending,
		"WAITING_FOR_DEPOSIT": models.PaymentPending,
	},
	GatewayKakao: {
		"SUCCESS_PAYMENT":     models.PaymentCompleted,
		"CANCEL_PAYMENT":      models.PaymentCancelled,
		"PART_CANCEL_PAYMENT": models.PaymentCancelled,
		"FAIL_PAYMENT":        models.PaymentFailed,
		"FAIL_AUTH_PASSWORD":  models.PaymentFailed,
		"QUIT_PAYMENT":        models.PaymentFailed,
		"READY":               models.PaymentPending,
		"SEND_TMS":            models.PaymentPending,
		"OPEN_PAYMENT":        models.PaymentPending,
		"SELECT_METHOD":       models.PaymentPending,
		"ARS_WAITING":         models.PaymentPending,
		"AUTH_PASSWORD":       models.PaymentPending,
		"ISSUED_SID":          models.PaymentPending,
	},
	GatewayNaver: {
		"SUCCESS":  models.PaymentCompleted,
		"CANCEL":   models.PaymentCancelled,
		"CANCELED": models.PaymentCancelled,
		"FAIL":     models.PaymentFailed,
		"FAILED":   models.PaymentFailed,
	},
}

// ParseGateway проверяет идентификатор шлюза из пути или заголовка.
func ParseGateway(s string) (Gateway, error) {
	g := Gateway(s)
	if _, ok := statusTables[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGateway, s)
	}
	return g, nil
}

// MapStatus переводит статус шлюза во внутренний. Функция тотальна.
func MapStatus(g Gateway, raw string) models.PaymentStatus {
	if status, ok := statusTables[g][raw]; ok {
		return status
	}
	return models.PaymentPending
}

// DetectGateway определяет шлюз по форме события. Используется только для старого
// маршрута без явного шлюза, чтобы выбрать секрет для проверки подписи.
func DetectGateway(body []byte) (Gateway, error) {
	switch {
	case gjson.GetBytes(body, "eventType").Exists():
		return GatewayToss, nil
	case gjson.GetBytes(body, "partner_order_id").Exists():
		return GatewayKakao, nil
	case gjson.GetBytes(body, "body.merchantPayKey").Exists():
		return GatewayNaver, nil
	default:
		return "", ErrUnknownGateway
	}
}

// Event — событие вебхука, приведённое к общему виду.
type Event struct {
	Gateway    Gateway
	OrderID    string
	RawStatus  string
	Status     models.PaymentStatus
	PaymentKey string
}

// ParseEvent извлекает order id, статус и ключ платежа из тела события шлюза.
func ParseEvent(g Gateway, body []byte) (Event, error) {
	if !gjson.ValidBytes(body) {
		return Event{}, fmt.Errorf("%w: invalid json", ErrMalformedEvent)
	}

	var ev Event
	switch g {
	case GatewayToss:
		ev = Event{
			OrderID:    gjson.GetBytes(body, "data.orderId").String(),
			RawStatus:  gjson.GetBytes(body, "data.status").String(),
			PaymentKey: gjson.GetBytes(body, "data.paymentKey").String(),
		}
	case GatewayKakao:
		ev = Event{
			OrderID:    gjson.GetBytes(body, "partner_order_id").String(),
			RawStatus:  gjson.GetBytes(body, "status").String(),
			PaymentKey: gjson.GetBytes(body, "tid").String(),
		}
	case GatewayNaver:
		status := gjson.GetBytes(body, "body.admissionState")
		if !status.Exists() {
			status = gjson.GetBytes(body, "body.status")
		}
		ev = Event{
			OrderID:    gjson.GetBytes(body, "body.merchantPayKey").String(),
			RawStatus:  status.String(),
			PaymentKey: gjson.GetBytes(body, "body.paymentId").String(),
		}
	default:
		return Event{}, ErrUnknownGateway
	}

	if ev.OrderID == "" {
		return Event{}, fmt.Errorf("%w: missing order id", ErrMalformedEvent)
	}
	ev.Gateway = g
	ev.Status = MapStatus(g, ev.RawStatus)
	return ev, nil
}
