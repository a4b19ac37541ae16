package models

import "time"

// PaymentStatus — внутренний статус платежа.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentFailed    PaymentStatus = "failed"
)

const (
	// MethodToss — Toss Payments.
	MethodToss = "toss"
	// MethodKakao — Kakao Pay.
	MethodKakao = "kakao"
	// MethodNaver — Naver Pay.
	MethodNaver = "naver"
)

const (
	// ProductPro — месячный тариф pro.
	ProductPro = "pro"
	// ProductGuestReveal — раскрытие двух лучших совпадений гостевой воронки.
	ProductGuestReveal = "guest_reveal"
)

// Ключи metadata платежа, по которым применяются побочные эффекты оплаты.
const (
	MetaProduct      = "product"
	MetaGuestMatchID = "guest_match_id"
)

// Payment представляет попытку оплаты.
type Payment struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id,omitempty"`
	Amount     int64             `json:"amount"`
	Method     string            `json:"method"`
	OrderID    string            `json:"order_id"`
	Status     PaymentStatus     `json:"status"`
	PaymentKey string            `json:"payment_key,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// CheckoutRequest — запрос на начало оплаты.
type CheckoutRequest struct {
	Method       string `json:"method" validate:"required,oneof=toss kakao naver"`
	Product      string `json:"product" validate:"required,oneof=pro guest_reveal"`
	GuestMatchID string `json:"guest_match_id" validate:"omitempty,uuid"`
}

// ConfirmRequest — подтверждение платежа Toss после редиректа.
type ConfirmRequest struct {
	PaymentKey string `json:"payment_key" validate:"required"`
	OrderID    string `json:"order_id" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

// PaymentFilter — параметры административного списка платежей.
type PaymentFilter struct {
	Status string
	Limit  int
	Offset int
}
