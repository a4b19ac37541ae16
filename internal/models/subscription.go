package models

import "time"

const (
	// PlanFree — бесплатный тариф.
	PlanFree = "free"
	// PlanPro — платный тариф.
	PlanPro = "pro"

	// SubscriptionActive — подписка действует.
	SubscriptionActive = "active"
	// SubscriptionCancelled — подписка отменена и понизится до free в конце периода.
	SubscriptionCancelled = "cancelled"
)

// Subscription представляет подписку пользователя, одна на пользователя.
type Subscription struct {
	UserID           string     `json:"user_id"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	BillingKey       string     `json:"-"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FreeSubscription возвращает подписку по умолчанию для пользователя без записи.
func FreeSubscription(userID string) *Subscription {
	return &Subscription{UserID: userID, Plan: PlanFree, Status: SubscriptionActive}
}

// EffectivePlan возвращает тариф с учётом отмены: отменённая подписка
// остаётся pro до конца оплаченного периода.
func (s *Subscription) EffectivePlan(now time.Time) string {
	if s.Plan != PlanPro {
		return PlanFree
	}
	if s.CurrentPeriodEnd != nil && now.After(*s.CurrentPeriodEnd) {
		return PlanFree
	}
	return PlanPro
}

// CancelRequest — запрос на отмену подписки. UserID пуст для собственной подписки.
type CancelRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
}
