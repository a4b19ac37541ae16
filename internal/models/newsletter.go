package models

import "time"

const (
	NewsletterPending      = "pending"
	NewsletterConfirmed    = "confirmed"
	NewsletterUnsubscribed = "unsubscribed"
)

// NewsletterSubscriber — подписчик рассылки с двойным подтверждением.
type NewsletterSubscriber struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Token       string     `json:"-"`
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewsletterSubscribeRequest используется для приёма подписки из JSON-запроса.
type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewsletterConfirmation — сообщение очереди с письмом подтверждения подписки.
type NewsletterConfirmation struct {
	Email      string `json:"email"`
	ConfirmURL string `json:"confirm_url"`
}
