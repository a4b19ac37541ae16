package paymentprovider

import "fmt"

// ConfirmRequest — запрос подтверждения платежа Toss после редиректа покупателя.
type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// ConfirmResponse — подтверждённый платёж Toss (поля, которые использует сервис).
type ConfirmResponse struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"totalAmount"`
	Method      string `json:"method"`
	ApprovedAt  string `json:"approvedAt"`
}

// APIError — ответ Toss с ошибкой.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toss api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}
