package models

import "time"

// GuestLead — анонимный посетитель воронки до регистрации.
type GuestLead struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	CompanyName     string    `json:"company_name"`
	Industry        string    `json:"industry,omitempty"`
	Region          string    `json:"region,omitempty"`
	MarketingOptOut bool      `json:"marketing_opt_out"`
	CreatedAt       time.Time `json:"created_at"`
}

// GuestMatch — заранее рассчитанный список совпадений для гостя.
type GuestMatch struct {
	ID          string           `json:"id"`
	LeadID      string           `json:"lead_id"`
	Matches     []GuestMatchItem `json:"matches"`
	TopRevealed bool             `json:"top_revealed"` // Выставляется после оплаты
	CreatedAt   time.Time        `json:"created_at"`
}

// GuestMatchItem — одно совпадение. Поля, скрываемые до оплаты, хранятся строками,
// чтобы их можно было заменить заглушкой.
type GuestMatchItem struct {
	Rank           int     `json:"rank"`
	Score          float64 `json:"score"`
	Category       string  `json:"category"`
	SupportType    string  `json:"support_type"`
	ApplicationEnd string  `json:"application_end"`

	AnnouncementID string `json:"announcement_id"`
	Title          string `json:"title"`
	Organization   string `json:"organization"`
	SupportAmount  string `json:"support_amount"`
	Region         string `json:"region"`
	Summary        string `json:"summary"`
	MatchReason    string `json:"match_reason"`
}

// GuestMatchView — ответ API гостевой воронки.
type GuestMatchView struct {
	ID          string           `json:"id"`
	Lead        *GuestLead       `json:"lead,omitempty"`
	Matches     []GuestMatchItem `json:"matches"`
	Total       int              `json:"total"`
	TopRevealed bool             `json:"top_revealed"`
}
