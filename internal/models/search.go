package models

import "time"

// SearchQuery — запись поискового запроса для аналитики.
type SearchQuery struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id,omitempty"`
	Query       string            `json:"query"`
	Filters     map[string]string `json:"filters,omitempty"`
	ResultCount int               `json:"result_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SearchRecordRequest используется для приёма поискового запроса из JSON.
type SearchRecordRequest struct {
	Query       string            `json:"query" validate:"required,max=200"`
	Filters     map[string]string `json:"filters"`
	ResultCount int               `json:"result_count" validate:"gte=0"`
}
