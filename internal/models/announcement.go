package models

import (
	"encoding/json"
	"time"
)

const (
	// AnnouncementStatusActive — объявление принимает заявки.
	AnnouncementStatusActive = "active"
	// AnnouncementStatusClosed — приём заявок завершён.
	AnnouncementStatusClosed = "closed"
)

// Announcement представляет государственное объявление о гранте.
// Записи наполняются внешним процессом загрузки, здесь они в основном читаются.
type Announcement struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Organization       string          `json:"organization"`
	Category           string          `json:"category"`
	SupportType        string          `json:"support_type"`
	SupportAmount      *int64          `json:"support_amount,omitempty"` // Сумма поддержки в вонах, nil если не указана
	SupportAmountText  string          `json:"support_amount_text,omitempty"`
	Region             string          `json:"region,omitempty"`
	ApplicationStart   *time.Time      `json:"application_start,omitempty"`
	ApplicationEnd     *time.Time      `json:"application_end,omitempty"`
	Eligibility        json.RawMessage `json:"eligibility,omitempty"`         // Полуструктурированные требования к заявителю
	EvaluationCriteria json.RawMessage `json:"evaluation_criteria,omitempty"` // Критерии оценки
	Description        string          `json:"description,omitempty"`
	ContentURL         string          `json:"content_url,omitempty"` // Ссылка на полный текст объявления
	Tags               []string        `json:"tags,omitempty"`
	Status             string          `json:"status"`
	ApplicationCount   *int            `json:"application_count,omitempty"` // Число поданных заявок, если отслеживается
	ViewCount          int             `json:"view_count"`
	CreatedAt          time.Time       `json:"created_at"`
}

// SimilarStats агрегирует данные по похожим объявлениям (та же организация или категория).
type SimilarStats struct {
	SameOrganizationCount   int     // Число объявлений той же организации
	SameCategoryActive      int     // Число активных объявлений той же категории
	TrackedSamples          int     // Сколько похожих объявлений имеют число заявок
	AverageApplicationCount float64 // Среднее число заявок по отслеживаемым объявлениям
}
