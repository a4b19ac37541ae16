package models

import "time"

const (
	// ApprovalPending — компания ждёт проверки администратором.
	ApprovalPending = "pending"
	// ApprovalApproved — компания подтверждена.
	ApprovalApproved = "approved"
	// ApprovalRejected — компания отклонена.
	ApprovalRejected = "rejected"
)

// Company представляет зарегистрированный профиль бизнеса пользователя.
type Company struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	BusinessNumber  string     `json:"business_number"`
	TaxType         string     `json:"tax_type,omitempty"`
	CorporationType string     `json:"corporation_type"`
	Industry        string     `json:"industry"`
	Region          string     `json:"region,omitempty"`
	EmployeeCount   int        `json:"employee_count"`
	AnnualRevenue   int64      `json:"annual_revenue"`
	FoundedYear     int        `json:"founded_year,omitempty"`
	ApprovalStatus  string     `json:"approval_status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CompanyRequest используется для приёма данных онбординга из JSON-запроса.
type CompanyRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	BusinessNumber string `json:"business_number" validate:"required,numeric,len=10"` // 10 цифр без дефисов
	TaxType        string `json:"tax_type" validate:"omitempty,oneof=individual corporate"`
	Industry       string `json:"industry" validate:"required"`
	Region         string `json:"region"`
	EmployeeCount  int    `json:"employee_count" validate:"gte=0"`
	AnnualRevenue  int64  `json:"annual_revenue" validate:"gte=0"`
	FoundedYear    int    `json:"founded_year" validate:"omitempty,gte=1900,lte=2100"`
}

// ApprovalDecision — решение администратора по компании.
type ApprovalDecision struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	Status    string `json:"status" validate:"required,oneof=approved rejected"`
	Reason    string `json:"reason" validate:"max=500"`
}
