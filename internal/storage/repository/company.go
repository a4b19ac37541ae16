package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const companyColumns = `id, user_id, name, business_number, tax_type, corporation_type, industry, region,
	employee_count, annual_revenue, founded_year, approval_status, rejection_reason, approved_at, approved_by,
	created_at, updated_at`

func scanCompany(row rowScanner) (*models.Company, error) {
	var (
		c          models.Company
		approvedAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.BusinessNumber, &c.TaxType, &c.CorporationType, &c.Industry,
		&c.Region, &c.EmployeeCount, &c.AnnualRevenue, &c.FoundedYear, &c.ApprovalStatus, &c.RejectionReason,
		&approvedAt, &c.ApprovedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if approvedAt.Valid {
		c.ApprovedAt = &approvedAt.Time
	}
	return &c, nil
}

// CreateCompany сохраняет профиль компании. Второй профиль того же пользователя даёт ErrAlreadyExists.
func (s *Storage) CreateCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	const op = "storage.CreateCompany"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO companies (user_id, name, business_number, tax_type, corporation_type, industry, region,
			employee_count, annual_revenue, founded_year, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + companyColumns
	created, err := scanCompany(s.DB.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.BusinessNumber, c.TaxType, c.CorporationType, c.Industry, c.Region,
		c.EmployeeCount, c.AnnualRevenue, c.FoundedYear, c.ApprovalStatus))
	if err != nil {
		return nil, wrap(op, err)
	}
	return created, nil
}

// GetCompanyByUser возвращает профиль компании пользователя.
func (s *Storage) GetCompanyByUser(ctx context.Context, userID string) (*models.Company, error) {
	const op = "storage.GetCompanyByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + companyColumns + ` FROM companies WHERE user_id = $1`
	c, err := scanCompany(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrap(op, err)
	}
	return c, nil
}

// ListCompaniesByStatus возвращает компании с указанным статусом проверки, старые первыми.
func (s *Storage) ListCompaniesByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Company, error) {
	const op = "storage.ListCompaniesByStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + companyColumns + ` FROM companies
		WHERE approval_status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateApproval сохраняет решение администратора по компании.
func (s *Storage) UpdateApproval(ctx context.Context, companyID, status, reason, decidedBy string, at time.Time) error {
	const op = "storage.UpdateApproval"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE companies
		SET approval_status = $2,
			rejection_reason = $3,
			approved_at = CASE WHEN $2 = 'approved' THEN $5::timestamptz ELSE NULL END,
			approved_by = $4,
			updated_at = $5
		WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, companyID, status, reason, decidedBy, at)
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return wrap(op, sql.ErrNoRows)
	}
	return nil
}
