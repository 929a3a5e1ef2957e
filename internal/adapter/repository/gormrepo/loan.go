package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "tuka-portal/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

func (r *LoanRepository) Create(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *LoanRepository) Save(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, notFound(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetDetail(ctx context.Context, id uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	err := r.db.WithContext(ctx).
		Preload("Personal").
		Preload("Business").
		Preload("Collateral", byID).
		Preload("Attachments", byID).
		First(&out, id).Error
	if err != nil {
		return nil, notFound(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) CreatePersonal(ctx context.Context, d *loanDomain.PersonalDetails) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *LoanRepository) SavePersonal(ctx context.Context, d *loanDomain.PersonalDetails) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *LoanRepository) CreateBusiness(ctx context.Context, d *loanDomain.BusinessDetails) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *LoanRepository) SaveBusiness(ctx context.Context, d *loanDomain.BusinessDetails) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *LoanRepository) CreateCollateral(ctx context.Context, c *loanDomain.CollateralItem) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *LoanRepository) CreateAttachment(ctx context.Context, at *loanDomain.Attachment) error {
	return r.db.WithContext(ctx).Create(at).Error
}

func (r *LoanRepository) UpdateDecision(ctx context.Context, id uint64, d loanDomain.Decision) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        d.Status,
			"admin_notes":   d.AdminNotes,
			"decision_by":   d.DecidedBy,
			"decision_date": d.DecidedAt,
			"updated_date":  d.DecidedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrNotFound
	}
	return nil
}

// Delete removes dependents explicitly so the result does not hinge on the
// driver enforcing ON DELETE CASCADE. Callers wrap it in a transaction.
func (r *LoanRepository) Delete(ctx context.Context, id uint64) error {
	db := r.db.WithContext(ctx)
	children := []any{
		&loanDomain.Attachment{},
		&loanDomain.CollateralItem{},
		&loanDomain.PersonalDetails{},
		&loanDomain.BusinessDetails{},
	}
	for _, m := range children {
		if err := db.Where("application_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	res := db.Delete(&loanDomain.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrNotFound
	}
	return nil
}

const summaryColumns = `la.id, la.application_number, la.loan_type, la.status, la.user_id,
	COALESCE(u.email, '') AS applicant_email,
	COALESCE(NULLIF(TRIM(p.full_name), ''), NULLIF(TRIM(b.business_name), ''), 'Unknown') AS display_name,
	COALESCE(p.loan_amount, b.loan_amount, 0) AS loan_amount,
	COALESCE(la.total_repayment, 0) AS total_repayment,
	la.applied_date`

// List returns applications newest first, with applicant email and display name.
func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Summary, error) {
	q := r.db.WithContext(ctx).
		Table("loan_applications AS la").
		Select(summaryColumns).
		Joins("LEFT JOIN users u ON u.id = la.user_id").
		Joins("LEFT JOIN personal_loan_details p ON p.application_id = la.id").
		Joins("LEFT JOIN business_loan_details b ON b.application_id = la.id")

	if f.Status != "" {
		q = q.Where("la.status = ?", f.Status)
	}
	if f.LoanType != "" {
		q = q.Where("la.loan_type = ?", f.LoanType)
	}
	if f.UserID != 0 {
		q = q.Where("la.user_id = ?", f.UserID)
	}
	q = q.Order("la.applied_date DESC").Order("la.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	out := make([]loanDomain.Summary, 0)
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) Stats(ctx context.Context, userID uint64) (loanDomain.Stats, error) {
	var s loanDomain.Stats
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS approved,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending`,
			loanDomain.StatusApproved, loanDomain.StatusPending).
		Where("user_id = ?", userID).
		Scan(&s).Error
	return s, err
}
