package loanmock

import (
	"context"
	"errors"

	domain "tuka-portal/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// ErrUnset is returned by read methods whose function field is nil.
var ErrUnset = errors.New("loanmock: method not configured")

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writes succeed as no-ops; unset reads return ErrUnset.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Application) error
	SaveFn             func(ctx context.Context, a *domain.Application) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Application, error)
	GetDetailFn        func(ctx context.Context, id uint64) (*domain.Application, error)
	CreatePersonalFn   func(ctx context.Context, d *domain.PersonalDetails) error
	SavePersonalFn     func(ctx context.Context, d *domain.PersonalDetails) error
	CreateBusinessFn   func(ctx context.Context, d *domain.BusinessDetails) error
	SaveBusinessFn     func(ctx context.Context, d *domain.BusinessDetails) error
	CreateCollateralFn func(ctx context.Context, c *domain.CollateralItem) error
	CreateAttachmentFn func(ctx context.Context, at *domain.Attachment) error
	UpdateDecisionFn   func(ctx context.Context, id uint64, d domain.Decision) error
	DeleteFn           func(ctx context.Context, id uint64) error
	ListFn             func(ctx context.Context, f domain.Filter) ([]domain.Summary, error)
	StatsFn            func(ctx context.Context, userID uint64) (domain.Stats, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Application) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ErrUnset
}

func (m *Repo) GetDetail(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetDetailFn != nil {
		return m.GetDetailFn(ctx, id)
	}
	return nil, ErrUnset
}

func (m *Repo) CreatePersonal(ctx context.Context, d *domain.PersonalDetails) error {
	if m.CreatePersonalFn != nil {
		return m.CreatePersonalFn(ctx, d)
	}
	return nil
}

func (m *Repo) SavePersonal(ctx context.Context, d *domain.PersonalDetails) error {
	if m.SavePersonalFn != nil {
		return m.SavePersonalFn(ctx, d)
	}
	return nil
}

func (m *Repo) CreateBusiness(ctx context.Context, d *domain.BusinessDetails) error {
	if m.CreateBusinessFn != nil {
		return m.CreateBusinessFn(ctx, d)
	}
	return nil
}

func (m *Repo) SaveBusiness(ctx context.Context, d *domain.BusinessDetails) error {
	if m.SaveBusinessFn != nil {
		return m.SaveBusinessFn(ctx, d)
	}
	return nil
}

func (m *Repo) CreateCollateral(ctx context.Context, c *domain.CollateralItem) error {
	if m.CreateCollateralFn != nil {
		return m.CreateCollateralFn(ctx, c)
	}
	return nil
}

func (m *Repo) CreateAttachment(ctx context.Context, at *domain.Attachment) error {
	if m.CreateAttachmentFn != nil {
		return m.CreateAttachmentFn(ctx, at)
	}
	return nil
}

func (m *Repo) UpdateDecision(ctx context.Context, id uint64, d domain.Decision) error {
	if m.UpdateDecisionFn != nil {
		return m.UpdateDecisionFn(ctx, id, d)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Summary, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, ErrUnset
}

func (m *Repo) Stats(ctx context.Context, userID uint64) (domain.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, userID)
	}
	return domain.Stats{}, ErrUnset
}
