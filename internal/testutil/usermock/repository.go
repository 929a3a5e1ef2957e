package usermock

import (
	"context"
	"errors"

	domain "tuka-portal/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnset = errors.New("usermock: method not configured")

// Repo is a function-backed mock that satisfies user.Repository.
type Repo struct {
	CreateFn     func(ctx context.Context, u *domain.User) error
	GetByIDFn    func(ctx context.Context, id uint64) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ListFn       func(ctx context.Context) ([]domain.User, error)
	SetActiveFn  func(ctx context.Context, id uint64, active bool) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ErrUnset
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, ErrUnset
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, ErrUnset
}

func (m *Repo) SetActive(ctx context.Context, id uint64, active bool) error {
	if m.SetActiveFn != nil {
		return m.SetActiveFn(ctx, id, active)
	}
	return ErrUnset
}
