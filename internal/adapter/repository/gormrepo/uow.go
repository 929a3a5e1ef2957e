package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"tuka-portal/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(uow.Repos{
			Loans: &LoanRepository{db: tx},
			Users: &UserRepository{db: tx},
		})
	})
}
