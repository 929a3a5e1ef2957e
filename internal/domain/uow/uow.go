package uow

import (
	"context"

	"tuka-portal/internal/domain/loan"
	"tuka-portal/internal/domain/user"
)

type Repos struct {
	Loans loan.Repository
	Users user.Repository
}

type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
