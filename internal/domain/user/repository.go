package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// List returns every account, oldest first.
	List(ctx context.Context) ([]User, error)
	SetActive(ctx context.Context, id uint64, active bool) error
}
