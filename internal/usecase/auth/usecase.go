// Package auth registers applicants, authenticates logins and seeds staff
// accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	domain "tuka-portal/internal/domain/user"
)

type UserDTO struct {
	ID       uint64      `json:"id"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

func toDTO(u *domain.User) *UserDTO {
	return &UserDTO{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive}
}

type Usecase struct {
	users domain.Repository
	cost  int
}

func NewUsecase(users domain.Repository) *Usecase {
	return &Usecase{users: users, cost: bcrypt.DefaultCost}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (u *Usecase) create(ctx context.Context, email, password string, role domain.Role) (*UserDTO, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	usr := &domain.User{Email: email, PasswordHash: string(hash), Role: role, IsActive: true}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}

// Register creates a client account. Public sign-up never grants a staff role.
func (u *Usecase) Register(ctx context.Context, email, password string) (*UserDTO, error) {
	return u.create(ctx, email, password, domain.RoleClient)
}

// CreateStaff seeds an account with one of the staff roles.
func (u *Usecase) CreateStaff(ctx context.Context, email, password string, role domain.Role) (*UserDTO, error) {
	if !role.Staff() {
		return nil, domain.ErrInvalidRole
	}
	return u.create(ctx, email, password, role)
}

// Authenticate checks the credentials of an active account.
func (u *Usecase) Authenticate(ctx context.Context, email, password string) (*UserDTO, error) {
	usr, err := u.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, domain.ErrInactive
	}
	return toDTO(usr), nil
}

func (u *Usecase) Me(ctx context.Context, id uint64) (*UserDTO, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}

// ListUsers returns every account for the super-admin user page.
func (u *Usecase) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *toDTO(&users[i]))
	}
	return out, nil
}

// SetActive enables or disables a login. An admin cannot lock themselves out.
func (u *Usecase) SetActive(ctx context.Context, actorID, targetID uint64, active bool) (*UserDTO, error) {
	if actorID == targetID && !active {
		return nil, domain.ErrSelfDeactivate
	}
	if err := u.users.SetActive(ctx, targetID, active); err != nil {
		return nil, err
	}
	return u.Me(ctx, targetID)
}
