package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("account is disabled")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfDeactivate     = errors.New("cannot disable your own account")
)

type Role string

const (
	RoleClient       Role = "client"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super_admin"
	RoleBlogAdmin    Role = "blog_admin"
	RoleFinanceAdmin Role = "finance_admin"
)

var roles = []Role{RoleClient, RoleAdmin, RoleSuperAdmin, RoleBlogAdmin, RoleFinanceAdmin}

func (r Role) Valid() bool {
	for _, v := range roles {
		if r == v {
			return true
		}
	}
	return false
}

// Staff reports whether r is any role other than client.
func (r Role) Staff() bool { return r.Valid() && r != RoleClient }

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// LoanReviewers may reach the admin loan routes.
var LoanReviewers = []Role{RoleAdmin, RoleSuperAdmin, RoleFinanceAdmin}

type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"`
	Role         Role      `gorm:"column:role;size:32;not null;default:'client'" json:"role"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
