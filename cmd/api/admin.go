package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tuka-portal/internal/adapter/repository/gormrepo"
	"tuka-portal/internal/domain/user"
	"tuka-portal/internal/infrastructure/db"
	"tuka-portal/internal/usecase/auth"
)

var adminFlags struct {
	email    string
	password string
	role     string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := user.ParseRole(adminFlags.role)
		if err != nil || !role.Staff() {
			return fmt.Errorf("--role must be one of admin, super_admin, blog_admin, finance_admin")
		}
		_, gdb, err := boot()
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		uc := auth.NewUsecase(gormrepo.NewUserRepository(gdb))
		u, err := uc.CreateStaff(context.Background(), adminFlags.email, adminFlags.password, role)
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists\n", adminFlags.email)
			return nil
		case err != nil:
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (id %d, role %s)\n", u.Email, u.ID, u.Role)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "account email")
	f.StringVar(&adminFlags.password, "password", "", "account password")
	f.StringVar(&adminFlags.role, "role", string(user.RoleAdmin), "staff role")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
