package gormrepo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tuka-portal/internal/domain/loan"
	"tuka-portal/internal/domain/user"
	"tuka-portal/internal/infrastructure/db"
	"tuka-portal/pkg/id"
)

// openTestDB creates a file-backed sqlite DB per test with foreign keys on.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	gdb, err := db.OpenGorm("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{Email: email, PasswordHash: "x", Role: role, IsActive: true}
	if err := NewUserRepository(gdb).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func makeApplication(typ loan.Type, userID uint64) *loan.Application {
	return &loan.Application{
		ApplicationNumber: id.ApplicationNumber(typ.Prefix(), time.Now()),
		LoanType:          typ,
		Status:            loan.StatusPending,
		UserID:            userID,
		InterestRate:      0.30,
	}
}

// seedPersonal creates a pending personal application with one collateral
// item and one attachment.
func seedPersonal(t *testing.T, gdb *gorm.DB, userID uint64, name string, amount float64) *loan.Application {
	t.Helper()
	ctx := context.Background()
	repo := NewLoanRepository(gdb)

	a := makeApplication(loan.TypePersonal, userID)
	a.TotalRepayment = amount * 1.3
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create application: %v", err)
	}
	if err := repo.CreatePersonal(ctx, &loan.PersonalDetails{
		ApplicationID: a.ID, LoanAmount: amount, Purpose: "stock", RepaymentPeriod: 30, FullName: name,
	}); err != nil {
		t.Fatalf("create personal: %v", err)
	}
	if err := repo.CreateCollateral(ctx, &loan.CollateralItem{
		ApplicationID: a.ID, LoanType: loan.TypePersonal, ItemName: "Laptop", EstimatedValue: 900,
	}); err != nil {
		t.Fatalf("create collateral: %v", err)
	}
	if err := repo.CreateAttachment(ctx, &loan.Attachment{
		ApplicationID: a.ID, DocumentCategory: "NRC Front", FileName: "nrc.png", FilePath: a.ApplicationNumber + "/ab12cd34_nrc.png",
	}); err != nil {
		t.Fatalf("create attachment: %v", err)
	}
	return a
}

func seedBusiness(t *testing.T, gdb *gorm.DB, userID uint64, name string, amount float64) *loan.Application {
	t.Helper()
	ctx := context.Background()
	repo := NewLoanRepository(gdb)

	a := makeApplication(loan.TypeBusiness, userID)
	a.TotalRepayment = amount * 1.3
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create application: %v", err)
	}
	if err := repo.CreateBusiness(ctx, &loan.BusinessDetails{
		ApplicationID: a.ID, BusinessName: name, RegistrationNumber: "REG-1",
		LoanAmount: amount, Purpose: "expansion", RepaymentPeriod: 90,
	}); err != nil {
		t.Fatalf("create business: %v", err)
	}
	return a
}

func countRows(t *testing.T, gdb *gorm.DB, model any, appID uint64) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Where("application_id = ?", appID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
