package loan

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tuka-portal/internal/adapter/repository/gormrepo"
	"tuka-portal/internal/infrastructure/db"
	"tuka-portal/internal/infrastructure/storage"
)

// 1x1 transparent PNG
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type fixture struct {
	db    *gorm.DB
	store *storage.Disk
	uc    *Usecase
}

func newFixture(t *testing.T) *fixture {
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
	disk, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	uc := NewUsecase(gormrepo.NewLoanRepository(gdb), gormrepo.NewGormUoW(gdb), disk, 0.30)
	return &fixture{db: gdb, store: disk, uc: uc}
}

func upload(field, name, body string) Upload {
	return Upload{
		Field:    field,
		Filename: name,
		Size:     int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func personalInput() ApplicationInput {
	return ApplicationInput{
		LoanType: "personal",
		Personal: PersonalInput{
			Amount: "1,500", Purpose: "school fees", RepaymentPeriod: 30,
			FullName: "Jane Phiri", NRCNumber: "123456/10/1", Email: "jane@example.com",
		},
		Collateral: []CollateralInput{
			{Name: "Laptop", Type: "electronics", Value: "K 900", Condition: "good"},
			{Name: "other", OtherName: "Bicycle", Value: "300"},
			{Name: "other", OtherName: "  "},
			{Name: ""},
		},
		Uploads: []Upload{
			upload("nrc_front", "nrc front.png", "front"),
			upload("payslip", "../../payslip.pdf", "slip"),
			upload("collateral_photos", "laptop.jpg", "p1"),
			upload("collateral_photos", "bike.jpg", "p2"),
			upload("unknown_field", "ignored.txt", "x"),
			upload("bank_statement", "", ""),
		},
	}
}

func businessInput() ApplicationInput {
	return ApplicationInput{
		LoanType: "business",
		Business: BusinessInput{
			Amount: "10,000", Purpose: "inventory", RepaymentPeriod: 90,
			BusinessName: "Acme Ltd", RegistrationNumber: "PACRA-1", ContactPerson: "Bob",
		},
		Uploads: []Upload{upload("certificate_of_incorporation", "cert.pdf", "cert")},
	}
}

func countWhere(t *testing.T, gdb *gorm.DB, model any, appID uint64) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Where("application_id = ?", appID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func mustExist(t *testing.T, s storage.Store, rel string) {
	t.Helper()
	ok, err := s.Exists(context.Background(), rel)
	if err != nil || !ok {
		t.Fatalf("expected %s to exist (err=%v)", rel, err)
	}
}
