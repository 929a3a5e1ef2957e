package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tuka-portal/internal/adapter/middleware"
	"tuka-portal/internal/adapter/repository/gormrepo"
	"tuka-portal/internal/domain/user"
	"tuka-portal/internal/infrastructure/db"
	"tuka-portal/internal/infrastructure/storage"
	"tuka-portal/internal/usecase/auth"
	"tuka-portal/internal/usecase/loan"
	"tuka-portal/internal/usecase/review"
)

const (
	testCookie = "tuka_session"
	testPass   = "password123"
	// 1x1 transparent PNG
	pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
)

// testServer is the whole HTTP stack on sqlite, a temp upload dir and miniredis.
type testServer struct {
	e       *echo.Echo
	db      *gorm.DB
	store   *storage.Disk
	metrics *middleware.Metrics
	auth    *auth.Usecase
}

func newTestServer(t *testing.T) *testServer {
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
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loans := gormrepo.NewLoanRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb)
	authUC := auth.NewUsecase(gormrepo.NewUserRepository(gdb))
	metrics := middleware.NewMetrics()
	sessions := middleware.NewSessionStore(rdb, middleware.SessionOptions{CookieName: testCookie, TTL: time.Hour})

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(metrics.Middleware())
	RegisterRoutes(e, Routes{
		Health:      NewHandler(),
		Auth:        NewAuthHandler(authUC, sessions),
		Loans:       NewLoanHandler(loan.NewUsecase(loans, tx, disk, 0.30), metrics),
		Eligibility: NewEligibilityHandler(),
		Review:      NewReviewHandler(review.NewUsecase(loans, tx, disk), metrics),
		Sessions:    sessions,
		Idempotency: middleware.IdempotencyMiddleware(rdb, time.Minute),
		Metrics:     metrics,
	})
	return &testServer{e: e, db: gdb, store: disk, metrics: metrics, auth: authUC}
}

func (s *testServer) do(method, path string, body io.Reader, contentType string, ck *stdhttp.Cookie, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if ck != nil {
		req.AddCookie(ck)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, path string, v any, ck *stdhttp.Cookie) *httptest.ResponseRecorder {
	b, _ := json.Marshal(v)
	return s.do(method, path, bytes.NewReader(b), echo.MIMEApplicationJSON, ck)
}

// login creates the account when needed and returns its session cookie.
func (s *testServer) login(t *testing.T, email string, role user.Role) *stdhttp.Cookie {
	t.Helper()
	ctx := context.Background()
	var err error
	if role == user.RoleClient {
		_, err = s.auth.Register(ctx, email, testPass)
	} else {
		_, err = s.auth.CreateStaff(ctx, email, testPass, role)
	}
	if err != nil && err != user.ErrEmailTaken {
		t.Fatalf("create %s: %v", email, err)
	}
	rec := s.doJSON(stdhttp.MethodPost, "/auth/login", map[string]string{"email": email, "password": testPass}, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("login %s => %d %s", email, rec.Code, rec.Body.String())
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testCookie {
			return ck
		}
	}
	t.Fatalf("login %s set no cookie", email)
	return nil
}

type filePart struct{ field, name, body string }

type form struct {
	fields map[string][]string
	files  []filePart
}

func (f form) encode(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, vs := range f.fields {
		for _, v := range vs {
			if err := w.WriteField(k, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	for _, p := range f.files {
		fw, err := w.CreateFormFile(p.field, p.name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = io.WriteString(fw, p.body)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return buf, w.FormDataContentType()
}

func (s *testServer) postForm(t *testing.T, path string, f form, ck *stdhttp.Cookie, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := f.encode(t)
	return s.do(stdhttp.MethodPost, path, body, ct, ck, hdr...)
}

func personalForm() form {
	return form{
		fields: map[string][]string{
			"loan_type":        {"personal"},
			"amount":           {"1,500"},
			"purpose":          {"school fees"},
			"repayment_period": {"30"},
			"full_name":        {"Jane Phiri"},
			"nrc":              {"123456/10/1"},
			"dob":              {"1990-04-01"},
			"collateral_name":  {"Laptop", "other"},
			"collateral_other": {"", "Bicycle"},
			"collateral_value": {"900", "300"},
			"terms_accepted":   {"on"},
		},
		files: []filePart{
			{"nrc_front", "nrc.png", "front-bytes"},
			{"collateral_photos", "laptop.jpg", "p1"},
			{"collateral_photos", "bike.jpg", "p2"},
		},
	}
}

func businessForm() form {
	return form{
		fields: map[string][]string{
			"loan_type":   {"business"},
			"bus-amt":     {"10,000"},
			"bus-purpose": {"inventory"},
			"bus-period":  {"90"},
			"bus-name":    {"Acme Ltd"},
			"bus-reg":     {"PACRA-1"},
		},
		files: []filePart{{"certificate_of_incorporation", "cert.pdf", "cert"}},
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

type submitBody struct {
	Message           string  `json:"message"`
	ID                uint64  `json:"id"`
	ApplicationNumber string  `json:"application_number"`
	LoanType          string  `json:"loan_type"`
	Status            string  `json:"status"`
	TotalRepayment    float64 `json:"total_repayment"`
}

// submit posts f as the session user and fails the test unless it is created.
func (s *testServer) submit(t *testing.T, f form, ck *stdhttp.Cookie) submitBody {
	t.Helper()
	rec := s.postForm(t, "/finance/loans", f, ck)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("submit => %d %s", rec.Code, rec.Body.String())
	}
	return decode[submitBody](t, rec)
}
