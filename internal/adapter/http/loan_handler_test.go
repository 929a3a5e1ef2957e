package http

import (
	"fmt"
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	loandomain "tuka-portal/internal/domain/loan"
	"tuka-portal/internal/domain/user"
)

func (s *testServer) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := s.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestSubmit_RequiresLogin(t *testing.T) {
	s := newTestServer(t)
	if rec := s.postForm(t, "/finance/loans", personalForm(), nil); rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSubmit_PersonalCreated(t *testing.T) {
	s := newTestServer(t)
	ck := s.login(t, "jane@example.com", user.RoleClient)

	f := personalForm()
	f.fields["signature_data"] = []string{pngDataURI}
	got := s.submit(t, f, ck)

	if !strings.HasPrefix(got.ApplicationNumber, "PERS-") || got.Status != "pending" || got.LoanType != "personal" {
		t.Fatalf("unexpected body: %+v", got)
	}
	if got.TotalRepayment != 1950 || !strings.Contains(got.Message, got.ApplicationNumber) {
		t.Fatalf("total/message: %+v", got)
	}
	if n := s.count(t, &loandomain.PersonalDetails{}); n != 1 {
		t.Fatalf("personal rows = %d", n)
	}
	if n := s.count(t, &loandomain.BusinessDetails{}); n != 0 {
		t.Fatalf("business rows = %d", n)
	}
	if n := s.count(t, &loandomain.CollateralItem{}); n != 2 {
		t.Fatalf("collateral rows = %d", n)
	}
	// nrc_front + two photos + signature
	if n := s.count(t, &loandomain.Attachment{}); n != 4 {
		t.Fatalf("attachment rows = %d", n)
	}
	if v := testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("personal")); v != 1 {
		t.Fatalf("submission counter = %v", v)
	}
}

func TestSubmit_BusinessTotal(t *testing.T) {
	s := newTestServer(t)
	ck := s.login(t, "owner@example.com", user.RoleClient)
	got := s.submit(t, businessForm(), ck)
	if got.TotalRepayment != 13000 || !strings.HasPrefix(got.ApplicationNumber, "BUS-") {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestSubmit_Rejected(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(f *form)
		wantErr string
	}{
		{"unknown loan type", func(f *form) { f.fields["loan_type"] = []string{"car"} }, "validation failed"},
		{"missing loan type", func(f *form) { delete(f.fields, "loan_type") }, "invalid loan type"},
		{"bad dob", func(f *form) { f.fields["dob"] = []string{"01/04/1990"} }, "validation failed"},
		{"missing name", func(f *form) { delete(f.fields, "full_name") }, "full_name is required"},
		{"missing required document", func(f *form) { f.files = f.files[1:] }, "NRC Front"},
		{"bad signature", func(f *form) { f.fields["signature_data"] = []string{"not-a-data-uri"} }, "signature"},
	}
	s := newTestServer(t)
	ck := s.login(t, "jane@example.com", user.RoleClient)
	for _, tc := range cases {
		f := personalForm()
		tc.mutate(&f)
		rec := s.postForm(t, "/finance/loans", f, ck)
		if rec.Code != stdhttp.StatusUnprocessableEntity {
			t.Fatalf("%s: status = %d, want 422 (%s)", tc.name, rec.Code, rec.Body.String())
		}
		er := decode[ErrorResponse](t, rec)
		if !strings.Contains(er.Error, tc.wantErr) {
			t.Fatalf("%s: error = %q, want it to mention %q", tc.name, er.Error, tc.wantErr)
		}
	}
	if n := s.count(t, &loandomain.Application{}); n != 0 {
		t.Fatalf("rejected submissions persisted %d rows", n)
	}
}

func TestSubmit_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	ck := s.login(t, "jane@example.com", user.RoleClient)
	rec := s.do(stdhttp.MethodPost, "/finance/loans", strings.NewReader("--x\r\nbroken"), "multipart/form-data; boundary=x", ck)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmit_IdempotentReplay(t *testing.T) {
	s := newTestServer(t)
	ck := s.login(t, "jane@example.com", user.RoleClient)
	body, ct := personalForm().encode(t)
	raw := body.Bytes()
	reqID := strings.Repeat("c", 32)

	first := s.do(stdhttp.MethodPost, "/finance/loans", strings.NewReader(string(raw)), ct, ck, "Ax-Request-Id", reqID)
	second := s.do(stdhttp.MethodPost, "/finance/loans", strings.NewReader(string(raw)), ct, ck, "Ax-Request-Id", reqID)
	if first.Code != stdhttp.StatusCreated || second.Code != stdhttp.StatusCreated {
		t.Fatalf("codes = %d/%d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs")
	}
	if n := s.count(t, &loandomain.Application{}); n != 1 {
		t.Fatalf("applications = %d, want 1", n)
	}
}

func TestEdit_Flow(t *testing.T) {
	s := newTestServer(t)
	owner := s.login(t, "jane@example.com", user.RoleClient)
	other := s.login(t, "mallory@example.com", user.RoleClient)
	admin := s.login(t, "admin@example.com", user.RoleAdmin)

	app := s.submit(t, personalForm(), owner)
	editURL := fmt.Sprintf("/finance/loans/edit/%d", app.ID)

	if rec := s.do(stdhttp.MethodGet, editURL, nil, "", owner); rec.Code != stdhttp.StatusOK {
		t.Fatalf("owner GET edit => %d", rec.Code)
	}
	if rec := s.do(stdhttp.MethodGet, editURL, nil, "", other); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("other GET edit => %d, want 403", rec.Code)
	}
	if rec := s.do(stdhttp.MethodGet, "/finance/loans/edit/abc", nil, "", owner); rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("bad id => %d, want 400", rec.Code)
	}
	if rec := s.do(stdhttp.MethodGet, "/finance/loans/edit/9999", nil, "", owner); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("missing => %d, want 404", rec.Code)
	}

	f := personalForm()
	f.fields["amount"] = []string{"2,000"}
	f.files = []filePart{{"payslip", "slip.pdf", "slip"}}
	rec := s.postForm(t, editURL, f, owner)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("edit => %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[submitBody](t, rec); got.TotalRepayment != 2600 || got.Status != "pending" {
		t.Fatalf("edited = %+v", got)
	}
	if rec := s.postForm(t, editURL, f, other); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("other POST edit => %d, want 403", rec.Code)
	}

	if rec := s.doJSON(stdhttp.MethodPost, fmt.Sprintf("/admin/loans/%d", app.ID), map[string]string{"status": "approved"}, admin); rec.Code != stdhttp.StatusOK {
		t.Fatalf("approve => %d %s", rec.Code, rec.Body.String())
	}

	rec = s.postForm(t, editURL, f, owner)
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("edit approved => %d, want 409", rec.Code)
	}
	if er := decode[ErrorResponse](t, rec); er.Error != "application cannot be edited" {
		t.Fatalf("error = %q", er.Error)
	}
	if rec := s.do(stdhttp.MethodGet, editURL, nil, "", owner); rec.Code != stdhttp.StatusConflict {
		t.Fatalf("GET edit approved => %d, want 409", rec.Code)
	}

	var a loandomain.Application
	if err := s.db.Preload("Personal").First(&a, app.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a.Status != loandomain.StatusApproved || a.TotalRepayment != 2600 || a.Personal.LoanAmount != 2000 {
		t.Fatalf("row after rejected edit: %+v %+v", a, a.Personal)
	}
}

func TestDashboardAndMyLoans(t *testing.T) {
	s := newTestServer(t)
	ck := s.login(t, "jane@example.com", user.RoleClient)
	for i := 0; i < 4; i++ {
		s.submit(t, personalForm(), ck)
	}
	s.submit(t, businessForm(), s.login(t, "other@example.com", user.RoleClient))

	rec := s.do(stdhttp.MethodGet, "/finance/dashboard", nil, "", ck)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("dashboard => %d", rec.Code)
	}
	dash := decode[struct {
		Total   int64 `json:"total"`
		Pending int64 `json:"pending"`
		Recent  []struct {
			DisplayName string `json:"display_name"`
		} `json:"recent"`
	}](t, rec)
	if dash.Total != 4 || dash.Pending != 4 || len(dash.Recent) != 3 || dash.Recent[0].DisplayName != "Jane Phiri" {
		t.Fatalf("dashboard = %+v", dash)
	}

	rec = s.do(stdhttp.MethodGet, "/finance/my-loans", nil, "", ck)
	mine := decode[struct {
		Applications []struct {
			UserID uint64 `json:"user_id"`
		} `json:"applications"`
	}](t, rec)
	if rec.Code != stdhttp.StatusOK || len(mine.Applications) != 4 {
		t.Fatalf("my-loans => %d, %d rows", rec.Code, len(mine.Applications))
	}
}

func TestEligibility(t *testing.T) {
	s := newTestServer(t)
	ck := s.login(t, "jane@example.com", user.RoleClient)

	type result struct {
		Eligible bool   `json:"eligible"`
		Reason   string `json:"reason"`
		TotalDue string `json:"total_due"`
	}
	req := map[string]any{"cadence": "weekly", "period": 3, "revenue": 1000, "amount": "1500", "collateral_value": 2000}
	rec := s.doJSON(stdhttp.MethodPost, "/finance/eligibility", req, ck)
	got := decode[result](t, rec)
	if rec.Code != stdhttp.StatusOK || got.Eligible || got.Reason != "insufficient_collateral" || got.TotalDue != "2025" {
		t.Fatalf("scenario A => %d %+v", rec.Code, got)
	}

	req["collateral_value"] = 2500
	rec = s.doJSON(stdhttp.MethodPost, "/finance/eligibility", req, ck)
	if got := decode[result](t, rec); !got.Eligible || got.Reason != "ok" {
		t.Fatalf("scenario B => %+v", got)
	}

	for name, bad := range map[string]map[string]any{
		"cadence": {"cadence": "daily", "period": 3, "amount": 100},
		"period":  {"cadence": "weekly", "period": 0, "amount": 100},
		"amount":  {"cadence": "weekly", "period": 3, "amount": 0},
	} {
		if rec := s.doJSON(stdhttp.MethodPost, "/finance/eligibility", bad, ck); rec.Code != stdhttp.StatusUnprocessableEntity {
			t.Fatalf("%s => %d, want 422", name, rec.Code)
		}
	}
	if n := s.count(t, &loandomain.Application{}); n != 0 {
		t.Fatalf("eligibility persisted rows")
	}
}
