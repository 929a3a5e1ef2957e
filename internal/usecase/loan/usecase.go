package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "tuka-portal/internal/domain/loan"
	"tuka-portal/internal/domain/uow"
	"tuka-portal/internal/infrastructure/storage"
	"tuka-portal/pkg/id"
	"tuka-portal/pkg/money"
)

const (
	dashboardRecent = 3
	// days, when the form leaves the period out
	defaultRepaymentPeriod = 30
)

func periodOrDefault(days int) int {
	if days <= 0 {
		return defaultRepaymentPeriod
	}
	return days
}

type Usecase struct {
	loans domain.Repository
	uow   uow.UnitOfWork
	store storage.Store
	rate  decimal.Decimal
	now   func() time.Time
}

// NewUsecase wires the applicant flows. rate is the interest applied to new
// applications; zero or negative means money.DefaultRate.
func NewUsecase(loans domain.Repository, tx uow.UnitOfWork, store storage.Store, rate float64) *Usecase {
	return &Usecase{
		loans: loans,
		uow:   tx,
		store: store,
		rate:  money.RateOrDefault(rate),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func requireField(v, name string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidForm, name)
	}
	return nil
}

func validateFields(t domain.Type, in ApplicationInput) error {
	switch t {
	case domain.TypePersonal:
		p := in.Personal
		for _, f := range []struct{ v, name string }{
			{p.FullName, "full_name"}, {p.Amount, "amount"}, {p.Purpose, "purpose"},
		} {
			if err := requireField(f.v, f.name); err != nil {
				return err
			}
		}
	case domain.TypeBusiness:
		b := in.Business
		for _, f := range []struct{ v, name string }{
			{b.BusinessName, "bus-name"}, {b.RegistrationNumber, "bus-reg"}, {b.Amount, "bus-amt"}, {b.Purpose, "bus-purpose"},
		} {
			if err := requireField(f.v, f.name); err != nil {
				return err
			}
		}
	}
	return nil
}

type matchedUpload struct {
	doc domain.Document
	up  Upload
}

// matchUploads pairs uploads with schema slots in schema order, dropping
// empty parts and fields the schema does not know. A Multiple slot keeps
// every part; any other slot keeps only its first.
func matchUploads(t domain.Type, uploads []Upload) []matchedUpload {
	out := make([]matchedUpload, 0, len(uploads))
	for _, doc := range domain.Documents(t) {
		for _, up := range uploads {
			if up.Field != doc.Key || strings.TrimSpace(up.Filename) == "" || up.Open == nil {
				continue
			}
			out = append(out, matchedUpload{doc: doc, up: up})
			if !doc.Multiple {
				break
			}
		}
	}
	return out
}

func requireDocuments(t domain.Type, matched []matchedUpload) error {
	have := make(map[string]bool, len(matched))
	for _, m := range matched {
		have[m.doc.Key] = true
	}
	for _, doc := range domain.Documents(t) {
		if doc.Required && !have[doc.Key] {
			return fmt.Errorf("%w: %s", domain.ErrMissingDocument, doc.Category)
		}
	}
	return nil
}

func collateralRows(t domain.Type, appID uint64, items []CollateralInput) []*domain.CollateralItem {
	var out []*domain.CollateralItem
	for _, c := range items {
		name := strings.TrimSpace(c.Name)
		if strings.EqualFold(name, "other") {
			name = strings.TrimSpace(c.OtherName)
		}
		if name == "" {
			continue
		}
		out = append(out, &domain.CollateralItem{
			ApplicationID:        appID,
			LoanType:             t,
			ItemName:             name,
			ItemType:             strings.TrimSpace(c.Type),
			EstimatedValue:       money.ParseAmount(c.Value).InexactFloat64(),
			ConditionDescription: strings.TrimSpace(c.Condition),
		})
	}
	return out
}

// amountOf returns the parsed requested amount for t.
func amountOf(t domain.Type, in ApplicationInput) decimal.Decimal {
	if t == domain.TypeBusiness {
		return money.ParseAmount(in.Business.Amount)
	}
	return money.ParseAmount(in.Personal.Amount)
}

func applyPersonal(d *domain.PersonalDetails, p PersonalInput, amount decimal.Decimal) {
	d.LoanAmount = amount.InexactFloat64()
	d.Purpose = strings.TrimSpace(p.Purpose)
	d.RepaymentPeriod = periodOrDefault(p.RepaymentPeriod)
	d.FullName = strings.TrimSpace(p.FullName)
	d.DateOfBirth = p.DateOfBirth
	d.NRCNumber = strings.TrimSpace(p.NRCNumber)
	d.Email = strings.TrimSpace(p.Email)
	d.PhoneNumber = strings.TrimSpace(p.Phone)
	d.ResidentialAddress = strings.TrimSpace(p.Address)
}

func applyBusiness(d *domain.BusinessDetails, b BusinessInput, amount decimal.Decimal) {
	d.BusinessName = strings.TrimSpace(b.BusinessName)
	d.RegistrationNumber = strings.TrimSpace(b.RegistrationNumber)
	d.LoanAmount = amount.InexactFloat64()
	d.Purpose = strings.TrimSpace(b.Purpose)
	d.RepaymentPeriod = periodOrDefault(b.RepaymentPeriod)
	d.ContactPerson = strings.TrimSpace(b.ContactPerson)
	d.ContactEmail = strings.TrimSpace(b.Email)
	d.ContactPhone = strings.TrimSpace(b.Phone)
	d.BusinessAddress = strings.TrimSpace(b.Address)
}

// Submit persists a new application with its detail row, collateral and
// documents in one transaction. Files written before a failure are removed.
func (u *Usecase) Submit(ctx context.Context, userID uint64, in ApplicationInput) (*ApplicationDTO, error) {
	t, err := domain.ParseType(in.LoanType)
	if err != nil {
		return nil, err
	}
	if err := validateFields(t, in); err != nil {
		return nil, err
	}
	matched := matchUploads(t, in.Uploads)
	if err := requireDocuments(t, matched); err != nil {
		return nil, err
	}
	sig, err := decodeSignature(in.SignatureData)
	if err != nil {
		return nil, err
	}

	now := u.now()
	amount := amountOf(t, in)
	a := &domain.Application{
		ApplicationNumber: id.ApplicationNumber(t.Prefix(), now),
		LoanType:          t,
		Status:            domain.StatusPending,
		UserID:            userID,
		InterestRate:      u.rate.InexactFloat64(),
		TotalRepayment:    money.TotalRepayment(amount, u.rate).InexactFloat64(),
		AppliedDate:       now,
	}
	fw := &fileWriter{store: u.store, number: a.ApplicationNumber}
	var added int

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, a); err != nil {
			return fmt.Errorf("create application: %w", err)
		}

		var sigPath string
		if sig != nil {
			p, err := fw.saveSignature(ctx, sig)
			if err != nil {
				return err
			}
			sigPath = p
		}
		terms := in.TermsAccepted || sig != nil
		var agreed *time.Time
		if terms {
			agreed = &now
		}

		switch t {
		case domain.TypePersonal:
			d := &domain.PersonalDetails{ApplicationID: a.ID, SignatureFile: sigPath, TermsAccepted: terms, AgreementDate: agreed}
			applyPersonal(d, in.Personal, amount)
			if err := r.Loans.CreatePersonal(ctx, d); err != nil {
				return fmt.Errorf("create personal details: %w", err)
			}
		case domain.TypeBusiness:
			d := &domain.BusinessDetails{ApplicationID: a.ID, SignatureFile: sigPath, TermsAccepted: terms, AgreementDate: agreed}
			applyBusiness(d, in.Business, amount)
			if err := r.Loans.CreateBusiness(ctx, d); err != nil {
				return fmt.Errorf("create business details: %w", err)
			}
		}

		for _, c := range collateralRows(t, a.ID, in.Collateral) {
			if err := r.Loans.CreateCollateral(ctx, c); err != nil {
				return fmt.Errorf("create collateral: %w", err)
			}
		}

		n, err := u.attach(ctx, r, fw, a.ID, matched, sig, sigPath)
		added = n
		return err
	})
	if err != nil {
		fw.discard(ctx)
		return nil, err
	}

	return &ApplicationDTO{
		ID:                a.ID,
		ApplicationNumber: a.ApplicationNumber,
		LoanType:          a.LoanType,
		Status:            a.Status,
		TotalRepayment:    a.TotalRepayment,
		AttachmentsAdded:  added,
	}, nil
}

// attach stores each matched upload and records one attachment row per file.
func (u *Usecase) attach(ctx context.Context, r uow.Repos, fw *fileWriter, appID uint64, matched []matchedUpload, sig *signature, sigPath string) (int, error) {
	n := 0
	if sig != nil {
		if err := r.Loans.CreateAttachment(ctx, &domain.Attachment{
			ApplicationID:    appID,
			DocumentCategory: domain.CategorySignature,
			FileName:         "signature" + sig.ext,
			FilePath:         sigPath,
		}); err != nil {
			return n, fmt.Errorf("create attachment: %w", err)
		}
		n++
	}
	for _, m := range matched {
		rel, err := fw.saveUpload(ctx, m.doc, m.up)
		if err != nil {
			return n, err
		}
		if err := r.Loans.CreateAttachment(ctx, &domain.Attachment{
			ApplicationID:    appID,
			DocumentCategory: m.doc.Category,
			FileName:         safeName(m.up.Filename),
			FilePath:         rel,
		}); err != nil {
			return n, fmt.Errorf("create attachment: %w", err)
		}
		n++
	}
	return n, nil
}

func checkEditable(a *domain.Application, userID uint64) error {
	if a.UserID != userID {
		return domain.ErrNotOwner
	}
	if !a.Editable() {
		return domain.ErrNotEditable
	}
	return nil
}

// GetEditable returns the full application when userID owns it and it is
// still pending.
func (u *Usecase) GetEditable(ctx context.Context, userID, appID uint64) (*domain.Application, error) {
	a, err := u.loans.GetDetail(ctx, appID)
	if err != nil {
		return nil, err
	}
	if err := checkEditable(a, userID); err != nil {
		return nil, err
	}
	return a, nil
}

// Edit rewrites the detail fields of a pending application, recomputes the
// repayment total and appends any new documents, collateral and signature.
// Earlier attachments are never replaced.
func (u *Usecase) Edit(ctx context.Context, userID, appID uint64, in ApplicationInput) (*ApplicationDTO, error) {
	var (
		dto *ApplicationDTO
		fw  *fileWriter
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Loans.GetDetail(ctx, appID)
		if err != nil {
			return err
		}
		if err := checkEditable(a, userID); err != nil {
			return err
		}
		if in.LoanType != "" && domain.Type(in.LoanType) != a.LoanType {
			return fmt.Errorf("%w: loan type cannot be changed", domain.ErrInvalidForm)
		}
		t := a.LoanType
		if err := validateFields(t, in); err != nil {
			return err
		}
		sig, err := decodeSignature(in.SignatureData)
		if err != nil {
			return err
		}
		matched := matchUploads(t, in.Uploads)

		now := u.now()
		amount := amountOf(t, in)
		rate := money.RateOrDefault(a.InterestRate)
		fw = &fileWriter{store: u.store, number: a.ApplicationNumber}

		var sigPath string
		if sig != nil {
			if sigPath, err = fw.saveSignature(ctx, sig); err != nil {
				return err
			}
		}

		switch t {
		case domain.TypePersonal:
			d := a.Personal
			if d == nil {
				d = &domain.PersonalDetails{ApplicationID: a.ID}
			}
			applyPersonal(d, in.Personal, amount)
			if sigPath != "" {
				d.SignatureFile, d.TermsAccepted, d.AgreementDate = sigPath, true, &now
			}
			if d.ID == 0 {
				err = r.Loans.CreatePersonal(ctx, d)
			} else {
				err = r.Loans.SavePersonal(ctx, d)
			}
		case domain.TypeBusiness:
			d := a.Business
			if d == nil {
				d = &domain.BusinessDetails{ApplicationID: a.ID}
			}
			applyBusiness(d, in.Business, amount)
			if sigPath != "" {
				d.SignatureFile, d.TermsAccepted, d.AgreementDate = sigPath, true, &now
			}
			if d.ID == 0 {
				err = r.Loans.CreateBusiness(ctx, d)
			} else {
				err = r.Loans.SaveBusiness(ctx, d)
			}
		}
		if err != nil {
			return fmt.Errorf("save details: %w", err)
		}

		for _, c := range collateralRows(t, a.ID, in.Collateral) {
			if err := r.Loans.CreateCollateral(ctx, c); err != nil {
				return fmt.Errorf("create collateral: %w", err)
			}
		}
		added, err := u.attach(ctx, r, fw, a.ID, matched, sig, sigPath)
		if err != nil {
			return err
		}

		a.Status = domain.StatusPending
		a.TotalRepayment = money.TotalRepayment(amount, rate).InexactFloat64()
		a.UpdatedDate = &now
		if err := r.Loans.Save(ctx, a); err != nil {
			return fmt.Errorf("save application: %w", err)
		}

		dto = &ApplicationDTO{
			ID:                a.ID,
			ApplicationNumber: a.ApplicationNumber,
			LoanType:          a.LoanType,
			Status:            a.Status,
			TotalRepayment:    a.TotalRepayment,
			AttachmentsAdded:  added,
		}
		return nil
	})
	if err != nil {
		if fw != nil {
			fw.discard(ctx)
		}
		return nil, err
	}
	return dto, nil
}

// ListMine returns the user's applications, newest first.
func (u *Usecase) ListMine(ctx context.Context, userID uint64) ([]domain.Summary, error) {
	return u.loans.List(ctx, domain.Filter{UserID: userID})
}

func (u *Usecase) Dashboard(ctx context.Context, userID uint64) (*DashboardDTO, error) {
	stats, err := u.loans.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := u.loans.List(ctx, domain.Filter{UserID: userID, Limit: dashboardRecent})
	if err != nil {
		return nil, err
	}
	return &DashboardDTO{Stats: stats, Recent: recent}, nil
}
