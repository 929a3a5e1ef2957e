package review

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	domain "tuka-portal/internal/domain/loan"
	"tuka-portal/internal/domain/uow"
	"tuka-portal/internal/infrastructure/storage"
)

type Usecase struct {
	loans domain.Repository
	uow   uow.UnitOfWork
	store storage.Store
	now   func() time.Time
}

func NewUsecase(loans domain.Repository, tx uow.UnitOfWork, store storage.Store) *Usecase {
	return &Usecase{
		loans: loans,
		uow:   tx,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List returns every application matching the optional filters, newest first.
// Filter values outside the closed enums are rejected.
func (u *Usecase) List(ctx context.Context, in ListInput) ([]domain.Summary, error) {
	var f domain.Filter
	if s := strings.TrimSpace(in.Status); s != "" {
		st, err := domain.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if s := strings.TrimSpace(in.LoanType); s != "" {
		t, err := domain.ParseType(s)
		if err != nil {
			return nil, err
		}
		f.LoanType = t
	}
	return u.loans.List(ctx, f)
}

func (u *Usecase) Detail(ctx context.Context, id uint64) (*DetailDTO, error) {
	a, err := u.loans.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DetailDTO{
		Application: a,
		DisplayName: a.DisplayName(),
		LoanAmount:  a.LoanAmount(),
		Documents:   a.AttachmentViews(),
	}, nil
}

// Decide records an admin decision. Any status may be revised later.
func (u *Usecase) Decide(ctx context.Context, id uint64, in DecideInput) (*DecisionDTO, error) {
	st, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	d := domain.Decision{
		Status:     st,
		AdminNotes: strings.TrimSpace(in.AdminNotes),
		DecidedBy:  in.AdminID,
		DecidedAt:  u.now(),
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.UpdateDecision(ctx, id, d); err != nil {
			return fmt.Errorf("update decision: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DecisionDTO{ID: id, Status: d.Status, AdminNotes: d.AdminNotes, DecisionBy: d.DecidedBy, DecisionDate: d.DecidedAt}, nil
}

// Delete removes the application and its dependent rows. Stored files are
// left in place.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Loans.Delete(ctx, id)
	})
}

// OpenAttachment opens a document by the path recorded on its row. Every
// lookup failure is reported as storage.ErrNotFound.
func (u *Usecase) OpenAttachment(ctx context.Context, stored string) (io.ReadCloser, string, error) {
	rel, err := storage.Resolve(ctx, u.store, domain.FolderLoans, stored)
	if err != nil {
		return nil, "", storage.ErrNotFound
	}
	rc, err := u.store.Open(ctx, rel)
	if err != nil {
		return nil, "", storage.ErrNotFound
	}
	return rc, path.Base(rel), nil
}
