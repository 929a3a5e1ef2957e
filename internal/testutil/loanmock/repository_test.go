package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "tuka-portal/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	a := &domain.Application{ApplicationNumber: "PERS-1"}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Application) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Create ctx mismatch")
			}
			if got != a {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, a); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, a); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetDetail(t *testing.T) {
	ctx := context.Background()
	want := &domain.Application{ID: 7}

	m := &Repo{
		GetDetailFn: func(_ context.Context, id uint64) (*domain.Application, error) {
			if id != 7 {
				t.Fatalf("GetDetail id mismatch: got %d", id)
			}
			return want, nil
		},
	}
	got, err := m.GetDetail(ctx, 7)
	if err != nil || got != want {
		t.Fatalf("GetDetail: got %+v, %v", got, err)
	}

	m = &Repo{}
	if got, err := m.GetDetail(ctx, 7); !errors.Is(err, ErrUnset) || got != nil {
		t.Fatalf("GetDetail default: got %+v, %v", got, err)
	}
}

func TestRepo_DefaultsForUnsetMethods(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	writes := []error{
		m.Save(ctx, &domain.Application{}),
		m.CreatePersonal(ctx, &domain.PersonalDetails{}),
		m.SavePersonal(ctx, &domain.PersonalDetails{}),
		m.CreateBusiness(ctx, &domain.BusinessDetails{}),
		m.SaveBusiness(ctx, &domain.BusinessDetails{}),
		m.CreateCollateral(ctx, &domain.CollateralItem{}),
		m.CreateAttachment(ctx, &domain.Attachment{}),
		m.UpdateDecision(ctx, 1, domain.Decision{}),
		m.Delete(ctx, 1),
	}
	for i, err := range writes {
		if err != nil {
			t.Fatalf("write %d: want nil, got %v", i, err)
		}
	}
	if _, err := m.GetByID(ctx, 1); !errors.Is(err, ErrUnset) {
		t.Fatalf("GetByID default: %v", err)
	}
	if _, err := m.List(ctx, domain.Filter{}); !errors.Is(err, ErrUnset) {
		t.Fatalf("List default: %v", err)
	}
	if _, err := m.Stats(ctx, 1); !errors.Is(err, ErrUnset) {
		t.Fatalf("Stats default: %v", err)
	}
}

func TestRepo_UpdateDecisionPassesArgs(t *testing.T) {
	var gotID uint64
	var gotDecision domain.Decision
	m := &Repo{UpdateDecisionFn: func(_ context.Context, id uint64, d domain.Decision) error {
		gotID, gotDecision = id, d
		return nil
	}}
	d := domain.Decision{Status: domain.StatusApproved, AdminNotes: "ok", DecidedBy: 3}
	if err := m.UpdateDecision(context.Background(), 11, d); err != nil {
		t.Fatalf("UpdateDecision: %v", err)
	}
	if gotID != 11 || gotDecision != d {
		t.Fatalf("args not forwarded: %d %+v", gotID, gotDecision)
	}
}
