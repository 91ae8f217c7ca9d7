package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/ids"
)

type testRepo struct {
	byID map[string]Offering
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Offering{}} }

func (r *testRepo) Get(_ context.Context, companyID, id string) (Offering, error) {
	o, ok := r.byID[id]
	if !ok || o.CompanyID != companyID {
		return Offering{}, tenancy.ErrNotFound
	}
	return o, nil
}

func (r *testRepo) List(_ context.Context, companyID string, q tenancy.ListQuery) ([]Offering, int, error) {
	out := make([]Offering, 0)
	for _, o := range r.byID {
		if o.CompanyID == companyID && o.Matches(q) {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (r *testRepo) Create(_ context.Context, o Offering) error {
	r.byID[o.ID] = o
	return nil
}

func (r *testRepo) Update(_ context.Context, o Offering) error {
	if _, ok := r.byID[o.ID]; !ok {
		return tenancy.ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *testRepo) Deactivate(_ context.Context, companyID, id string, now time.Time) error {
	o, ok := r.byID[id]
	if !ok || o.CompanyID != companyID {
		return tenancy.ErrNotFound
	}
	r.byID[id] = o.Deactivated(now)
	return nil
}

type ensured map[string]bool

func (e ensured) Ensure(_ context.Context, companyID string) error {
	e[companyID] = true
	return nil
}

func newTestService() (*Service, *testRepo, ensured) {
	repo := newTestRepo()
	tenants := ensured{}
	svc := NewService(repo, tenants, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo, tenants
}

func TestService_Create_DefaultsAndRounding(t *testing.T) {
	svc, _, tenants := newTestService()

	o, err := svc.Create(context.Background(), "comp-1", Input{Name: " Baño ", Category: "Grooming", Price: 25.456})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !ids.HasPrefix(o.ID, ids.Service) {
		t.Fatalf("expected svc_ id, got %s", o.ID)
	}
	if o.Price != 25.46 || o.Duration != DefaultDuration || !o.Active || o.Category != "grooming" || o.Name != "Baño" {
		t.Fatalf("unexpected offering %#v", o)
	}
	if !tenants["comp-1"] {
		t.Fatalf("expected company row to be ensured")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Create(context.Background(), "comp-1", Input{Name: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "comp-1", Input{Name: "x", Price: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative price, got %v", err)
	}
}

func TestService_TenantIsolation(t *testing.T) {
	svc, _, _ := newTestService()
	o, _ := svc.Create(context.Background(), "comp-1", Input{Name: "Consulta", Price: 40})

	if _, err := svc.Get(context.Background(), "comp-2", o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
	if err := svc.Deactivate(context.Background(), "comp-2", o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deactivating across tenants, got %v", err)
	}
}

func TestService_Deactivate_HidesFromPublicAndBooking(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o, _ := svc.Create(ctx, "comp-1", Input{Name: "Consulta", Price: 40})

	if err := svc.Deactivate(ctx, "comp-1", o.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	got, err := svc.Get(ctx, "comp-1", o.ID)
	if err != nil || got.Active {
		t.Fatalf("expected row kept with active=false, got %#v err=%v", got, err)
	}
	public, _ := svc.ListPublic(ctx, "comp-1")
	if len(public) != 0 {
		t.Fatalf("expected no public services, got %d", len(public))
	}
	if _, err := svc.GetBookable(ctx, "comp-1", o.ID); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}
