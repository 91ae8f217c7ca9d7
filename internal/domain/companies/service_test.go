package companies

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]Company
	creates int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Company{}}
}

func (r *testRepo) Get(_ context.Context, id string) (Company, error) {
	c, ok := r.byID[id]
	if !ok {
		return Company{}, tenancy.ErrNotFound
	}
	return c, nil
}

func (r *testRepo) CreateIfAbsent(_ context.Context, c Company) (Company, error) {
	if cur, ok := r.byID[c.ID]; ok {
		return cur, nil
	}
	r.creates++
	r.byID[c.ID] = c
	return c, nil
}

func (r *testRepo) Update(_ context.Context, c Company) error {
	if _, ok := r.byID[c.ID]; !ok {
		return tenancy.ErrNotFound
	}
	for id, other := range r.byID {
		if id != c.ID && c.Email != "" && strings.EqualFold(other.Email, c.Email) {
			return tenancy.ErrDuplicate
		}
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) ListVerified(_ context.Context, q PublicQuery) ([]Company, int, error) {
	out := make([]Company, 0)
	for _, c := range r.byID {
		if c.Verified {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func completeInput() UpdateProfileInput {
	return UpdateProfileInput{
		Name:        "Happy Paws",
		Address:     "Av. Siempre Viva 742",
		City:        "Lima",
		Description: "Grooming y baños",
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_GetProfile_LazyCreateIsIdempotent(t *testing.T) {
	svc, repo := newTestService()

	first, err := svc.GetProfile(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("GetProfile error: %v", err)
	}
	if first.Verified {
		t.Fatalf("expected verified=false on a new profile")
	}
	if !reflect.DeepEqual(first.BusinessHours, DefaultBusinessHours()) {
		t.Fatalf("expected default business hours, got %#v", first.BusinessHours)
	}
	if first.SubscriptionPlan != DefaultPlan {
		t.Fatalf("expected plan %q, got %q", DefaultPlan, first.SubscriptionPlan)
	}

	second, err := svc.GetProfile(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("GetProfile #2 error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected same persisted row")
	}
	if repo.creates != 1 {
		t.Fatalf("expected exactly one insert, got %d", repo.creates)
	}
}

func TestDefaultBusinessHours_Shape(t *testing.T) {
	bh := DefaultBusinessHours()
	if bh["monday"] != (DayHours{Open: "09:00", Close: "17:00"}) {
		t.Fatalf("unexpected monday %#v", bh["monday"])
	}
	if bh["saturday"] != (DayHours{Open: "10:00", Close: "16:00"}) {
		t.Fatalf("unexpected saturday %#v", bh["saturday"])
	}
	if !bh["sunday"].Closed {
		t.Fatalf("expected sunday closed")
	}
	if len(bh) != 7 {
		t.Fatalf("expected 7 days, got %d", len(bh))
	}
}

func TestService_UpdateProfile_VerifiedFlag(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c, err := svc.UpdateProfile(ctx, "comp-1", completeInput())
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if !c.Verified || c.VerifiedAt == nil {
		t.Fatalf("expected verified with verifiedAt, got %v %v", c.Verified, c.VerifiedAt)
	}

	for _, field := range []string{"name", "address", "city", "description"} {
		in := completeInput()
		switch field {
		case "name":
			in.Name = "  "
		case "address":
			in.Address = ""
		case "city":
			in.City = ""
		case "description":
			in.Description = ""
		}
		c, err := svc.UpdateProfile(ctx, "comp-2-"+field, in)
		if err != nil {
			t.Fatalf("UpdateProfile(%s) error: %v", field, err)
		}
		if c.Verified {
			t.Fatalf("expected verified=false without %s", field)
		}
	}

	// Pierde la verificación al vaciar un campo.
	in := completeInput()
	in.Description = ""
	c, err = svc.UpdateProfile(ctx, "comp-1", in)
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if c.Verified || c.VerifiedAt != nil {
		t.Fatalf("expected verification cleared")
	}
}

func TestService_UpdateProfile_KeepsHoursWhenOmitted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	custom := BusinessHours{"monday": {Open: "08:00", Close: "12:00"}, "sunday": {Closed: true}}
	in := completeInput()
	in.BusinessHours = custom
	if _, err := svc.UpdateProfile(ctx, "comp-1", in); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}

	c, err := svc.UpdateProfile(ctx, "comp-1", completeInput())
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if !reflect.DeepEqual(c.BusinessHours, custom) {
		t.Fatalf("expected hours preserved, got %#v", c.BusinessHours)
	}
}

func TestService_UpdateProfile_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := completeInput()
	in.Email = "not-an-email"
	if _, err := svc.UpdateProfile(ctx, "comp-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for email, got %v", err)
	}

	in = completeInput()
	in.BusinessHours = BusinessHours{"monday": {Open: "18:00", Close: "09:00"}}
	if _, err := svc.UpdateProfile(ctx, "comp-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for hours, got %v", err)
	}

	in = completeInput()
	in.BusinessHours = BusinessHours{"funday": {Closed: true}}
	if _, err := svc.UpdateProfile(ctx, "comp-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown day, got %v", err)
	}

	// Una clave capitalizada volvería en minúscula; se rechaza.
	in = completeInput()
	in.BusinessHours = BusinessHours{"Monday": {Open: "08:00", Close: "12:00"}}
	if _, err := svc.UpdateProfile(ctx, "comp-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-lowercase day, got %v", err)
	}
}

func TestService_UpdateProfile_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := completeInput()
	in.Email = "hello@paws.com"
	if _, err := svc.UpdateProfile(ctx, "comp-1", in); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "comp-2", in); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestService_GetPublic_OnlyVerified(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.GetProfile(ctx, "draft"); err != nil {
		t.Fatalf("GetProfile error: %v", err)
	}
	if _, err := svc.GetPublic(ctx, "draft"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unverified, got %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, "ready", completeInput()); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if _, err := svc.GetPublic(ctx, "ready"); err != nil {
		t.Fatalf("expected verified company, got %v", err)
	}
}
