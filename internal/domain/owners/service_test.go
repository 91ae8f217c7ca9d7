package owners

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/ids"
)

type testRepo struct {
	owners map[string]PetOwner
	pets   map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{owners: map[string]PetOwner{}, pets: map[string]Pet{}}
}

func (r *testRepo) GetOwner(_ context.Context, id string) (PetOwner, error) {
	o, ok := r.owners[id]
	if !ok {
		return PetOwner{}, tenancy.ErrNotFound
	}
	return o, nil
}

func (r *testRepo) CreateOwnerIfAbsent(_ context.Context, o PetOwner) (PetOwner, error) {
	if cur, ok := r.owners[o.ID]; ok {
		return cur, nil
	}
	r.owners[o.ID] = o
	return o, nil
}

func (r *testRepo) UpdateOwner(_ context.Context, o PetOwner) error {
	for id, other := range r.owners {
		if id != o.ID && o.Email != "" && other.Email == o.Email {
			return tenancy.ErrDuplicate
		}
	}
	r.owners[o.ID] = o
	return nil
}

func (r *testRepo) CreatePet(_ context.Context, p Pet) error {
	r.pets[p.ID] = p
	return nil
}

func (r *testRepo) UpdatePet(_ context.Context, p Pet) error {
	if _, ok := r.pets[p.ID]; !ok {
		return tenancy.ErrNotFound
	}
	r.pets[p.ID] = p
	return nil
}

func (r *testRepo) DeletePet(_ context.Context, ownerID, id string) error {
	p, ok := r.pets[id]
	if !ok || p.OwnerID != ownerID {
		return tenancy.ErrNotFound
	}
	delete(r.pets, id)
	return nil
}

func (r *testRepo) GetPet(_ context.Context, ownerID, id string) (Pet, error) {
	p, ok := r.pets[id]
	if !ok || p.OwnerID != ownerID {
		return Pet{}, tenancy.ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListPets(_ context.Context, ownerID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestService_CreatePet_CreatesOwnerLazily(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.CreatePet(context.Background(), "own-1", "Owner@Mail.com", PetInput{
		Name:         "Milo",
		Species:      "Dog",
		Vaccinations: []string{"rabies", " "},
	})
	if err != nil {
		t.Fatalf("CreatePet error: %v", err)
	}
	if !ids.HasPrefix(p.ID, ids.Pet) || p.OwnerID != "own-1" {
		t.Fatalf("unexpected pet %#v", p)
	}
	if p.Species != "dog" || p.Sex != SexUnknown || len(p.Vaccinations) != 1 || p.Allergies == nil {
		t.Fatalf("unexpected normalization %#v", p)
	}
	if o, ok := repo.owners["own-1"]; !ok || o.Email != "owner@mail.com" {
		t.Fatalf("expected owner row created, got %#v", repo.owners)
	}
}

func TestService_CreatePet_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreatePet(ctx, "own-1", "", PetInput{Species: "dog"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for name, got %v", err)
	}
	if _, err := svc.CreatePet(ctx, "own-1", "", PetInput{Name: "Milo", Species: "dog", Sex: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for sex, got %v", err)
	}
}

func TestService_Pets_ScopedToOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, _ := svc.CreatePet(ctx, "own-1", "", PetInput{Name: "Milo", Species: "dog"})

	if _, err := svc.GetPet(ctx, "own-2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
	if err := svc.DeletePet(ctx, "own-2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting other owner's pet, got %v", err)
	}
	if err := svc.DeletePet(ctx, "own-1", p.ID); err != nil {
		t.Fatalf("DeletePet error: %v", err)
	}
	items, _ := svc.ListPets(ctx, "own-1")
	if len(items) != 0 {
		t.Fatalf("expected no pets after delete, got %d", len(items))
	}
}

func TestService_UpdateMe(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	o, err := svc.UpdateMe(ctx, "own-1", "a@b.com", OwnerInput{FirstName: "Lucia", City: "Lima"})
	if err != nil {
		t.Fatalf("UpdateMe error: %v", err)
	}
	if o.FirstName != "Lucia" || o.Email != "a@b.com" || o.City != "Lima" {
		t.Fatalf("unexpected owner %#v", o)
	}

	if _, err := svc.UpdateMe(ctx, "own-2", "", OwnerInput{FirstName: "X", Email: "a@b.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := svc.UpdateMe(ctx, "own-1", "", OwnerInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
