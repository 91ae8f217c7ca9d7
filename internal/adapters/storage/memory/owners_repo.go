package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-care-marketplace/internal/domain/owners"
)

// OwnersRepo guarda dueños y mascotas; borrar un dueño no está expuesto.
type OwnersRepo struct {
	mu     sync.RWMutex
	owners map[string]owners.PetOwner
	pets   map[string]owners.Pet
}

func NewOwnersRepo() *OwnersRepo {
	return &OwnersRepo{
		owners: make(map[string]owners.PetOwner),
		pets:   make(map[string]owners.Pet),
	}
}

func (r *OwnersRepo) GetOwner(_ context.Context, id string) (owners.PetOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.owners[id]
	if !ok {
		return owners.PetOwner{}, ErrNotFound
	}
	return o, nil
}

func (r *OwnersRepo) CreateOwnerIfAbsent(_ context.Context, o owners.PetOwner) (owners.PetOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.owners[o.ID]; ok {
		return cur, nil
	}
	if r.emailTaken(o.ID, o.Email) {
		return owners.PetOwner{}, ErrDuplicate
	}
	r.owners[o.ID] = o
	return o, nil
}

func (r *OwnersRepo) UpdateOwner(_ context.Context, o owners.PetOwner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owners[o.ID]; !ok {
		return ErrNotFound
	}
	if r.emailTaken(o.ID, o.Email) {
		return ErrDuplicate
	}
	r.owners[o.ID] = o
	return nil
}

func (r *OwnersRepo) CreatePet(_ context.Context, p owners.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return ErrNotFound
	}
	if _, ok := r.owners[p.OwnerID]; !ok {
		return ErrNotFound
	}
	if _, exists := r.pets[p.ID]; exists {
		return ErrDuplicate
	}
	r.pets[p.ID] = p
	return nil
}

func (r *OwnersRepo) UpdatePet(_ context.Context, p owners.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.pets[p.ID]
	if !ok || cur.OwnerID != p.OwnerID {
		return ErrNotFound
	}
	r.pets[p.ID] = p
	return nil
}

func (r *OwnersRepo) DeletePet(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.pets[id]
	if !ok || cur.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.pets, id)
	return nil
}

func (r *OwnersRepo) GetPet(_ context.Context, ownerID, id string) (owners.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pets[id]
	if !ok || p.OwnerID != ownerID {
		return owners.Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *OwnersRepo) ListPets(_ context.Context, ownerID string) ([]owners.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]owners.Pet, 0)
	for _, p := range r.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// emailTaken requiere lock tomado.
func (r *OwnersRepo) emailTaken(id, email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	for otherID, o := range r.owners {
		if otherID != id && strings.EqualFold(o.Email, email) {
			return true
		}
	}
	return false
}
