package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-care-marketplace/internal/domain/companies"
	"pet-care-marketplace/internal/domain/tenancy"
)

type CompaniesRepo struct {
	mu   sync.RWMutex
	byID map[string]companies.Company
}

func NewCompaniesRepo() *CompaniesRepo {
	return &CompaniesRepo{byID: make(map[string]companies.Company)}
}

func (r *CompaniesRepo) Get(_ context.Context, id string) (companies.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return companies.Company{}, ErrNotFound
	}
	return c, nil
}

func (r *CompaniesRepo) CreateIfAbsent(_ context.Context, c companies.Company) (companies.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.byID[c.ID]; ok {
		return cur, nil
	}
	if r.emailTaken(c.ID, c.Email) {
		return companies.Company{}, ErrDuplicate
	}
	r.byID[c.ID] = c
	return c, nil
}

func (r *CompaniesRepo) Update(_ context.Context, c companies.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; !ok {
		return ErrNotFound
	}
	if r.emailTaken(c.ID, c.Email) {
		return ErrDuplicate
	}
	r.byID[c.ID] = c
	return nil
}

func (r *CompaniesRepo) ListVerified(_ context.Context, q companies.PublicQuery) ([]companies.Company, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]companies.Company, 0)
	for _, c := range r.byID {
		if !c.Verified {
			continue
		}
		if q.City != "" && !strings.EqualFold(c.City, q.City) {
			continue
		}
		if q.Search != "" && !tenancy.ContainsFold(c.Name+" "+c.Description, q.Search) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, q.Offset, q.Limit), len(out), nil
}

// emailTaken: email único entre empresas cuando no está vacío. Requiere lock tomado.
func (r *CompaniesRepo) emailTaken(id, email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	for otherID, o := range r.byID {
		if otherID != id && strings.EqualFold(o.Email, email) {
			return true
		}
	}
	return false
}
