package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
)

var (
	ErrNotFound  = tenancy.ErrNotFound
	ErrDuplicate = tenancy.ErrDuplicate
)

// TenantStore implementa tenancy.Repository[T] una sola vez para cualquier entidad.
// Las filas se indexan por id; el companyId se valida en cada operación.
type TenantStore[T tenancy.Entity[T]] struct {
	mu   sync.RWMutex
	byID map[string]T
}

func NewTenantStore[T tenancy.Entity[T]]() *TenantStore[T] {
	return &TenantStore[T]{byID: make(map[string]T)}
}

func (s *TenantStore[T]) Get(_ context.Context, companyID, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	item, ok := s.byID[id]
	if !ok || item.TenantID() != companyID {
		return zero, ErrNotFound
	}
	return item, nil
}

// List devuelve la página pedida (más nuevos primero) y el total filtrado.
func (s *TenantStore[T]) List(_ context.Context, companyID string, q tenancy.ListQuery) ([]T, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]T, 0)
	for _, item := range s.byID {
		if item.TenantID() != companyID || !item.Matches(q) {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		ci, cj := matched[i].Created(), matched[j].Created()
		if ci.Equal(cj) {
			return matched[i].EntityID() > matched[j].EntityID()
		}
		return ci.After(cj)
	})

	return paginate(matched, q.Offset, q.Limit), len(matched), nil
}

func (s *TenantStore[T]) Create(_ context.Context, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(item.EntityID()) == "" {
		return ErrNotFound
	}
	if _, exists := s.byID[item.EntityID()]; exists {
		return ErrDuplicate
	}
	if s.conflicts(item) {
		return ErrDuplicate
	}
	s.byID[item.EntityID()] = item
	return nil
}

func (s *TenantStore[T]) Update(_ context.Context, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[item.EntityID()]
	if !ok || cur.TenantID() != item.TenantID() {
		return ErrNotFound
	}
	if s.conflicts(item) {
		return ErrDuplicate
	}
	s.byID[item.EntityID()] = item
	return nil
}

func (s *TenantStore[T]) Deactivate(_ context.Context, companyID, id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok || cur.TenantID() != companyID {
		return ErrNotFound
	}
	s.byID[id] = cur.Deactivated(now)
	return nil
}

// Snapshot copia todas las filas de un tenant (lo usan los repos que cruzan entidades).
func (s *TenantStore[T]) Snapshot(companyID string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for _, item := range s.byID {
		if item.TenantID() == companyID {
			out = append(out, item)
		}
	}
	return out
}

// conflicts: misma UniqueKey en el mismo tenant, con otro id. Requiere lock tomado.
func (s *TenantStore[T]) conflicts(item T) bool {
	key := item.UniqueKey()
	if key == "" {
		return false
	}
	for id, other := range s.byID {
		if id == item.EntityID() || other.TenantID() != item.TenantID() {
			continue
		}
		if other.UniqueKey() == key {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
