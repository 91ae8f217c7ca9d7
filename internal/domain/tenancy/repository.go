// Package tenancy define el contrato de acceso a datos con scope de empresa.
// Toda lectura y escritura sobre tablas de un tenant recibe el companyId del
// principal autenticado; nunca se resuelve un registro sólo por id.
package tenancy

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	ErrNoTenant  = errors.New("company id required")
)

// ListQuery filtra un listado de tenant. Filters son igualdades exactas
// por nombre de campo (position, category, ...).
type ListQuery struct {
	Offset  int
	Limit   int
	Active  *bool
	Search  string
	Filters map[string]string
}

// Entity es lo que necesita la implementación genérica para operar sobre T.
type Entity[T any] interface {
	TenantID() string
	EntityID() string
	// UniqueKey devuelve la clave única dentro del tenant ("" = sin restricción).
	UniqueKey() string
	Matches(q ListQuery) bool
	Created() time.Time
	Deactivated(now time.Time) T
}

// Repository es el CRUD genérico por tenant.
// Deactivate es soft delete (active=false), nunca borra la fila.
type Repository[T any] interface {
	Get(ctx context.Context, companyID, id string) (T, error)
	List(ctx context.Context, companyID string, q ListQuery) ([]T, int, error)
	Create(ctx context.Context, item T) error
	Update(ctx context.Context, item T) error
	Deactivate(ctx context.Context, companyID, id string, now time.Time) error
}

// Ensurer garantiza que la fila de la empresa exista antes de escribir
// filas hijas (FK company_id).
type Ensurer interface {
	Ensure(ctx context.Context, companyID string) error
}

// Scope normaliza y valida el companyId.
func Scope(companyID string) (string, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return "", ErrNoTenant
	}
	return companyID, nil
}

// ContainsFold: búsqueda case-insensitive para filtros Search en memoria.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}
