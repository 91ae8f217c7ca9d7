package catalog

import (
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
)

// Offering es un servicio que ofrece una empresa (grooming, consulta, guardería...).
type Offering struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Category    string
	Price       float64 // 2 decimales
	Duration    int     // minutos
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o Offering) TenantID() string   { return o.CompanyID }
func (o Offering) EntityID() string   { return o.ID }
func (o Offering) UniqueKey() string  { return "" }
func (o Offering) Created() time.Time { return o.CreatedAt }

func (o Offering) Matches(q tenancy.ListQuery) bool {
	if q.Active != nil && o.Active != *q.Active {
		return false
	}
	if c := q.Filters["category"]; c != "" && !strings.EqualFold(o.Category, c) {
		return false
	}
	if q.Search != "" && !tenancy.ContainsFold(o.Name+" "+o.Description, q.Search) {
		return false
	}
	return true
}

func (o Offering) Deactivated(now time.Time) Offering {
	o.Active = false
	o.UpdatedAt = now
	return o
}

// Filter son los filtros del listado de la empresa.
type Filter struct {
	Active   *bool
	Category string
	Search   string
}
