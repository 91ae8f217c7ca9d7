package employees

import (
	"strings"
	"time"

	"pet-care-marketplace/internal/domain/tenancy"
)

// WorkDay es {start, end} o {off:true}.
type WorkDay struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Off   bool   `json:"off,omitempty"`
}

// WorkingHours: weekday → turno. Se persiste como JSON.
type WorkingHours map[string]WorkDay

type Employee struct {
	ID        string
	CompanyID string

	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string

	Specialties  []string
	WorkingHours WorkingHours

	HourlyRate float64
	HireDate   string // YYYY-MM-DD, vacío si no se informó
	Notes      string

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) TenantID() string   { return e.CompanyID }
func (e Employee) EntityID() string   { return e.ID }
func (e Employee) Created() time.Time { return e.CreatedAt }

// UniqueKey: (companyId, email) es único, sin distinguir mayúsculas.
func (e Employee) UniqueKey() string { return strings.ToLower(strings.TrimSpace(e.Email)) }

func (e Employee) Matches(q tenancy.ListQuery) bool {
	if q.Active != nil && e.Active != *q.Active {
		return false
	}
	if p := q.Filters["position"]; p != "" && !strings.EqualFold(e.Position, p) {
		return false
	}
	if q.Search != "" && !tenancy.ContainsFold(e.FirstName+" "+e.LastName+" "+e.Email, q.Search) {
		return false
	}
	return true
}

func (e Employee) Deactivated(now time.Time) Employee {
	e.Active = false
	e.UpdatedAt = now
	return e
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Slot es una reserva abierta (pending/confirmed) asignada a un empleado.
type Slot struct {
	EmployeeID string
	Time       string // HH:MM
	Duration   int    // minutos
}

type Filter struct {
	Active   *bool
	Position string
	Search   string
}

// AvailabilityQuery: sin Date o Time se listan todos los activos.
type AvailabilityQuery struct {
	Date     string
	Time     string
	Duration int
}
