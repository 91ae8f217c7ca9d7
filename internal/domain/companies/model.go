package companies

import (
	"strings"
	"time"

	"pet-care-marketplace/internal/platform/validation"
)

// Weekdays en el orden en que se muestran.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayHours es {open, close} o {closed:true}.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// BusinessHours: weekday → horario. Se persiste como JSON.
type BusinessHours map[string]DayHours

// DefaultBusinessHours: lun–vie 09–17, sáb 10–16, dom cerrado.
func DefaultBusinessHours() BusinessHours {
	bh := BusinessHours{}
	for _, d := range Weekdays[:5] {
		bh[d] = DayHours{Open: "09:00", Close: "17:00"}
	}
	bh["saturday"] = DayHours{Open: "10:00", Close: "16:00"}
	bh["sunday"] = DayHours{Closed: true}
	return bh
}

// Validate revisa claves (weekday en minúscula) y formato HH:MM.
func (bh BusinessHours) Validate() error {
	known := map[string]bool{}
	for _, d := range Weekdays {
		known[d] = true
	}
	for day, h := range bh {
		// Claves exactas en minúscula: lo que se guarda es lo que se devuelve.
		if !known[day] {
			return invalid("businessHours: unknown day " + day + " (use lowercase weekday names)")
		}
		if h.Closed {
			continue
		}
		open, okO := validation.ParseHHMM(h.Open)
		closeAt, okC := validation.ParseHHMM(h.Close)
		if !okO || !okC {
			return invalid("businessHours: " + day + " requires open and close as HH:MM")
		}
		if closeAt <= open {
			return invalid("businessHours: " + day + " close must be after open")
		}
	}
	return nil
}

const DefaultPlan = "basic"

// Company es el tenant. Su id es el uid del principal con rol company.
type Company struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Address     string
	City        string
	State       string
	ZipCode     string
	Country     string
	Website     string
	Description string

	BusinessHours BusinessHours
	Images        []string

	Verified   bool
	VerifiedAt *time.Time

	SubscriptionPlan string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsComplete: el perfil tiene los cuatro campos que habilitan la verificación.
func (c Company) IsComplete() bool {
	for _, v := range []string{c.Name, c.Address, c.City, c.Description} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// PublicQuery filtra el listado del marketplace (sólo verificadas).
type PublicQuery struct {
	City   string
	Search string
	Offset int
	Limit  int
}
