package bookings

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	default:
		return "", false
	}
}

// IsOpen: la reserva todavía ocupa agenda (pending o confirmed).
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusConfirmed
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition define la máquina de estados de una reserva.
// completed y cancelled son finales.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Booking es la tabla de hechos de la analítica.
type Booking struct {
	ID         string
	CompanyID  string
	ServiceID  string
	PetOwnerID string
	PetID      string
	EmployeeID string // vacío = sin asignar

	Status   Status
	Date     string // YYYY-MM-DD
	Time     string // HH:MM
	Duration int    // minutos, snapshot del servicio

	TotalAmount float64
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Query filtra el listado de la empresa. Fechas inclusivas YYYY-MM-DD.
type Query struct {
	Status   Status
	Date     string
	DateFrom string
	DateTo   string
	Offset   int
	Limit    int
}
