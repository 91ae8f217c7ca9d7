package analytics

import "time"

const (
	DefaultDays = 30
	MaxDays     = 365

	TopServicesLimit   = 5
	latestReviewsLimit = 5
	upcomingDays       = 7
)

const dateLayout = "2006-01-02"

// Window es el rango [Start, ∞) en fechas de reserva; Start = hoy(UTC) - Days.
type Window struct {
	Days  int
	Today string
	Start string
}

func NewWindow(now time.Time, days int) Window {
	if days < 1 {
		days = DefaultDays
	}
	if days > MaxDays {
		days = MaxDays
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return Window{
		Days:  days,
		Today: today.Format(dateLayout),
		Start: today.AddDate(0, 0, -days).Format(dateLayout),
	}
}

// StartTime es el inicio de la ventana como instante (para created_at).
func (w Window) StartTime() time.Time {
	t, _ := time.Parse(dateLayout, w.Start)
	return t
}

type Overview struct {
	TotalBookings      int     `json:"totalBookings"`
	PeriodBookings     int     `json:"periodBookings"`
	TotalRevenue       float64 `json:"totalRevenue"`
	PeriodRevenue      float64 `json:"periodRevenue"`
	AverageRating      float64 `json:"averageRating"`
	TotalReviews       int     `json:"totalReviews"`
	NewCustomers       int     `json:"newCustomers"`
	ReturningCustomers int     `json:"returningCustomers"`
}

type DayRevenue struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type ServiceCount struct {
	ServiceID string  `json:"serviceId"`
	Name      string  `json:"name"`
	Bookings  int     `json:"bookings"`
	Revenue   float64 `json:"revenue"`
}

type Stats struct {
	Days               int            `json:"days"`
	BookingsByStatus   map[string]int `json:"bookingsByStatus"`
	RevenueByDay       []DayRevenue   `json:"revenueByDay"`
	TopServices        []ServiceCount `json:"topServices"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}

type BookingSummary struct {
	ID          string  `json:"id"`
	ServiceID   string  `json:"serviceId"`
	PetOwnerID  string  `json:"petOwnerId"`
	PetID       string  `json:"petId"`
	EmployeeID  string  `json:"employeeId,omitempty"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Duration    int     `json:"duration"`
	TotalAmount float64 `json:"totalAmount"`
}

type ReviewSummary struct {
	ID         string    `json:"id"`
	PetOwnerID string    `json:"petOwnerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Dashboard struct {
	Overview         Overview         `json:"overview"`
	TodayBookings    []BookingSummary `json:"todayBookings"`
	UpcomingBookings []BookingSummary `json:"upcomingBookings"`
	RecentReviews    []ReviewSummary  `json:"recentReviews"`
}
