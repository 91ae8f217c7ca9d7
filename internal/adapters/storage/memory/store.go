package memory

import (
	"pet-care-marketplace/internal/domain/catalog"
	"pet-care-marketplace/internal/domain/employees"
)

// Store agrupa todos los repos en memoria (DB_DSN vacío y tests e2e).
type Store struct {
	Companies *CompaniesRepo
	Services  *TenantStore[catalog.Offering]
	Employees *TenantStore[employees.Employee]
	Owners    *OwnersRepo
	Bookings  *BookingsRepo
	Reviews   *ReviewsRepo
	Analytics *AnalyticsRepo
	Waitlist  *WaitlistRepo
}

func NewStore() *Store {
	s := &Store{
		Companies: NewCompaniesRepo(),
		Services:  NewTenantStore[catalog.Offering](),
		Employees: NewTenantStore[employees.Employee](),
		Owners:    NewOwnersRepo(),
		Bookings:  NewBookingsRepo(),
		Reviews:   NewReviewsRepo(),
		Waitlist:  NewWaitlistRepo(),
	}
	s.Analytics = NewAnalyticsRepo(s.Bookings, s.Reviews, s.Services)
	return s
}
