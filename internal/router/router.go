package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	mem "pet-care-marketplace/internal/adapters/storage/memory"
	pg "pet-care-marketplace/internal/adapters/storage/postgres"
	_ "pet-care-marketplace/internal/docs"
	"pet-care-marketplace/internal/domain/analytics"
	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/catalog"
	"pet-care-marketplace/internal/domain/companies"
	"pet-care-marketplace/internal/domain/currency"
	"pet-care-marketplace/internal/domain/employees"
	"pet-care-marketplace/internal/domain/owners"
	"pet-care-marketplace/internal/domain/reviews"
	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/domain/waitlist"
	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/platform/cache"
	"pet-care-marketplace/internal/platform/httpjson"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/platform/metrics"
	"pet-care-marketplace/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
	// Cache para analytics y tasas de cambio. nil => cache en memoria.
	Cache             cache.Cache
	AnalyticsCacheTTL time.Duration

	AllowedOrigins []string
	// TrustProxy habilita chimw.RealIP; sin proxy propio el cliente podría
	// falsear X-Forwarded-For y saltear el rate limit por IP.
	TrustProxy bool

	WaitlistRatePerMin int
	BaseCurrency       string
}

// repos agrupa los repositorios de todos los módulos, sea cual sea el backend.
type repos struct {
	companies companies.Repository
	services  tenancy.Repository[catalog.Offering]
	employees tenancy.Repository[employees.Employee]
	owners    owners.Repository
	bookings  interface {
		bookings.Repository
		employees.BookingReader
	}
	reviews   reviews.Repository
	analytics analytics.Repository
	waitlist  waitlist.Repository
}

func memoryRepos() repos {
	s := mem.NewStore()
	return repos{
		companies: s.Companies,
		services:  s.Services,
		employees: s.Employees,
		owners:    s.Owners,
		bookings:  s.Bookings,
		reviews:   s.Reviews,
		analytics: s.Analytics,
		waitlist:  s.Waitlist,
	}
}

func postgresRepos(db *sql.DB) repos {
	return repos{
		companies: pg.NewCompaniesRepo(db),
		services:  pg.NewServicesRepo(db),
		employees: pg.NewEmployeesRepo(db),
		owners:    pg.NewOwnersRepo(db),
		bookings:  pg.NewBookingsRepo(db),
		reviews:   pg.NewReviewsRepo(db),
		analytics: pg.NewAnalyticsRepo(db),
		waitlist:  pg.NewWaitlistRepo(db),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	rate := opts.WaitlistRatePerMin
	if rate <= 0 {
		rate = 10
	}
	base := opts.BaseCurrency
	if base == "" {
		base = currency.DefaultCode
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(metrics.HTTPMiddleware)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", healthHandler(opts.DB))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var rp repos
	if opts.DB != nil {
		rp = postgresRepos(opts.DB)
	} else {
		rp = memoryRepos()
	}

	// Services por módulo
	companiesSvc := companies.NewService(rp.companies, log)
	catalogSvc := catalog.NewService(rp.services, companiesSvc, log)
	employeesSvc := employees.NewService(rp.employees, rp.bookings, companiesSvc, log)
	ownersSvc := owners.NewService(rp.owners, log)
	bookingsSvc := bookings.NewService(rp.bookings, companiesSvc, catalogSvc, ownersSvc, employeesSvc, log)
	reviewsSvc := reviews.NewService(rp.reviews, bookingsSvc, companiesSvc, log)
	analyticsSvc := analytics.NewService(rp.analytics, rp.bookings, rp.reviews, log, analytics.Options{
		Cache: c,
		TTL:   opts.AnalyticsCacheTTL,
	})
	waitlistSvc := waitlist.NewService(rp.waitlist, log)
	currencySvc := currency.NewService(base, currency.StaticRates{}, c, time.Hour, log)

	// Cualquier cambio de reservas o reseñas invalida las métricas de la empresa.
	bookingsSvc.OnChange(analyticsSvc.Invalidate)
	reviewsSvc.OnChange(analyticsSvc.Invalidate)

	// Rutas por módulo
	r.Route("/api", func(api chi.Router) {
		api.Route("/companies", func(cr chi.Router) {
			companies.RegisterRoutes(cr, companiesSvc)
			catalog.RegisterPublicRoutes(cr, catalogSvc, companiesSvc)
			reviews.RegisterPublicRoutes(cr, reviewsSvc)
			analytics.RegisterRoutes(cr, analyticsSvc)
		})
		catalog.RegisterRoutes(api, catalogSvc)
		employees.RegisterRoutes(api, employeesSvc)
		owners.RegisterRoutes(api, ownersSvc)
		bookings.RegisterRoutes(api, bookingsSvc)
		reviews.RegisterRoutes(api, reviewsSvc)
		waitlist.RegisterRoutes(api, waitlistSvc, middleware.RateLimit(rate, log))
		currency.RegisterRoutes(api, currencySvc)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.NotFound(w, "Route not found")
	})

	return r
}

// healthHandler responde ok; con DB además hace ping.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				httpjson.Error(w, http.StatusServiceUnavailable, "Service Unavailable", "database unreachable")
				return
			}
		}
		httpjson.OK(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
