package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	loyaltyadapter "pet-clinic-billing/internal/adapters/loyalty"
	mem "pet-clinic-billing/internal/adapters/storage/memory"
	pg "pet-clinic-billing/internal/adapters/storage/postgres"
	"pet-clinic-billing/internal/domain/pets"
	"pet-clinic-billing/internal/domain/pricing"
	"pet-clinic-billing/internal/domain/quotes"
	"pet-clinic-billing/internal/domain/visits"
	"pet-clinic-billing/internal/middleware"
	"pet-clinic-billing/internal/platform/metrics"
	"pet-clinic-billing/internal/ports/auth"
	"pet-clinic-billing/internal/ports/loyalty"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger *zap.Logger

	Engine          pricing.Config
	BaseCharge      decimal.Decimal
	BasePricePerPet decimal.Decimal

	// Tiers es opcional; sin resolver todos los clientes usan DefaultTier.
	Tiers       loyalty.TierResolver
	DefaultTier pricing.Tier

	// Registry es opcional; si es nil se crea uno con los collectors de runtime.
	Registry *prometheus.Registry
}

func NewRouter(opts Options) (http.Handler, error) {
	reg := opts.Registry
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	var (
		petRepo   pets.Repository
		visitRepo visits.Repository
	)
	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		visitRepo = pg.NewVisitsRepo(opts.DB)
	} else {
		petRepo = mem.NewPetRepo()
		visitRepo = mem.NewVisitRepo()
	}

	tiers := opts.Tiers
	if tiers == nil {
		def := opts.DefaultTier
		if def.Name == "" {
			def = pricing.TierNew
		}
		tiers = loyaltyadapter.NewResolver(nil, def)
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	visitsSvc := visits.NewService(visitRepo)
	quotesSvc, err := quotes.NewService(quotes.Options{
		Pets:            petsSvc,
		Visits:          visitsSvc,
		Tiers:           tiers,
		Engine:          opts.Engine,
		BaseCharge:      opts.BaseCharge,
		BasePricePerPet: opts.BasePricePerPet,
		Metrics:         metrics.NewPricing(reg),
	})
	if err != nil {
		return nil, errors.Wrap(err, "quotes service")
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthContext(opts.AuthVerifier))

		// Rutas por módulo
		pets.RegisterRoutes(r, petsSvc)
		visits.RegisterRoutes(r, visitsSvc, petsSvc)
		quotes.RegisterRoutes(r, quotesSvc)
	})

	return r, nil
}
