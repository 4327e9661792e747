package quotes

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pet-clinic-billing/internal/domain/pets"
	"pet-clinic-billing/internal/domain/pricing"
	"pet-clinic-billing/internal/domain/visits"
	"pet-clinic-billing/internal/platform/logger"
	"pet-clinic-billing/internal/platform/metrics"
	"pet-clinic-billing/internal/ports/loyalty"
)

var ErrTierUnavailable = errors.New("loyalty tier unavailable")

type PetLister interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
}

type VisitLister interface {
	ActiveByPet(ctx context.Context, petID string) ([]visits.Visit, error)
}

type Options struct {
	Pets   PetLister
	Visits VisitLister
	Tiers  loyalty.TierResolver

	Engine          pricing.Config
	BaseCharge      decimal.Decimal
	BasePricePerPet decimal.Decimal

	// Metrics es opcional.
	Metrics *metrics.Pricing
}

type Service struct {
	pets   PetLister
	visits VisitLister
	tiers  loyalty.TierResolver

	calculators     map[pricing.Kind]pricing.Calculator
	baseCharge      decimal.Decimal
	basePricePerPet decimal.Decimal

	metrics *metrics.Pricing
	now     func() time.Time
}

func NewService(opts Options) (*Service, error) {
	if opts.Pets == nil || opts.Visits == nil || opts.Tiers == nil {
		return nil, errors.New("quotes: pets, visits and tiers are required")
	}

	calcs := make(map[pricing.Kind]pricing.Calculator, len(pricing.Kinds()))
	for _, k := range pricing.Kinds() {
		c, err := pricing.New(k, opts.Engine)
		if err != nil {
			return nil, errors.Wrapf(err, "calculator %s", k)
		}
		calcs[k] = c
	}

	return &Service{
		pets:            opts.Pets,
		visits:          opts.Visits,
		tiers:           opts.Tiers,
		calculators:     calcs,
		baseCharge:      opts.BaseCharge,
		basePricePerPet: opts.BasePricePerPet,
		metrics:         opts.Metrics,
		now:             time.Now,
	}, nil
}

// WithClock fija la fecha de evaluación de las cotizaciones.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Quote(ctx context.Context, ownerUserID string, in QuoteInput) (Quote, error) {
	start := time.Now()

	kind, err := pricing.ParseKind(in.Strategy)
	if err != nil {
		s.metrics.Observe("unknown", metrics.OutcomeInvalid, time.Since(start))
		return Quote{}, err
	}

	q, err := s.quote(ctx, ownerUserID, kind, in.Tier)
	s.metrics.Observe(string(kind), outcomeOf(err), time.Since(start))

	log := logger.Get(ctx).With(
		zap.String("owner_user_id", ownerUserID),
		zap.String("strategy", string(kind)),
	)
	if err != nil {
		log.Warn("quote failed", zap.Error(err))
		return Quote{}, err
	}

	log.Info("quote computed",
		zap.String("tier", q.Tier),
		zap.Int("pet_count", q.PetCount),
		zap.String("total", q.Total.String()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return q, nil
}

func (s *Service) quote(ctx context.Context, ownerUserID string, kind pricing.Kind, tierName string) (Quote, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Quote{}, errors.Wrap(pricing.ErrInvalidArgument, "owner is required")
	}

	at := s.now()

	owned, err := s.pets.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return Quote{}, errors.Wrap(err, "list pets")
	}

	views := make([]pricing.PetView, 0, len(owned))
	for _, p := range owned {
		v, err := s.petView(ctx, p)
		if err != nil {
			return Quote{}, err
		}
		views = append(views, v)
	}

	req := pricing.Request{
		Pets:            views,
		BaseCharge:      s.baseCharge,
		BasePricePerPet: s.basePricePerPet,
		At:              at,
	}

	q := Quote{
		OwnerUserID: ownerUserID,
		Strategy:    kind,
		PetCount:    len(views),
		ComputedAt:  at,
	}

	if kind == pricing.KindTierAware {
		tier, err := s.resolveTier(ctx, ownerUserID, tierName)
		if err != nil {
			return Quote{}, err
		}
		req.Tier = &tier
		q.Tier = tier.Name
	}

	total, err := s.calculators[kind].Calculate(req)
	if err != nil {
		return Quote{}, err
	}
	q.Total = total
	return q, nil
}

func (s *Service) petView(ctx context.Context, p pets.Pet) (pricing.Pet, error) {
	if p.BirthDate == nil {
		return pricing.Pet{}, errors.Wrapf(pricing.ErrInvalidArgument, "pet %s (%s) has no birth date", p.ID, p.Name)
	}

	history, err := s.visits.ActiveByPet(ctx, p.ID)
	if err != nil {
		return pricing.Pet{}, errors.Wrapf(err, "list visits of pet %s", p.ID)
	}

	// El motor espera el historial en orden cronológico; los repos lo devuelven
	// del más reciente al más viejo.
	slices.SortStableFunc(history, func(a, b visits.Visit) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.RecordedAt.Compare(b.RecordedAt)
	})

	vv := make([]pricing.VisitView, 0, len(history))
	for _, v := range history {
		vv = append(vv, pricing.VisitView{Date: v.Date, Description: v.Description})
	}

	return pricing.Pet{
		Born:   *p.BirthDate,
		IsRare: p.Species.IsRare(),
		Visits: vv,
	}, nil
}

func (s *Service) resolveTier(ctx context.Context, ownerUserID, name string) (pricing.Tier, error) {
	if strings.TrimSpace(name) != "" {
		return pricing.TierByName(name)
	}
	t, err := s.tiers.TierOf(ctx, ownerUserID)
	if err != nil {
		return pricing.Tier{}, errors.Wrapf(ErrTierUnavailable, "%v", err)
	}
	return t, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, pricing.ErrInvalidArgument), errors.Is(err, pricing.ErrUnknownStrategy):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
