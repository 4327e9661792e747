package pricing

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind identifica una de las estrategias de precio. El conjunto es cerrado.
type Kind string

const (
	KindFlat      Kind = "flat"
	KindTierAware Kind = "tier_aware"
)

func Kinds() []Kind { return []Kind{KindFlat, KindTierAware} }

// ParseKind acepta el nombre externo de la estrategia. Vacío = flat.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFlat:
		return KindFlat, nil
	case KindTierAware:
		return KindTierAware, nil
	default:
		return "", errors.Wrapf(ErrUnknownStrategy, "%q", s)
	}
}

type Calculator interface {
	Kind() Kind
	Calculate(req Request) (decimal.Decimal, error)
}

// New construye la estrategia indicada por kind.
func New(kind Kind, cfg Config) (Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case KindFlat:
		return NewFlat(cfg), nil
	case KindTierAware:
		return NewTierAware(cfg), nil
	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", kind)
	}
}

// evaluationDate resuelve At del request contra el reloj del calculator.
func evaluationDate(req Request, now func() time.Time) time.Time {
	if !req.At.IsZero() {
		return req.At
	}
	return now()
}

// FlatCalculator aplica el acumulador con descuento por historial de visitas.
// Trata a todas las mascotas como raras, a diferencia de TierAwareCalculator.
type FlatCalculator struct {
	cfg Config
	now func() time.Time
}

func NewFlat(cfg Config) *FlatCalculator {
	return &FlatCalculator{cfg: cfg, now: time.Now}
}

func (c *FlatCalculator) Kind() Kind { return KindFlat }

func (c *FlatCalculator) Calculate(req Request) (decimal.Decimal, error) {
	if err := req.validate(); err != nil {
		return decimal.Zero, err
	}
	at := evaluationDate(req, c.now)

	acc := newAccumulator(c.cfg, req.BaseCharge, at)
	for i, pet := range req.Pets {
		cl, err := c.cfg.Classify(pet, at)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "pet #%d", i)
		}

		price := req.BasePricePerPet.Mul(c.cfg.RareCoef)
		if cl.Infant {
			price = price.Mul(c.cfg.RareInfancyCoef)
		}

		if err := acc.add(pet, cl, price); err != nil {
			return decimal.Zero, errors.Wrapf(err, "pet #%d", i)
		}
	}

	return acc.total, nil
}

// TierAwareCalculator suma precios por mascota según rareza real y aplica
// la tasa del tier del cliente.
type TierAwareCalculator struct {
	cfg Config
	now func() time.Time
}

func NewTierAware(cfg Config) *TierAwareCalculator {
	return &TierAwareCalculator{cfg: cfg, now: time.Now}
}

func (c *TierAwareCalculator) Kind() Kind { return KindTierAware }

func (c *TierAwareCalculator) Calculate(req Request) (decimal.Decimal, error) {
	if err := req.validate(); err != nil {
		return decimal.Zero, err
	}
	if req.Tier == nil {
		return decimal.Zero, errors.Wrap(ErrInvalidArgument, "tier is required")
	}
	if err := req.Tier.Validate(); err != nil {
		return decimal.Zero, err
	}
	at := evaluationDate(req, c.now)

	sum := decimal.Zero
	for i, pet := range req.Pets {
		cl, err := c.cfg.Classify(pet, at)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "pet #%d", i)
		}
		sum = sum.Add(c.petPrice(req.BasePricePerPet, cl))
	}

	rate := req.Tier.DiscountRate
	if req.Tier.Reached(len(req.Pets)) {
		return req.BaseCharge.Add(sum).Mul(rate), nil
	}
	// el cargo base queda sin descuento
	return req.BaseCharge.Add(sum.Mul(rate)), nil
}

func (c *TierAwareCalculator) petPrice(base decimal.Decimal, cl Classification) decimal.Decimal {
	if cl.Rare {
		price := base.Mul(c.cfg.RareCoef)
		if cl.Infant {
			price = price.Mul(c.cfg.RareInfancyCoef)
		}
		return price
	}
	if cl.Infant {
		return base.Mul(c.cfg.CommonInfancyCoef)
	}
	return base
}
