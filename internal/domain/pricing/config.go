package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config reúne las constantes del motor. Se pasa al construir cada
// calculator para que los tests puedan variarlas por separado.
type Config struct {
	RareCoef          decimal.Decimal
	RareInfancyCoef   decimal.Decimal
	CommonInfancyCoef decimal.Decimal

	// Una mascota es "infant" si su edad en años es menor a este valor.
	// Pendiente de confirmación de producto.
	InfancyAgeThreshold int

	DiscountMinScore      int
	DiscountPreVisit      decimal.Decimal
	OldVisitThresholdDays int
}

func DefaultConfig() Config {
	return Config{
		RareCoef:              decimal.RequireFromString("1.2"),
		RareInfancyCoef:       decimal.RequireFromString("1.4"),
		CommonInfancyCoef:     decimal.RequireFromString("1.2"),
		InfancyAgeThreshold:   2,
		DiscountMinScore:      10,
		DiscountPreVisit:      decimal.NewFromInt(2),
		OldVisitThresholdDays: 100,
	}
}

func (c Config) Validate() error {
	coefs := []struct {
		name string
		v    decimal.Decimal
	}{
		{"rare coefficient", c.RareCoef},
		{"rare infancy coefficient", c.RareInfancyCoef},
		{"common infancy coefficient", c.CommonInfancyCoef},
		{"discount pre-visit factor", c.DiscountPreVisit},
	}
	for _, cf := range coefs {
		if !cf.v.IsPositive() {
			return errors.Wrapf(ErrInvalidArgument, "%s must be positive, got %s", cf.name, cf.v)
		}
	}

	if c.InfancyAgeThreshold < 0 {
		return errors.Wrapf(ErrInvalidArgument, "infancy age threshold must not be negative, got %d", c.InfancyAgeThreshold)
	}
	if c.DiscountMinScore <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "discount min score must be positive, got %d", c.DiscountMinScore)
	}
	if c.OldVisitThresholdDays <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "old visit threshold must be positive, got %d days", c.OldVisitThresholdDays)
	}
	return nil
}
