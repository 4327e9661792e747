package pricing

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Tier es la categoría de fidelidad del cliente.
type Tier struct {
	Name         string
	DiscountRate decimal.Decimal // 0 < rate <= 1

	// MinPets es la cantidad de mascotas a partir de la cual el descuento
	// alcanza también al cargo base. 0 = sin gate (tier top).
	MinPets int
}

var (
	TierNew = Tier{
		Name:         "new",
		DiscountRate: decimal.RequireFromString("0.95"),
		MinPets:      10,
	}
	TierSilver = Tier{
		Name:         "silver",
		DiscountRate: decimal.RequireFromString("0.9"),
		MinPets:      5,
	}
	TierGold = Tier{
		Name:         "gold",
		DiscountRate: decimal.RequireFromString("0.8"),
	}
)

func Tiers() []Tier {
	return []Tier{TierNew, TierSilver, TierGold}
}

func TierByName(name string) (Tier, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, t := range Tiers() {
		if t.Name == n {
			return t, nil
		}
	}
	return Tier{}, errors.Wrapf(ErrInvalidArgument, "unknown tier %q", name)
}

func (t Tier) Ungated() bool { return t.MinPets == 0 }

// Reached indica si petCount habilita el descuento sobre el total completo.
func (t Tier) Reached(petCount int) bool {
	return t.Ungated() || petCount >= t.MinPets
}

func (t Tier) Validate() error {
	if !t.DiscountRate.IsPositive() || t.DiscountRate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.Wrapf(ErrInvalidArgument, "tier %q: discount rate must be in (0, 1], got %s", t.Name, t.DiscountRate)
	}
	if t.MinPets < 0 {
		return errors.Wrapf(ErrInvalidArgument, "tier %q: min pets must not be negative", t.Name)
	}
	return nil
}
