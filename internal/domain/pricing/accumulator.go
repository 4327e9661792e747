package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// foldState es la máquina de dos estados del acumulador.
// Una vez en discounting no se vuelve a accumulating dentro de la misma lista.
type foldState int

const (
	accumulating foldState = iota
	discounting
)

func (s foldState) String() string {
	switch s {
	case accumulating:
		return "accumulating"
	case discounting:
		return "discounting"
	default:
		return "unknown"
	}
}

// accumulator recorre las mascotas en orden. El resultado depende del orden:
// el score y el total son acumulativos.
type accumulator struct {
	cfg        Config
	baseCharge decimal.Decimal
	at         time.Time

	state foldState
	score int
	total decimal.Decimal
}

func newAccumulator(cfg Config, baseCharge decimal.Decimal, at time.Time) *accumulator {
	return &accumulator{
		cfg:        cfg,
		baseCharge: baseCharge,
		at:         at,
		state:      accumulating,
		total:      decimal.Zero,
	}
}

func (a *accumulator) add(pet PetView, cl Classification, petPrice decimal.Decimal) error {
	if cl.Infant {
		a.score += 2
	} else {
		a.score++
	}

	if a.state == accumulating && a.score >= a.cfg.DiscountMinScore {
		a.state = discounting
	}

	switch a.state {
	case accumulating:
		a.total = a.total.Add(petPrice)
		return nil

	case discounting:
		rec, err := a.cfg.AnalyzeVisits(pet.VisitsUntilAge(cl.AgeYears), a.at)
		if err != nil {
			return err
		}
		if rec.Old {
			// historial dormido: penaliza el total previo + cargo base
			factor := decimal.NewFromInt(int64(rec.Factor))
			a.total = a.total.Add(a.baseCharge).Mul(factor).Add(petPrice)
		} else {
			a.total = a.total.Mul(a.cfg.DiscountPreVisit).Add(a.baseCharge).Add(petPrice)
		}
		return nil
	}

	return nil
}
