package pricing

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownStrategy = errors.New("unknown pricing strategy")
)

// VisitView es la vista de solo lectura de una visita clínica.
// Description no participa del precio.
type VisitView struct {
	Date        time.Time
	Description string
}

// PetView es lo único que el motor necesita saber de una mascota.
type PetView interface {
	BirthDate() time.Time
	Rare() bool
	// VisitsUntilAge devuelve, en orden cronológico, las visitas registradas
	// mientras la mascota tenía como máximo age años cumplidos.
	VisitsUntilAge(age int) []VisitView
}

// Pet implementa PetView sobre datos ya cargados (adapters, tests).
type Pet struct {
	Born   time.Time
	IsRare bool
	Visits []VisitView
}

func (p Pet) BirthDate() time.Time { return p.Born }
func (p Pet) Rare() bool           { return p.IsRare }

func (p Pet) VisitsUntilAge(age int) []VisitView {
	if age < 0 {
		return nil
	}
	limit := CivilDate(p.Born).AddDate(age+1, 0, 0)

	out := make([]VisitView, 0, len(p.Visits))
	for _, v := range p.Visits {
		if CivilDate(v.Date).Before(limit) {
			out = append(out, v)
		}
	}
	return out
}

// CivilDate descarta hora y zona: el motor trabaja en días calendario.
// Toma año, mes y día en la zona de t.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)).Hours() / 24)
}

func wholeYears(from, to time.Time) int {
	a, b := CivilDate(from), CivilDate(to)
	years := b.Year() - a.Year()
	if b.Month() < a.Month() || (b.Month() == a.Month() && b.Day() < a.Day()) {
		years--
	}
	return years
}

// Request agrupa los argumentos de Calculator.Calculate.
type Request struct {
	Pets            []PetView
	BaseCharge      decimal.Decimal
	BasePricePerPet decimal.Decimal

	// Tier solo lo usa TierAwareCalculator.
	Tier *Tier

	// At es la fecha de evaluación; si es cero se usa el reloj del calculator.
	At time.Time
}

func (r Request) validate() error {
	if r.BaseCharge.IsNegative() {
		return errors.Wrapf(ErrInvalidArgument, "base charge %s is negative", r.BaseCharge)
	}
	if r.BasePricePerPet.IsNegative() {
		return errors.Wrapf(ErrInvalidArgument, "base price per pet %s is negative", r.BasePricePerPet)
	}
	for i, p := range r.Pets {
		if p == nil {
			return errors.Wrapf(ErrInvalidArgument, "pet #%d is nil", i)
		}
	}
	return nil
}
