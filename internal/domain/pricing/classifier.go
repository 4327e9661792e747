package pricing

import (
	"time"

	"github.com/go-faster/errors"
)

type Classification struct {
	AgeYears int
	Infant   bool
	Rare     bool
}

// Classify deriva edad, infancia y rareza de una mascota a la fecha at.
func (c Config) Classify(pet PetView, at time.Time) (Classification, error) {
	born := pet.BirthDate()
	if born.IsZero() {
		return Classification{}, errors.Wrap(ErrInvalidArgument, "birth date is required")
	}
	if CivilDate(born).After(CivilDate(at)) {
		return Classification{}, errors.Wrapf(ErrInvalidArgument,
			"birth date %s is after evaluation date %s", born.Format(time.DateOnly), at.Format(time.DateOnly))
	}

	age := wholeYears(born, at)
	return Classification{
		AgeYears: age,
		Infant:   age < c.InfancyAgeThreshold,
		Rare:     pet.Rare(),
	}, nil
}
