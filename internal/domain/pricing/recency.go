package pricing

import (
	"time"

	"github.com/go-faster/errors"
)

// Recency resume qué tan "dormida" está la historia de visitas de una mascota.
type Recency struct {
	Old             bool
	Factor          int // solo si Old; siempre >= 1
	DaysSinceLatest int
}

// AnalyzeVisits clasifica el historial como reciente o viejo respecto de at.
// visits va en orden cronológico: la última visita es la que decide.
// Sin visitas cuenta como reciente.
func (c Config) AnalyzeVisits(visits []VisitView, at time.Time) (Recency, error) {
	if len(visits) == 0 {
		return Recency{}, nil
	}

	for i, v := range visits {
		if CivilDate(v.Date).After(CivilDate(at)) {
			return Recency{}, errors.Wrapf(ErrInvalidArgument,
				"visit #%d dated %s is after evaluation date %s", i, v.Date.Format(time.DateOnly), at.Format(time.DateOnly))
		}
	}

	days := daysBetween(visits[len(visits)-1].Date, at)
	if days < c.OldVisitThresholdDays {
		return Recency{DaysSinceLatest: days}, nil
	}

	return Recency{
		Old:             true,
		Factor:          days/c.OldVisitThresholdDays + len(visits),
		DaysSinceLatest: days,
	}, nil
}
