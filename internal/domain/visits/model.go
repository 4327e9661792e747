package visits

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusVoided Status = "voided"
)

// Visit es una consulta médica registrada para una mascota.
// Date es el día calendario de la visita (medianoche UTC); RecordedAt cuándo se cargó.
type Visit struct {
	ID    string
	PetID string

	Date        time.Time
	Description string

	RecordedAt time.Time
	Status     Status
}

func (v Visit) Active() bool { return v.Status == StatusActive }
