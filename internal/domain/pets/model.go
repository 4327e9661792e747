package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, rabbit, bird, ferret, reptile, exotic
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesRabbit  Species = "rabbit"
	SpeciesBird    Species = "bird"
	SpeciesFerret  Species = "ferret"
	SpeciesReptile Species = "reptile"
	SpeciesExotic  Species = "exotic"
)

// rareSpecies: especies que se cotizan con coeficiente de rareza.
var rareSpecies = map[Species]bool{
	SpeciesBird:    true,
	SpeciesFerret:  true,
	SpeciesReptile: true,
	SpeciesExotic:  true,
}

var knownSpecies = map[Species]struct{}{
	SpeciesDog:     {},
	SpeciesCat:     {},
	SpeciesRabbit:  {},
	SpeciesBird:    {},
	SpeciesFerret:  {},
	SpeciesReptile: {},
	SpeciesExotic:  {},
}

func (s Species) Valid() bool {
	_, ok := knownSpecies[s]
	return ok
}

func (s Species) IsRare() bool { return rareSpecies[s] }

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	}
	return false
}

// Pet representa el perfil básico de una mascota registrada en el sistema.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	// Requerida para cotizar; puede faltar en el alta.
	BirthDate *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
