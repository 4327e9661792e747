package pets

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"pet-clinic-billing/internal/domain/pricing"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock reemplaza el reloj usado para timestamps y la validación de birth_date.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	Sex       string
	BirthDate *time.Time
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, errors.Wrap(ErrInvalidInput, "owner is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, errors.Wrap(ErrInvalidInput, "name is required")
	}

	species := Species(strings.ToLower(strings.TrimSpace(in.Species)))
	if !species.Valid() {
		return Pet{}, errors.Wrapf(ErrInvalidInput, "unknown species %q", in.Species)
	}

	sex := Sex(strings.ToLower(strings.TrimSpace(in.Sex)))
	if sex == "" {
		sex = SexUnknown
	}
	if !sex.Valid() {
		return Pet{}, errors.Wrapf(ErrInvalidInput, "unknown sex %q", in.Sex)
	}

	now := s.now()
	bd, err := birthDate(in.BirthDate, now)
	if err != nil {
		return Pet{}, err
	}

	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     species,
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		BirthDate:   bd,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// OptionalDate distingue "no enviado" (Set=false) de "limpiar" (Set=true, Value=nil).
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

// UpdateProfileInput: nil = no tocar.
type UpdateProfileInput struct {
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	BirthDate OptionalDate
	Notes     *string
}

// UpdateProfile aplica un PATCH sobre el perfil. Solo el dueño puede editar;
// para cualquier otro usuario la mascota no existe.
func (s *Service) UpdateProfile(ctx context.Context, petID, ownerUserID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, errors.Wrap(ErrInvalidInput, "name cannot be empty")
		}
		p.Name = name
	}
	if in.Species != nil {
		species := Species(strings.ToLower(strings.TrimSpace(*in.Species)))
		if !species.Valid() {
			return Pet{}, errors.Wrapf(ErrInvalidInput, "unknown species %q", *in.Species)
		}
		p.Species = species
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		sex := Sex(strings.ToLower(strings.TrimSpace(*in.Sex)))
		if !sex.Valid() {
			return Pet{}, errors.Wrapf(ErrInvalidInput, "unknown sex %q", *in.Sex)
		}
		p.Sex = sex
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	now := s.now()
	if in.BirthDate.Set {
		bd, err := birthDate(in.BirthDate.Value, now)
		if err != nil {
			return Pet{}, err
		}
		p.BirthDate = bd
	}

	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// birthDate normaliza a día calendario con la misma regla que el motor de precios.
func birthDate(bd *time.Time, now time.Time) (*time.Time, error) {
	if bd == nil {
		return nil, nil
	}
	d := pricing.CivilDate(*bd)
	if d.After(pricing.CivilDate(now)) {
		return nil, errors.Wrapf(ErrInvalidInput, "birth_date %s is in the future", d.Format(time.DateOnly))
	}
	return &d, nil
}
