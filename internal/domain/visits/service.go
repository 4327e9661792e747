package visits

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
	ErrNotFound     = errors.New("visit not found")
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

// WithClock reemplaza el reloj usado para RecordedAt y la validación de fechas futuras.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateInput struct {
	Date        time.Time
	Description string
}

func (s *Service) Create(ctx context.Context, petID string, in CreateInput) (Visit, error) {
	if strings.TrimSpace(petID) == "" {
		return Visit{}, errors.Wrap(ErrInvalidInput, "pet is required")
	}
	if in.Date.IsZero() {
		return Visit{}, errors.Wrap(ErrInvalidInput, "date is required")
	}

	// La visita es un día calendario, igual que en el motor de precios.
	now := s.now()
	date := pricing.CivilDate(in.Date)
	if date.After(pricing.CivilDate(now)) {
		return Visit{}, errors.Wrapf(ErrInvalidInput, "date %s is in the future", date.Format(time.DateOnly))
	}

	v := Visit{
		ID:          uuid.NewString(),
		PetID:       petID,
		Date:        date,
		Description: strings.TrimSpace(in.Description),
		RecordedAt:  now,
		Status:      StatusActive,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Visit{}, errors.Wrap(err, "create visit")
	}
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Visit, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Visit{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Visit, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, errors.Wrap(ErrInvalidInput, "from is after to")
	}
	return s.repo.ListByPet(ctx, petID, filter)
}

// ActiveByPet devuelve todo el historial vigente de la mascota, sin límite.
func (s *Service) ActiveByPet(ctx context.Context, petID string) ([]Visit, error) {
	return s.repo.ListByPet(ctx, petID, ListFilter{ActiveOnly: true})
}

// Void marca la visita como voided (no se borra). Es idempotente.
func (s *Service) Void(ctx context.Context, id string) (Visit, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Visit{}, ErrNotFound
	}
	if err := s.repo.Void(ctx, id); err != nil {
		return Visit{}, err
	}
	return s.repo.GetByID(ctx, id)
}
