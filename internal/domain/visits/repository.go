package visits

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, v Visit) error
	GetByID(ctx context.Context, id string) (Visit, error)
	// ListByPet devuelve las visitas más recientes primero (date desc).
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Visit, error)
	Void(ctx context.Context, id string) error
}

type ListFilter struct {
	From *time.Time
	To   *time.Time

	// ActiveOnly excluye visitas anuladas.
	ActiveOnly bool

	// Limit <= 0 significa sin límite.
	Limit int
}
