package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	Update(ctx context.Context, p Pet) error
	// ListByOwner devuelve las mascotas en orden de alta (created_at asc).
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
}
