package loyalty

import (
	"context"

	"pet-clinic-billing/internal/domain/pricing"
)

// TierResolver resuelve el tier de fidelidad de un cliente (dueño de mascotas).
type TierResolver interface {
	TierOf(ctx context.Context, ownerUserID string) (pricing.Tier, error)
}
