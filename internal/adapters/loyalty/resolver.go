package loyalty

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"pet-clinic-billing/internal/domain/pricing"
	"pet-clinic-billing/internal/platform/logger"
)

// Resolver implementa ports/loyalty.TierResolver sobre el servicio de fidelidad.
// Sin cliente configurado, o para clientes que el servicio no conoce,
// devuelve el tier por defecto.
type Resolver struct {
	client   *Client
	fallback pricing.Tier
}

func NewResolver(client *Client, fallback pricing.Tier) *Resolver {
	return &Resolver{
		client:   client,
		fallback: fallback,
	}
}

func (r *Resolver) TierOf(ctx context.Context, ownerUserID string) (pricing.Tier, error) {
	if r.client == nil || !r.client.IsConfigured() {
		return r.fallback, nil
	}

	resp, err := r.client.GetTier(ctx, ownerUserID)
	if errors.Is(err, ErrUnknownCustomer) {
		logger.Get(ctx).Debug("loyalty customer unknown, using default tier",
			zap.String("owner_user_id", ownerUserID),
			zap.String("tier", r.fallback.Name),
		)
		return r.fallback, nil
	}
	if err != nil {
		return pricing.Tier{}, err
	}

	t, err := pricing.TierByName(resp.Tier)
	if err != nil {
		return pricing.Tier{}, errors.Wrapf(ErrUpstream, "tier %q: %v", resp.Tier, err)
	}
	return t, nil
}
