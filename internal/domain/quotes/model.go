package quotes

import (
	"time"

	"github.com/shopspring/decimal"

	"pet-clinic-billing/internal/domain/pricing"
)

// Quote es el resultado de cotizar todas las mascotas de un dueño.
// No se persiste.
type Quote struct {
	OwnerUserID string
	Strategy    pricing.Kind
	// Tier vacío cuando la estrategia no lo usa.
	Tier       string
	PetCount   int
	Total      decimal.Decimal
	ComputedAt time.Time
}

type QuoteInput struct {
	Strategy string
	// Tier explícito; si viene vacío se consulta el servicio de fidelidad.
	Tier string
}
