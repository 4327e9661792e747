package quotes

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"pet-clinic-billing/internal/domain/pricing"
	"pet-clinic-billing/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/quote", getQuoteHandler(svc))
}

type quoteResponse struct {
	OwnerUserID string          `json:"owner_user_id"`
	Strategy    pricing.Kind    `json:"strategy"`
	Tier        string          `json:"tier,omitempty"`
	PetCount    int             `json:"pet_count"`
	Total       decimal.Decimal `json:"total"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// getQuoteHandler godoc
// @Summary Cotizar mascotas del usuario
// @Description Calcula el precio de todas las mascotas del usuario autenticado, en orden de alta.
// @Tags quotes
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param strategy query string false "flat (default) o tier_aware"
// @Param tier query string false "Tier explícito (new, silver, gold); solo tier_aware"
// @Success 200 {object} quoteResponse
// @Failure 400 {string} string "estrategia/tier inválido o mascota sin fecha de nacimiento"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "loyalty unavailable"
// @Failure 500 {string} string "internal error"
// @Router /me/quote [get]
func getQuoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q, err := svc.Quote(r.Context(), claims.UserID, QuoteInput{
			Strategy: r.URL.Query().Get("strategy"),
			Tier:     r.URL.Query().Get("tier"),
		})
		if err != nil {
			switch {
			case errors.Is(err, pricing.ErrInvalidArgument), errors.Is(err, pricing.ErrUnknownStrategy):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrTierUnavailable):
				http.Error(w, "loyalty unavailable", http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, quoteResponse{
			OwnerUserID: q.OwnerUserID,
			Strategy:    q.Strategy,
			Tier:        q.Tier,
			PetCount:    q.PetCount,
			Total:       q.Total,
			ComputedAt:  q.ComputedAt,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
