package visits

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"pet-clinic-billing/internal/domain/pets"
	"pet-clinic-billing/internal/middleware"
	"pet-clinic-billing/internal/platform/logger"
)

// PetOwnerLookup resuelve el dueño de una mascota (lo implementa pets.Service).
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners PetOwnerLookup) {
	r.Route("/pets/{petID}/visits", func(vr chi.Router) {
		vr.Post("/", createVisitHandler(svc, owners))
		vr.Get("/", listVisitsHandler(svc, owners))
		vr.Post("/{visitID}/void", voidVisitHandler(svc, owners))
	})
}

type createVisitRequest struct {
	Date        string `json:"date"` // YYYY-MM-DD o RFC3339
	Description string `json:"description"`
}

type visitResponse struct {
	ID          string    `json:"id"`
	PetID       string    `json:"pet_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
	Status      Status    `json:"status"`
}

// createVisitHandler godoc
// @Summary Registrar visita médica
// @Description Registra una visita de la mascota. Solo el dueño. La fecha no puede ser futura.
// @Tags visits
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param payload body createVisitRequest true "Datos de la visita"
// @Success 201 {object} visitResponse
// @Failure 400 {string} string "invalid json / fecha inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/visits [post]
func createVisitHandler(svc *Service, owners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, ok := authorizeOwner(w, r, owners)
		if !ok {
			return
		}

		var req createVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := parseDate(req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD or RFC3339", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), petID, CreateInput{
			Date:        date,
			Description: req.Description,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logger.Get(r.Context()).Error("create visit failed", zap.Error(err), zap.String("pet_id", petID))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toVisitResponse(v))
	}
}

// listVisitsHandler godoc
// @Summary Listar visitas de una mascota
// @Description Lista las visitas más recientes primero. Permite filtrar por rango de fechas y excluir anuladas.
// @Tags visits
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de visitas (1-200). Por defecto 50"
// @Param from query string false "Fecha mínima (YYYY-MM-DD o RFC3339)"
// @Param to query string false "Fecha máxima (YYYY-MM-DD o RFC3339)"
// @Param active query bool false "Solo visitas vigentes"
// @Success 200 {array} visitResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/visits [get]
func listVisitsHandler(svc *Service, owners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, ok := authorizeOwner(w, r, owners)
		if !ok {
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPet(r.Context(), petID, filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logger.Get(r.Context()).Error("list visits failed", zap.Error(err), zap.String("pet_id", petID))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]visitResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVisitResponse(v))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// voidVisitHandler godoc
// @Summary Anular (void) una visita
// @Description Anula una visita; deja de contar para las cotizaciones.
// @Tags visits
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param visitID path string true "ID de la visita"
// @Success 200 {object} visitResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "visit not found"
// @Router /pets/{petID}/visits/{visitID}/void [post]
func voidVisitHandler(svc *Service, owners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID, ok := authorizeOwner(w, r, owners)
		if !ok {
			return
		}

		visitID := chi.URLParam(r, "visitID")
		v, err := svc.GetByID(r.Context(), visitID)
		if err != nil || v.PetID != petID {
			http.Error(w, "visit not found", http.StatusNotFound)
			return
		}

		updated, err := svc.Void(r.Context(), visitID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "visit not found", http.StatusNotFound)
				return
			}
			logger.Get(r.Context()).Error("void visit failed", zap.Error(err), zap.String("visit_id", visitID))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toVisitResponse(updated))
	}
}

// authorizeOwner escribe la respuesta de error y devuelve false si el usuario
// no está autenticado o no es dueño de la mascota.
func authorizeOwner(w http.ResponseWriter, r *http.Request, owners PetOwnerLookup) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}

	petID := chi.URLParam(r, "petID")
	owner, err := owners.OwnerOf(r.Context(), petID)
	if err != nil && !errors.Is(err, pets.ErrNotFound) {
		logger.Get(r.Context()).Error("resolve pet owner failed", zap.String("pet_id", petID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return "", false
	}
	// 404 también para mascotas ajenas
	if err != nil || owner != claims.UserID {
		http.Error(w, "pet not found", http.StatusNotFound)
		return "", false
	}
	return petID, true
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()

	limit := 50
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	filter := ListFilter{Limit: limit}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return ListFilter{}, errors.New("from must be YYYY-MM-DD or RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return ListFilter{}, errors.New("to must be YYYY-MM-DD or RFC3339")
		}
		filter.To = &t
	}
	if v := strings.TrimSpace(q.Get("active")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ListFilter{}, errors.New("active must be a boolean")
		}
		filter.ActiveOnly = b
	}

	return filter, nil
}

func toVisitResponse(v Visit) visitResponse {
	return visitResponse{
		ID:          v.ID,
		PetID:       v.PetID,
		Date:        v.Date,
		Description: v.Description,
		RecordedAt:  v.RecordedAt,
		Status:      v.Status,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
