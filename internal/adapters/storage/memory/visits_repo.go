package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/go-faster/errors"

	"pet-clinic-billing/internal/domain/visits"
)

type visitRepo struct {
	mu   sync.RWMutex
	byID map[string]visits.Visit
}

func NewVisitRepo() visits.Repository {
	return &visitRepo{
		byID: make(map[string]visits.Visit),
	}
}

func (r *visitRepo) Create(ctx context.Context, v visits.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("visit id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.Errorf("visit %s already exists", v.ID)
	}
	r.byID[v.ID] = v
	return nil
}

func (r *visitRepo) GetByID(ctx context.Context, id string) (visits.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return visits.Visit{}, visits.ErrNotFound
	}
	return v, nil
}

func (r *visitRepo) ListByPet(ctx context.Context, petID string, filter visits.ListFilter) ([]visits.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]visits.Visit, 0)
	for _, v := range r.byID {
		if v.PetID != petID {
			continue
		}
		if filter.ActiveOnly && !v.Active() {
			continue
		}
		if filter.From != nil && v.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && v.Date.After(*filter.To) {
			continue
		}
		out = append(out, v)
	}

	// date desc; desempata por recorded_at para que el orden sea estable
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *visitRepo) Void(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[id]
	if !ok {
		return visits.ErrNotFound
	}
	v.Status = visits.StatusVoided
	r.byID[id] = v
	return nil
}
