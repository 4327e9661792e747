package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"pet-clinic-billing/internal/domain/visits"
)

type VisitsRepo struct {
	db *sql.DB
}

func NewVisitsRepo(db *sql.DB) *VisitsRepo {
	return &VisitsRepo{db: db}
}

const visitColumns = `id, pet_id, visit_date, description, recorded_at, status`

func (r *VisitsRepo) Create(ctx context.Context, v visits.Visit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_visits (`+visitColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		v.ID,
		v.PetID,
		v.Date,
		v.Description,
		v.RecordedAt,
		string(v.Status),
	)
	if err != nil {
		return errors.Wrap(err, "insert visit")
	}
	return nil
}

func (r *VisitsRepo) GetByID(ctx context.Context, id string) (visits.Visit, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return visits.Visit{}, visits.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+visitColumns+` FROM pet_visits WHERE id = $1`, id)

	v, err := scanVisit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return visits.Visit{}, visits.ErrNotFound
	}
	return v, err
}

func (r *VisitsRepo) ListByPet(ctx context.Context, petID string, filter visits.ListFilter) ([]visits.Visit, error) {
	where := []string{"pet_id = $1"}
	args := []any{petID}

	if filter.ActiveOnly {
		args = append(args, string(visits.StatusActive))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("visit_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("visit_date <= $%d", len(args)))
	}

	q := `SELECT ` + visitColumns + ` FROM pet_visits WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY visit_date DESC, recorded_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query visits")
	}
	defer rows.Close()

	out := make([]visits.Visit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VisitsRepo) Void(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pet_visits SET status = $2 WHERE id = $1`, id, string(visits.StatusVoided))
	if err != nil {
		return errors.Wrap(err, "void visit")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return visits.ErrNotFound
	}
	return nil
}

func scanVisit(s scanner) (visits.Visit, error) {
	var (
		v      visits.Visit
		status string
	)
	if err := s.Scan(&v.ID, &v.PetID, &v.Date, &v.Description, &v.RecordedAt, &status); err != nil {
		return visits.Visit{}, err
	}
	// visit_date es DATE
	v.Date = v.Date.UTC()
	v.Status = visits.Status(status)
	return v, nil
}
