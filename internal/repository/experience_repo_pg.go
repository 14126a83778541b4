package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ExperienceRepository interface {
	List(ctx context.Context) ([]domain.Experience, error)
	GetByID(ctx context.Context, id string) (*domain.Experience, error)
}

type PGExperienceRepository struct {
	db DB
}

func NewExperienceRepository(db DB) ExperienceRepository {
	return &PGExperienceRepository{db: db}
}

const experienceColumns = `id, name, description, base_price, min_passengers, max_passengers, duration_minutes, tiers, active, created_at, updated_at`

func (r *PGExperienceRepository) List(ctx context.Context) ([]domain.Experience, error) {
	rows, err := r.db.Query(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiences := make([]domain.Experience, 0)
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, *exp)
	}
	return experiences, rows.Err()
}

func (r *PGExperienceRepository) GetByID(ctx context.Context, id string) (*domain.Experience, error) {
	row := r.db.QueryRow(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id=$1`, id)
	return scanExperience(row)
}

func scanExperience(row pgx.Row) (*domain.Experience, error) {
	var (
		exp   domain.Experience
		tiers []byte
	)
	err := row.Scan(&exp.ID, &exp.Name, &exp.Description, &exp.BasePrice, &exp.MinPassengers,
		&exp.MaxPassengers, &exp.DurationMinutes, &tiers, &exp.Active, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &exp.Tiers); err != nil {
			return nil, err
		}
	}
	return &exp, nil
}

var _ ExperienceRepository = (*PGExperienceRepository)(nil)
