package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/dmehra2102/bookit/internal/catalog/domain"
	"github.com/dmehra2102/bookit/pkg/database"
)

const experienceColumns = `id, title, location, price, COALESCE(rating, 0)::float8, COALESCE(reviews, 0), COALESCE(image, ''), COALESCE(description, ''), COALESCE(duration, ''), COALESCE(group_size, '')`

type Repository struct {
	log *slog.Logger
	db  database.DB
}

func NewRepository(log *slog.Logger, db database.DB) *Repository {
	return &Repository{log: log, db: db}
}

func (r *Repository) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	rows, err := r.db.Query(ctx, `SELECT `+experienceColumns+` FROM experiences ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	var exps []domain.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

func (r *Repository) GetExperience(ctx context.Context, id int64) (domain.Experience, error) {
	e, err := scanExperience(r.db.QueryRow(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Experience{}, domain.ErrExperienceNotFound
	}
	if err != nil {
		return domain.Experience{}, fmt.Errorf("get experience %d: %w", id, err)
	}
	return e, nil
}

func scanExperience(row pgx.Row) (domain.Experience, error) {
	var e domain.Experience
	err := row.Scan(&e.ID, &e.Title, &e.Location, &e.Price, &e.Rating, &e.Reviews,
		&e.ImageURL, &e.Description, &e.Duration, &e.GroupSize)
	return e, err
}
