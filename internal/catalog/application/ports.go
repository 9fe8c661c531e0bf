package application

import (
	"context"

	"github.com/dmehra2102/bookit/internal/catalog/domain"
)

type ExperienceRepository interface {
	ListExperiences(ctx context.Context) ([]domain.Experience, error)
	GetExperience(ctx context.Context, id int64) (domain.Experience, error)
}
