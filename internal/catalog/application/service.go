package application

import (
	"context"

	"github.com/dmehra2102/bookit/internal/catalog/domain"
)

type Service struct {
	repo ExperienceRepository
}

func NewService(repo ExperienceRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	exps, err := s.repo.ListExperiences(ctx)
	if err != nil {
		return nil, err
	}
	if exps == nil {
		exps = []domain.Experience{}
	}
	return exps, nil
}

func (s *Service) GetExperience(ctx context.Context, id int64) (domain.Experience, error) {
	if id <= 0 {
		return domain.Experience{}, domain.ErrExperienceNotFound
	}
	return s.repo.GetExperience(ctx, id)
}
