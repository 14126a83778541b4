package experiences

import (
	"context"

	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/0xgasc/flyin-sub000/internal/repository"
)

type ExperienceUseCase interface {
	List(ctx context.Context) ([]domain.Experience, error)
	GetByID(ctx context.Context, id string) (*domain.Experience, error)
}

type Cache interface {
	GetExperiences(ctx context.Context) ([]domain.Experience, error)
	SetExperiences(ctx context.Context, experiences []domain.Experience) error
}

type ExperienceService struct {
	repo  repository.ExperienceRepository
	cache Cache
}

func NewExperienceService(repo repository.ExperienceRepository, cache Cache) *ExperienceService {
	return &ExperienceService{repo: repo, cache: cache}
}

func (s *ExperienceService) List(ctx context.Context) ([]domain.Experience, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetExperiences(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	experiences, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetExperiences(ctx, experiences)
	}
	return experiences, nil
}

func (s *ExperienceService) GetByID(ctx context.Context, id string) (*domain.Experience, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ExperienceUseCase = (*ExperienceService)(nil)
