package menu

import (
	"context"

	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/domain"
	"github.com/offshelf7/friendly-guest-gateway-sub000/internal/repository"
)

type MenuUseCase interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*domain.MenuItem, error)
}

type Cache interface {
	GetMenu(ctx context.Context) ([]domain.MenuItem, error)
	SetMenu(ctx context.Context, items []domain.MenuItem) error
}

type MenuService struct {
	repo  repository.MenuRepository
	cache Cache
}

func NewMenuService(repo repository.MenuRepository, cache Cache) *MenuService {
	return &MenuService{repo: repo, cache: cache}
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetMenu(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetMenu(ctx, items)
	}
	return items, nil
}

func (s *MenuService) GetByID(ctx context.Context, id int64) (*domain.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

var _ MenuUseCase = (*MenuService)(nil)
