package catalog

import (
	"context"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

type Service struct {
	repo   interfaces.ProductRepository
	logger logger.Logger
}

func NewService(repo interfaces.ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListProducts returns the active catalog sorted by configured order
// then name; the repository enforces the ordering.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListActive(ctx)
}
