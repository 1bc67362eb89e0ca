package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/shared"
)

// CategoryService manages the shared category tree
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, logger: logger}
}

// List returns all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]catalog.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

// GetBySlug resolves a category from its URL slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}
	return category, nil
}

// GetOrCreate returns the category with the given name, creating it on
// first use. Product listings name categories free-form.
func (s *CategoryService) GetOrCreate(ctx context.Context, name string) (*catalog.Category, error) {
	category, err := s.categoryRepo.GetOrCreateByName(ctx, name)
	if err != nil {
		s.logger.Error("Failed to resolve category", zap.String("name", name), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve category")
	}
	return category, nil
}
