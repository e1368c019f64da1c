package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/app/repositories"
	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/validate"
)

type CategoryService struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
	cache      readCache
}

// NewCategoryService builds the service. store may be nil to disable caching.
func NewCategoryService(db *gorm.DB, store cache.Store, ttl time.Duration) *CategoryService {
	return &CategoryService{
		categories: repositories.NewCategoryRepository(db),
		products:   repositories.NewProductRepository(db),
		cache:      readCache{store: store, ttl: ttl},
	}
}

func validateCategory(in dto.CategoryInput) error {
	v := validate.New()
	v.Required("name", in.Name)
	v.MaxLen("name", in.Name, 255)
	return v.Err()
}

func (s *CategoryService) CreateCategory(ctx context.Context, in dto.CategoryInput) (dto.Category, error) {
	if err := validateCategory(in); err != nil {
		return dto.Category{}, err
	}

	c := models.Category{Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := s.categories.Create(ctx, &c); err != nil {
		return dto.Category{}, err
	}

	logger.WithCtx(ctx).Info("category created", "category_id", c.ID)
	return dto.CategoryFromModel(c), nil
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id uint) (dto.Category, error) {
	var out dto.Category
	err := s.cache.remember(ctx, categoryKey(id), &out, func() error {
		c, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Category not found with id: %d", id)
		}
		out = dto.CategoryFromModel(c)
		return nil
	})
	return out, err
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]dto.Category, error) {
	cs, err := s.categories.All(ctx)
	if err != nil {
		return nil, err
	}
	return dto.Categories(cs), nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, in dto.CategoryInput) (dto.Category, error) {
	if err := validateCategory(in); err != nil {
		return dto.Category{}, err
	}

	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return dto.Category{}, notFound(err, "Category not found with id: %d", id)
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	if err := s.categories.Save(ctx, &c); err != nil {
		return dto.Category{}, err
	}

	s.cache.forget(ctx, categoryKey(id))
	return dto.CategoryFromModel(c), nil
}

// DeleteCategory refuses to delete a category that products still use.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return notFound(err, "Category not found with id: %d", id)
	}

	n, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict("Category %d still has %d product(s)", id, n)
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Category not found with id: %d", id)
	}

	s.cache.forget(ctx, categoryKey(id))
	logger.WithCtx(ctx).Info("category deleted", "category_id", id)
	return nil
}
