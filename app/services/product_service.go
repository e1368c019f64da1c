package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/app/repositories"
	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
	"github.com/shashiranjanraj/catalogapi/pkg/validate"
)

type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	orders     *repositories.OrderRepository
	cache      readCache
}

// NewProductService builds the service. store may be nil to disable caching.
func NewProductService(db *gorm.DB, store cache.Store, ttl time.Duration) *ProductService {
	return &ProductService{
		products:   repositories.NewProductRepository(db),
		categories: repositories.NewCategoryRepository(db),
		orders:     repositories.NewOrderRepository(db),
		cache:      readCache{store: store, ttl: ttl},
	}
}

// Prices are stored as decimal(10,2).
const (
	priceWholeDigits = 8
	priceScale       = 2
)

func validateProduct(in dto.ProductInput) error {
	v := validate.New()
	v.Required("name", in.Name)
	v.MaxLen("name", in.Name, 255)
	v.RequiredDecimal("price", in.Price)
	if in.Price != nil {
		v.MinDecimal("price", *in.Price, decimal.Zero)
		v.Digits("price", *in.Price, priceWholeDigits, priceScale)
	}
	v.RequiredInt("stock", in.Stock)
	if in.Stock != nil {
		v.MinInt("stock", *in.Stock, 0)
	}
	v.MinID("categoryId", in.CategoryID)
	return v.Err()
}

func (s *ProductService) requireCategory(ctx context.Context, id uint) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Category not found with id: %d", id)
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in dto.ProductInput) (dto.Product, error) {
	if err := validateProduct(in); err != nil {
		return dto.Product{}, err
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return dto.Product{}, err
	}

	p := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       *in.Price,
		Stock:       *in.Stock,
		CategoryID:  in.CategoryID,
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return dto.Product{}, err
	}

	logger.WithCtx(ctx).Info("product created", "product_id", p.ID, "category_id", p.CategoryID)
	return dto.ProductFromModel(p), nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id uint) (dto.Product, error) {
	var out dto.Product
	err := s.cache.remember(ctx, productKey(id), &out, func() error {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Product not found with id: %d", id)
		}
		out = dto.ProductFromModel(p)
		return nil
	})
	return out, err
}

// UpdateProduct replaces every mutable field. The category is resolved again.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, in dto.ProductInput) (dto.Product, error) {
	if err := validateProduct(in); err != nil {
		return dto.Product{}, err
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.Product{}, notFound(err, "Product not found with id: %d", id)
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return dto.Product{}, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = *in.Price
	p.Stock = *in.Stock
	p.CategoryID = in.CategoryID
	if err := s.products.Save(ctx, &p); err != nil {
		return dto.Product{}, err
	}

	s.cache.forget(ctx, productKey(id))
	return dto.ProductFromModel(p), nil
}

// DeleteProduct refuses to delete a product that order lines reference.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return notFound(err, "Product not found with id: %d", id)
	}

	n, err := s.orders.CountItemsByProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict("Product %d is referenced by %d order item(s)", id, n)
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Product not found with id: %d", id)
	}

	s.cache.forget(ctx, productKey(id))
	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	return nil
}

// GetAllProducts returns one page of products ordered by req.Sort, then id.
func (s *ProductService) GetAllProducts(ctx context.Context, req orm.PageRequest) (orm.Page[dto.Product], error) {
	ps, page, err := s.products.Page(ctx, req.Normalize())
	if err != nil {
		return orm.Page[dto.Product]{}, err
	}
	return orm.MapPage(orm.Page[models.Product]{Items: ps, Pagination: page}, dto.ProductFromModel), nil
}

// FilterProducts returns one page of products matching every non-empty
// field of f, each carrying its category name.
func (s *ProductService) FilterProducts(ctx context.Context, f dto.ProductFilter, req orm.PageRequest) (orm.Page[dto.Product], error) {
	rows, page, err := s.products.Filter(ctx,
		strings.TrimSpace(f.Name),
		strings.TrimSpace(f.Category),
		strings.TrimSpace(f.Description),
		req.Normalize(),
	)
	if err != nil {
		return orm.Page[dto.Product]{}, err
	}
	return orm.MapPage(orm.Page[models.ProductRow]{Items: rows, Pagination: page}, dto.ProductFromRow), nil
}
