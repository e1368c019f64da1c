package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/models"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("repositories: create category: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound (wrapped) for unknown ids.
func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return c, fmt.Errorf("repositories: find category %d: %w", id, err)
	}
	return c, nil
}

// Exists reports whether a category with id exists.
func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("repositories: category exists %d: %w", id, err)
	}
	return n > 0, nil
}

// All returns every category ordered by id.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&cs).Error; err != nil {
		return nil, fmt.Errorf("repositories: list categories: %w", err)
	}
	return cs, nil
}

func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("repositories: save category %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes the category and reports whether a row was deleted.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("repositories: delete category %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
