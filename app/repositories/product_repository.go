package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/pkg/orm"
)

// ProductSortColumns maps the sortable API fields onto columns of the
// aliased products table.
var ProductSortColumns = map[string]string{
	"id":          "p.id",
	"name":        "p.name",
	"description": "p.description",
	"price":       "p.price",
	"stock":       "p.stock",
}

const productTiebreak = "p.id"

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("repositories: create product: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound (wrapped) for unknown ids.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return p, fmt.Errorf("repositories: find product %d: %w", id, err)
	}
	return p, nil
}

// FindForUpdate loads the product and locks its row until the surrounding
// transaction ends. SQLite has no row locks and serializes writers instead;
// SQL Server relies on the guarded decrement alone.
func (r *ProductRepository) FindForUpdate(ctx context.Context, id uint) (models.Product, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() != "sqlserver" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p models.Product
	if err := q.First(&p, id).Error; err != nil {
		return p, fmt.Errorf("repositories: lock product %d: %w", id, err)
	}
	return p, nil
}

// FindByIDs returns the products with the given ids keyed by id. Unknown ids
// are absent from the map.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var ps []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("repositories: find products: %w", err)
	}
	for _, p := range ps {
		out[p.ID] = p
	}
	return out, nil
}

// DecrementStock subtracts qty from the product's stock only if enough is
// left. It reports false when the guard rejected the update.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("repositories: decrement stock %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("repositories: save product %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes the product and reports whether a row was deleted.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("repositories: delete product %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountByCategory counts products that reference the category.
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("repositories: count products of category %d: %w", categoryID, err)
	}
	return n, nil
}

// Page returns one sorted page of all products.
func (r *ProductRepository) Page(ctx context.Context, req orm.PageRequest) ([]models.Product, orm.Pagination, error) {
	order, err := orm.OrderBy(req.Sort, ProductSortColumns, productTiebreak)
	if err != nil {
		return nil, orm.Pagination{}, err
	}

	var ps []models.Product
	q := r.db.WithContext(ctx).Table("products AS p")
	page, err := orm.Paginate(q, req, order, &ps, "p.*")
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("repositories: page products: %w", err)
	}
	return ps, page, nil
}

// Filter returns one page of products matching every non-empty criterion,
// joined with their category name. Matching is case-insensitive on
// substrings; a product whose category is gone never matches a category
// criterion.
func (r *ProductRepository) Filter(ctx context.Context, name, category, description string, req orm.PageRequest) ([]models.ProductRow, orm.Pagination, error) {
	order, err := orm.OrderBy(req.Sort, ProductSortColumns, productTiebreak)
	if err != nil {
		return nil, orm.Pagination{}, err
	}

	q := r.db.WithContext(ctx).
		Table("products AS p").
		Joins("LEFT JOIN categories AS c ON c.id = p.category_id")
	if name != "" {
		q = q.Where("LOWER(p.name) LIKE ? ESCAPE '!'", containsPattern(name))
	}
	if category != "" {
		q = q.Where("LOWER(c.name) LIKE ? ESCAPE '!'", containsPattern(category))
	}
	if description != "" {
		q = q.Where("LOWER(p.description) LIKE ? ESCAPE '!'", containsPattern(description))
	}

	var rows []models.ProductRow
	page, err := orm.Paginate(q, req, order, &rows, "p.*", "c.name AS category_name")
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("repositories: filter products: %w", err)
	}
	return rows, page, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s anywhere, with LIKE
// metacharacters in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
