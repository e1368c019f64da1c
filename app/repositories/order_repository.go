package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/models"
)

// OrderRepository handles database operations for Order and its items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create inserts the order and then its items in one batch, setting
// OrderID on each item. Run it inside a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(o).Error; err != nil {
		return fmt.Errorf("repositories: create order: %w", err)
	}
	for i := range items {
		items[i].OrderID = o.ID
	}
	if err := db.Create(&items).Error; err != nil {
		return fmt.Errorf("repositories: create order items: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound (wrapped) for unknown ids.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return o, fmt.Errorf("repositories: find order %d: %w", id, err)
	}
	return o, nil
}

// All returns every order ordered by id.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("repositories: list orders: %w", err)
	}
	return orders, nil
}

// ItemsFor returns the items of the given orders in insertion order.
func (r *OrderRepository) ItemsFor(ctx context.Context, orderIDs ...uint) ([]models.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id IN ?", orderIDs).Order("order_id, id").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("repositories: list order items: %w", err)
	}
	return items, nil
}

// UpdateDate replaces the order date and reports whether the order exists.
func (r *OrderRepository) UpdateDate(ctx context.Context, id uint, date time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{ID: id}).
		Updates(map[string]interface{}{"order_date": date, "updated_at": time.Now()})
	if res.Error != nil {
		return false, fmt.Errorf("repositories: update order %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the order's items and then the order. It reports whether
// the order existed. Run it inside a transaction.
func (r *OrderRepository) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return false, fmt.Errorf("repositories: delete items of order %d: %w", id, err)
	}
	res := db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("repositories: delete order %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountItemsByProduct counts order lines referencing the product.
func (r *OrderRepository) CountItemsByProduct(ctx context.Context, productID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", productID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("repositories: count items of product %d: %w", productID, err)
	}
	return n, nil
}
