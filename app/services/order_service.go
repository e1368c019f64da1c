package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/models"
	"github.com/shashiranjanraj/catalogapi/app/repositories"
	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
	"github.com/shashiranjanraj/catalogapi/pkg/cache"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/metrics"
	"github.com/shashiranjanraj/catalogapi/pkg/validate"
)

type OrderService struct {
	db       *gorm.DB
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	cache    readCache
}

// NewOrderService builds the service. store is the cache whose product
// entries are invalidated when stock changes; it may be nil.
func NewOrderService(db *gorm.DB, store cache.Store) *OrderService {
	return &OrderService{
		db:       db,
		orders:   repositories.NewOrderRepository(db),
		products: repositories.NewProductRepository(db),
		cache:    readCache{store: store},
	}
}

func validateCreateOrder(in dto.CreateOrderInput) error {
	v := validate.New()
	v.RequiredTime("orderDate", in.OrderDate.Time)
	v.NotEmpty("orderItems", len(in.OrderItems))
	for i, item := range in.OrderItems {
		v.MinID(fmt.Sprintf("orderItems[%d].productId", i), item.ProductID)
		v.MinInt(fmt.Sprintf("orderItems[%d].quantity", i), item.Quantity, 1)
	}
	return v.Err()
}

// CreateOrder reserves stock for every line and persists the order with its
// items in one transaction. Either all stock is decremented and the order
// exists, or nothing changed. Lines repeating a product are checked against
// the stock left by the earlier lines.
func (s *OrderService) CreateOrder(ctx context.Context, in dto.CreateOrderInput) (dto.Order, error) {
	if err := validateCreateOrder(in); err != nil {
		metrics.OrdersRejected.WithLabelValues("validation").Inc()
		return dto.Order{}, err
	}

	order := models.Order{OrderDate: in.OrderDate.UTC()}
	items := make([]models.OrderItem, 0, len(in.OrderItems))
	touched := make([]uint, 0, len(in.OrderItems))
	reserved := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		for _, line := range in.OrderItems {
			p, err := products.FindForUpdate(ctx, line.ProductID)
			if err != nil {
				return notFound(err, "Product not found with id: %d", line.ProductID)
			}
			if p.Stock < line.Quantity {
				return apperr.InsufficientStock("Insufficient stock for product ID: %d", p.ID)
			}

			ok, err := products.DecrementStock(ctx, p.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.InsufficientStock("Insufficient stock for product ID: %d", p.ID)
			}

			items = append(items, models.OrderItem{ProductID: p.ID, Quantity: line.Quantity})
			touched = append(touched, p.ID)
			reserved += line.Quantity
		}

		return s.orders.WithTx(tx).Create(ctx, &order, items)
	})
	if err != nil {
		metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		logger.WithCtx(ctx).Info("order rejected", "error", err)
		return dto.Order{}, err
	}

	keys := make([]string, 0, len(touched))
	for _, id := range touched {
		keys = append(keys, productKey(id))
	}
	s.cache.forget(ctx, keys...)

	metrics.OrdersCreated.Inc()
	metrics.UnitsReserved.Add(float64(reserved))
	logger.WithCtx(ctx).Info("order created", "order_id", order.ID, "items", len(items), "units", reserved)

	return s.assembleOne(ctx, order, items)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (dto.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return dto.Order{}, notFound(err, "Order not found with id: %d", id)
	}
	items, err := s.orders.ItemsFor(ctx, o.ID)
	if err != nil {
		return dto.Order{}, err
	}
	return s.assembleOne(ctx, o, items)
}

// GetAllOrders returns every order with its items, ordered by id.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]dto.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []dto.Order{}, nil
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := s.orders.ItemsFor(ctx, ids...)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, orders, items)
}

// UpdateOrder replaces the order date. Items and stock are untouched.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, in dto.UpdateOrderInput) (dto.Order, error) {
	v := validate.New()
	v.RequiredTime("orderDate", in.OrderDate.Time)
	if err := v.Err(); err != nil {
		return dto.Order{}, err
	}

	found, err := s.orders.UpdateDate(ctx, id, in.OrderDate.UTC())
	if err != nil {
		return dto.Order{}, err
	}
	if !found {
		return dto.Order{}, apperr.NotFound("Order not found with id: %d", id)
	}
	return s.GetOrderByID(ctx, id)
}

// DeleteOrder removes the order and its items. Reserved stock is not
// returned to the products.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := s.orders.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("Order not found with id: %d", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("order deleted", "order_id", id)
	return nil
}

func (s *OrderService) assembleOne(ctx context.Context, o models.Order, items []models.OrderItem) (dto.Order, error) {
	out, err := s.assemble(ctx, []models.Order{o}, items)
	if err != nil {
		return dto.Order{}, err
	}
	return out[0], nil
}

// assemble joins orders with their items and each item with its product.
func (s *OrderService) assemble(ctx context.Context, orders []models.Order, items []models.OrderItem) ([]dto.Order, error) {
	productIDs := make([]uint, 0, len(items))
	byOrder := make(map[uint][]models.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
		productIDs = append(productIDs, it.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.Order, 0, len(orders))
	for _, o := range orders {
		lines := make([]dto.OrderItem, 0, len(byOrder[o.ID]))
		for _, it := range byOrder[o.ID] {
			p, ok := products[it.ProductID]
			if !ok {
				p = models.Product{ID: it.ProductID}
			}
			lines = append(lines, dto.OrderItem{
				ID:        it.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Product:   dto.ProductFromModel(p),
			})
		}
		out = append(out, dto.Order{ID: o.ID, OrderDate: dto.NewDateTime(o.OrderDate), OrderItems: lines})
	}
	return out, nil
}
