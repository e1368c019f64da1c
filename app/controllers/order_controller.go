package controllers

import (
	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.service.GetAllOrders(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	o, err := oc.service.GetOrderByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}

// Store reserves stock for every line and creates the order atomically.
func (oc *OrderController) Store(c *ctx.Context) {
	var in dto.CreateOrderInput
	if !c.BindJSON(&in) {
		return
	}

	o, err := oc.service.CreateOrder(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(o)
}

func (oc *OrderController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in dto.UpdateOrderInput
	if !c.BindJSON(&in) {
		return
	}

	o, err := oc.service.UpdateOrder(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(o)
}

func (oc *OrderController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	if err := oc.service.DeleteOrder(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Order deleted successfully")
}
