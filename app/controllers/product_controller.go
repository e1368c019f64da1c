package controllers

import (
	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/pkg/ctx"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index handles GET /products?page=&size=&sort=.
func (pc *ProductController) Index(c *ctx.Context) {
	req, ok := c.PageRequest()
	if !ok {
		return
	}

	page, err := pc.service.GetAllProducts(c.Context(), req)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Page(page.Items, page.Pagination)
}

// Search handles GET /products/search?name=&category=&description=.
func (pc *ProductController) Search(c *ctx.Context) {
	req, ok := c.PageRequest()
	if !ok {
		return
	}
	f := dto.ProductFilter{
		Name:        c.Query("name"),
		Category:    c.Query("category"),
		Description: c.Query("description"),
	}

	page, err := pc.service.FilterProducts(c.Context(), f, req)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Page(page.Items, page.Pagination)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	p, err := pc.service.GetProductByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var in dto.ProductInput
	if !c.BindJSON(&in) {
		return
	}

	p, err := pc.service.CreateProduct(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in dto.ProductInput
	if !c.BindJSON(&in) {
		return
	}

	p, err := pc.service.UpdateProduct(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	if err := pc.service.DeleteProduct(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product deleted successfully")
}
