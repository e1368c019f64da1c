package controllers

import (
	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/pkg/ctx"
)

type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController(service *services.CategoryService) *CategoryController {
	return &CategoryController{service: service}
}

func (cc *CategoryController) Index(c *ctx.Context) {
	cs, err := cc.service.GetAllCategories(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cs)
}

func (cc *CategoryController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	cat, err := cc.service.GetCategoryByID(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (cc *CategoryController) Store(c *ctx.Context) {
	var in dto.CategoryInput
	if !c.BindJSON(&in) {
		return
	}

	cat, err := cc.service.CreateCategory(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(cat)
}

func (cc *CategoryController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var in dto.CategoryInput
	if !c.BindJSON(&in) {
		return
	}

	cat, err := cc.service.UpdateCategory(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (cc *CategoryController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	if err := cc.service.DeleteCategory(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Category deleted successfully")
}
