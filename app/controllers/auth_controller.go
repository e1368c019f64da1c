package controllers

import (
	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in dto.Credentials
	if !c.BindJSON(&in) {
		return
	}

	u, err := ac.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(u)
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *ctx.Context) {
	var in dto.Credentials
	if !c.BindJSON(&in) {
		return
	}

	tok, err := ac.service.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(tok)
}
