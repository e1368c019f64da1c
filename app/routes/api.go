package routes

import (
	"github.com/shashiranjanraj/catalogapi/app/controllers"
	"github.com/shashiranjanraj/catalogapi/app/schema"
	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/pkg/ctx"
	"github.com/shashiranjanraj/catalogapi/pkg/graphql"
	"github.com/shashiranjanraj/catalogapi/pkg/middleware"
	"github.com/shashiranjanraj/catalogapi/pkg/rbac"
	"github.com/shashiranjanraj/catalogapi/pkg/router"
)

// Services are the application services the API is built on.
type Services struct {
	Auth       *services.AuthService
	Categories *services.CategoryService
	Products   *services.ProductService
	Orders     *services.OrderService
}

// catalogReader joins the category and product services for the GraphQL schema.
type catalogReader struct {
	*services.CategoryService
	*services.ProductService
}

// RegisterAPI mounts every API route under prefix. Auth routes are public;
// everything else needs a bearer token, and catalog writes need ROLE_ADMIN.
func RegisterAPI(r *router.Router, prefix string, s Services, tokens middleware.TokenParser) error {
	gql, err := schema.New(catalogReader{s.Categories, s.Products})
	if err != nil {
		return err
	}

	authController := controllers.NewAuthController(s.Auth)
	categoryController := controllers.NewCategoryController(s.Categories)
	productController := controllers.NewProductController(s.Products)
	orderController := controllers.NewOrderController(s.Orders)

	api := r.Group(prefix)
	api.Post("/auth/register", "auth.register", ctx.Wrap(authController.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authController.Login))

	protected := api.Group("", middleware.Authenticate(tokens))
	admin := rbac.HasRole(rbac.RoleAdmin)

	protected.Get("/categories", "categories.index", ctx.Wrap(categoryController.Index))
	protected.Get("/categories/{id}", "categories.show", ctx.Wrap(categoryController.Show))
	protected.Post("/categories", "categories.store", ctx.Wrap(categoryController.Store), admin)
	protected.Put("/categories/{id}", "categories.update", ctx.Wrap(categoryController.Update), admin)
	protected.Delete("/categories/{id}", "categories.destroy", ctx.Wrap(categoryController.Destroy), admin)

	protected.Get("/products", "products.index", ctx.Wrap(productController.Index))
	protected.Get("/products/search", "products.search", ctx.Wrap(productController.Search))
	protected.Get("/products/{id}", "products.show", ctx.Wrap(productController.Show))
	protected.Post("/products", "products.store", ctx.Wrap(productController.Store), admin)
	protected.Put("/products/{id}", "products.update", ctx.Wrap(productController.Update), admin)
	protected.Delete("/products/{id}", "products.destroy", ctx.Wrap(productController.Destroy), admin)

	protected.Get("/orders", "orders.index", ctx.Wrap(orderController.Index))
	protected.Get("/orders/{id}", "orders.show", ctx.Wrap(orderController.Show))
	protected.Post("/orders", "orders.store", ctx.Wrap(orderController.Store))
	protected.Put("/orders/{id}", "orders.update", ctx.Wrap(orderController.Update))
	protected.Delete("/orders/{id}", "orders.destroy", ctx.Wrap(orderController.Destroy))

	protected.Post("/graphql", "graphql", graphql.Handler(gql))

	return nil
}
