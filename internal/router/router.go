package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/starshade/online-store/internal/handler"    // import the handlers that implement business logic
	"github.com/starshade/online-store/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// This endpoint can be used by load balancers or monitoring systems to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterUsers registers registration and login under /api/users.  Neither
// endpoint requires a token; login is where tokens come from.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/users")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterProducts registers the catalog routes under /api/products.  The
// catalog is public: no token is required for any of its operations.  The
// cache middleware, when given a Redis client, short-circuits repeat reads
// of the listing and search endpoints.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/products")
	g.GET("/search", p.Search, cache)
	g.GET("/", p.List, cache)
	g.POST("", p.Create)
	g.PUT("/:id", p.Update)
	g.DELETE("/:id", p.Delete)
}

// RegisterCartAndOrders registers the protected cart and order routes.  All
// handlers on this group run behind JWTAuth, so a request without a valid
// bearer token is rejected before any store access.
func RegisterCartAndOrders(e *echo.Echo, cart *handler.CartHandler, order *handler.OrderHandler, jwtSecret string) {
	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/cart", cart.Add)
	g.DELETE("/cart/:productId", cart.Remove)
	g.POST("/orders", order.Place)
	g.GET("/orders", order.List)
}
