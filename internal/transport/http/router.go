package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Maksimell/shop_backend/internal/handlers"
	"github.com/Maksimell/shop_backend/internal/middleware/auth"
)

type Deps struct {
	DB             *gorm.DB
	Auth           *auth.Middleware
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(204) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(204) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, d.Auth.RequireSession)

	api := e.Group("/api")

	products := api.Group("/products")
	products.POST("/add", d.ProductHandler.AddProduct, d.Auth.RequireSession)
	products.DELETE("/delete/:id", d.ProductHandler.DeleteProduct, d.Auth.RequireSession)
	products.PUT("/update/:id", d.ProductHandler.UpdateProduct, d.Auth.RequireSession)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("", d.ProductHandler.GetProducts)

	cart := api.Group("/cart", d.Auth.RequireSession)
	cart.POST("/add/:product_id", d.CartHandler.AddToCart)
	cart.DELETE("/delete/:product_id", d.CartHandler.RemoveFromCart)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/checkout", d.CartHandler.Checkout)
}
