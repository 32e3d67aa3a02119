package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	CartHandler     *CartHTTP
	ProductHandler  *ProductHTTP
	CheckoutHandler *CheckoutHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	cart := api.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PUT("/:id", d.CartHandler.UpdateQuantity)
	// clear before :id so "clear" is not captured as an item id
	cart.DELETE("/clear", d.CartHandler.ClearCart)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)

	pixup := api.Group("/pixup")
	pixup.POST("/create-payment", d.CheckoutHandler.CreatePayment)
	pixup.POST("/webhook", d.CheckoutHandler.Webhook)
	pixup.GET("/payment/:id/status", d.CheckoutHandler.PaymentStatus)
}

const sessionHeader = "Cart-Session-Id"

// sessionID pulls the guest session token from the request; GET endpoints may
// also pass it as a query parameter.
func sessionID(c echo.Context) string {
	if s := c.Request().Header.Get(sessionHeader); s != "" {
		return s
	}
	return c.QueryParam("sessionId")
}
