package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	cartservice "github.com/pixshop/storefront/internal/service/cart"
	"github.com/pixshop/storefront/internal/transport"
	"github.com/pixshop/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *cartservice.Service
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	sid := sessionID(c)
	if sid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cart session ID required"})
	}

	items, err := h.Svc.GetCart(ctx, sid)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch cart"})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid cart data"})
	}

	item, err := h.Svc.AddToCart(ctx, req.SessionID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cartservice.ErrValidation):
			l.Warn("add_to_cart_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid cart data"})
		case errors.Is(err, cartservice.ErrNotFound):
			l.Warn("add_to_cart_error", "status", 404, "error", err)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		default:
			l.Error("add_to_cart_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add item to cart"})
		}
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	sid := sessionID(c)
	if sid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cart session ID required"})
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Cart item not found"})
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid quantity"})
	}

	item, err := h.Svc.UpdateQuantity(ctx, sid, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cartservice.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid quantity"})
		case errors.Is(err, cartservice.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Cart item not found"})
		default:
			l.Error("update_cart_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update cart item"})
		}
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	sid := sessionID(c)
	if sid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cart session ID required"})
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Cart item not found"})
	}

	if err := h.Svc.RemoveFromCart(ctx, sid, itemID); err != nil {
		switch {
		case errors.Is(err, cartservice.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Cart item not found"})
		default:
			l.Error("remove_cart_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to remove cart item"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	var req transport.ClearCartRequest
	if err := c.Bind(&req); err != nil || req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Session ID required"})
	}

	if err := h.Svc.ClearCart(ctx, req.SessionID); err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to clear cart"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
