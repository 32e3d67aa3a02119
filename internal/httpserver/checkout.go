package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixshop/storefront/internal/service/checkout"
	"github.com/pixshop/storefront/internal/transport"
	"github.com/pixshop/storefront/pkg/logging"
)

type CheckoutHTTP struct {
	Svc *checkout.Service
	// Production suppresses error details in responses.
	Production bool
}

// errorBody attaches detail outside production only.
func (h *CheckoutHTTP) errorBody(message string, err error) echo.Map {
	body := echo.Map{"error": message}
	if !h.Production && err != nil {
		body["details"] = err.Error()
	}
	return body
}

func (h *CheckoutHTTP) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pixup.create_payment")

	var req transport.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_payment_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, h.errorBody("Dados inválidos", err))
	}

	descriptor, err := h.Svc.CreatePayment(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			l.Warn("create_payment_error", "status", 400, "reason", "empty cart")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Carrinho vazio"})
		case errors.Is(err, checkout.ErrInvalidAmount):
			l.Warn("create_payment_error", "status", 400, "reason", "invalid amount")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Valor inválido"})
		case errors.Is(err, checkout.ErrValidation):
			l.Warn("create_payment_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, h.errorBody("Dados inválidos", err))
		default:
			l.Error("create_payment_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, h.errorBody("Erro interno do servidor ao criar pagamento", err))
		}
	}

	return c.JSON(http.StatusOK, transport.CreatePaymentResponse{
		Success: true,
		Payment: descriptor,
	})
}

func (h *CheckoutHTTP) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pixup.webhook")

	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		l.Warn("webhook_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid body"})
	}

	signature := c.Request().Header.Get("Pixup-Signature")
	if signature == "" {
		signature = c.Request().Header.Get("X-Pixup-Signature")
	}

	ack, err := h.Svc.ProcessWebhook(ctx, rawBody, signature)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnauthorized):
			l.Warn("webhook_error", "status", 401, "error", err)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid signature"})
		case errors.Is(err, checkout.ErrValidation):
			l.Warn("webhook_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, h.errorBody("Dados inválidos do webhook", err))
		case errors.Is(err, checkout.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Pagamento não encontrado"})
		default:
			l.Error("webhook_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erro ao processar webhook"})
		}
	}
	return c.JSON(http.StatusOK, ack)
}

func (h *CheckoutHTTP) PaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "pixup.payment_status")

	status, err := h.Svc.PaymentStatus(ctx, c.Param("id"), sessionID(c))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Session required"})
		case errors.Is(err, checkout.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Pagamento não encontrado"})
		default:
			l.Error("payment_status_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erro ao consultar status do pagamento"})
		}
	}
	return c.JSON(http.StatusOK, status)
}
