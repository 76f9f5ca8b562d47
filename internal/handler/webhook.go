package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"capicare-backend/internal/dto"
	"capicare-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	reconcileService service.ReconcileService
}

func NewWebhookHandler(reconcileService service.ReconcileService) *WebhookHandler {
	return &WebhookHandler{
		reconcileService: reconcileService,
	}
}

// Receive handles the provider notification POST. Both the generic and the
// Kirvano-specific route land here; payload shape differences are absorbed by
// the field extractor, not by separate handlers.
func (h *WebhookHandler) Receive(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "unable to read request body"})
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "invalid JSON payload"})
	}

	result, err := h.reconcileService.Process(ctx, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			return c.JSON(http.StatusBadRequest, dto.Envelope{
				Success: false,
				Error:   `field "email" is required`,
			})
		case errors.Is(err, service.ErrAuditWrite):
			return c.JSON(http.StatusInternalServerError, dto.Envelope{
				Success: false,
				Error:   "failed to persist purchase event",
			})
		case errors.Is(err, service.ErrAccessGrant):
			// Earlier steps committed; the provider should retry the whole
			// notification, which is safe to replay.
			return c.JSON(http.StatusInternalServerError, dto.Envelope{
				Success: false,
				Error:   "failed to persist access record",
				Data:    result,
			})
		default:
			return c.JSON(http.StatusInternalServerError, dto.Envelope{
				Success: false,
				Error:   "failed to process webhook",
			})
		}
	}

	if !result.Approved {
		return c.JSON(http.StatusOK, dto.Envelope{
			Success: true,
			Message: "event logged, purchase not approved",
			Data:    result,
		})
	}

	return c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Message: "purchase approved, access granted",
		Data:    result,
	})
}

// Info answers GET on the webhook routes so the provider dashboard check and
// operators can see the endpoint is alive and what it expects.
func (h *WebhookHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "online",
		"method": "POST",
		"expectedFields": map[string]string{
			"email":             "required, also read from customer.email / contactEmail",
			"status":            "APPROVED | approved | paid | pago",
			"event_description": "Compra aprovada | Purchase approved (optional)",
			"offer_name":        "plan name, duration parsed from 30/60/90 tokens",
			"transaction_id":    "optional",
			"sale_id":           "optional",
			"amount":            "optional",
			"purchase_date":     "optional, RFC 3339",
		},
	})
}
