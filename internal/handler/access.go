package handler

import (
	"errors"
	"net/http"

	"capicare-backend/internal/dto"
	"capicare-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type AccessHandler struct {
	accessService service.AccessService
}

func NewAccessHandler(accessService service.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}

// Verify gates login: 200 with the record when valid, 404 when no record,
// 403 when expired. Negative results are not backend errors.
func (h *AccessHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "invalid request body"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "email is required"})
	}

	info, err := h.accessService.Verify(ctx, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "email is required"})
		case errors.Is(err, service.ErrAccessNotFound):
			return c.JSON(http.StatusNotFound, dto.Envelope{
				Success: false,
				Error:   "access not found, check that you used the purchase email and the payment was approved",
			})
		case errors.Is(err, service.ErrAccessExpired):
			return c.JSON(http.StatusForbidden, dto.Envelope{
				Success: false,
				Error:   "access expired, contact support to renew",
			})
		default:
			return c.JSON(http.StatusInternalServerError, dto.Envelope{Success: false, Error: "failed to verify access"})
		}
	}

	record := info.Record
	return c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Message: "access valid",
		Data: dto.VerifyData{
			Email:          record.Email,
			Plan:           record.Plan,
			Duration:       record.Duration,
			PurchaseDate:   record.PurchaseDate,
			ExpirationDate: record.ExpirationDate,
			Active:         record.Active,
			Status:         record.Status,
			Amount:         record.Amount,
			DaysRemaining:  info.DaysRemaining,
		},
	})
}

func (h *AccessHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
