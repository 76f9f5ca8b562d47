package handler

import (
	"errors"
	"net/http"

	"capicare-backend/internal/dto"
	"capicare-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler exposes the operator/diagnostic endpoints. These are thin
// wrappers: all of them end up in the same store and pipeline the live
// webhook uses.
type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.adminService.ListUsers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.Envelope{Success: false, Error: "failed to list users"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"totalUsers": len(users),
		"users":      users,
	})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DeleteUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "invalid request body"})
	}

	deleted, err := h.adminService.DeleteUser(ctx, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailRequired) {
			return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "email is required"})
		}
		return c.JSON(http.StatusInternalServerError, dto.Envelope{Success: false, Error: "failed to delete user"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, dto.Envelope{Success: false, Error: "user not found"})
	}

	return c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "user deleted"})
}

// ForceRegister writes an access record directly, skipping the pipeline.
// Emergency use when the provider webhook never arrived.
func (h *AdminHandler) ForceRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ForceRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "invalid request body"})
	}

	record, err := h.adminService.ForceRegister(ctx, req.Email, req.Name, req.Plan, req.Duration)
	if err != nil {
		if errors.Is(err, service.ErrEmailRequired) {
			return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "email is required"})
		}
		return c.JSON(http.StatusInternalServerError, dto.Envelope{Success: false, Error: "failed to register user"})
	}

	return c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Message: "user registered (forced)",
		Data:    record,
	})
}

// Simulate synthesizes an approved provider payload and runs it through the
// real reconciliation pipeline.
func (h *AdminHandler) Simulate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SimulateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "invalid request body"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "email is required"})
	}

	result, err := h.adminService.SimulatePurchase(ctx, req.Email, req.Plan)
	if err != nil {
		if errors.Is(err, service.ErrEmailRequired) {
			return c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "email is required"})
		}
		return c.JSON(http.StatusInternalServerError, dto.Envelope{Success: false, Error: "failed to simulate purchase"})
	}

	return c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Message: "simulated purchase processed",
		Data:    result,
	})
}
