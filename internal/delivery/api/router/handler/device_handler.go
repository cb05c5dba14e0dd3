package handler

import (
	"net/http"

	"rentalhub/internal/delivery/api/response"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	DeviceUC usecase.DeviceUsecase
}

// DeviceHandler holds dependencies for device-related handlers
type DeviceHandler struct {
	deviceUC usecase.DeviceUsecase
}

// NewDeviceHandler is the constructor for DeviceHandler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{deviceUC: params.DeviceUC}
}

// RegisterDeviceRequest represents the request body for registering a device
type RegisterDeviceRequest struct {
	FCMToken string `json:"fcm_token" validate:"required,max=4096"`
	DeviceID string `json:"device_id" validate:"required,max=255"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// RegisterDevice registers the caller's device for order notifications
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req RegisterDeviceRequest
	if err := bindBody(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	device, err := h.deviceUC.RegisterDevice(c.Request().Context(), principal.ID, &usecase.DeviceInfo{
		DeviceID: req.DeviceID,
		FCMToken: req.FCMToken,
		Platform: entity.DevicePlatform(req.Platform),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device)
}

// ListDevices lists the caller's devices
func (h *DeviceHandler) ListDevices(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	devices, err := h.deviceUC.ListDevices(c.Request().Context(), principal.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, devices)
}

// DeactivateDevice stops notifications to one of the caller's devices
func (h *DeviceHandler) DeactivateDevice(c echo.Context) error {
	principal, err := principalOf(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.deviceUC.DeactivateDevice(c.Request().Context(), principal.ID, c.Param("device_id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Device deactivated"})
}
