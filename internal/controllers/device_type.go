package controllers

import (
	"net/http"

	"assetflow/internal/dto"
	"assetflow/internal/services"
	"assetflow/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DeviceTypeController struct {
	deviceTypeService services.DeviceTypeServiceInterface
	logger            *zap.Logger
}

func NewDeviceTypeController(service services.DeviceTypeServiceInterface, logger *zap.Logger) *DeviceTypeController {
	return &DeviceTypeController{deviceTypeService: service, logger: logger}
}

func (c *DeviceTypeController) GetDeviceTypes(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.deviceTypeService.GetDeviceTypes(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("Ошибка получения списка типов оборудования", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK, total)
}

func (c *DeviceTypeController) FindDeviceType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.deviceTypeService.FindDeviceType(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Тип оборудования успешно найден", http.StatusOK)
}

func (c *DeviceTypeController) CreateDeviceType(ctx echo.Context) error {
	var payload dto.CreateDeviceTypeDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.deviceTypeService.CreateDeviceType(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Тип оборудования успешно создан", http.StatusCreated)
}

func (c *DeviceTypeController) UpdateDeviceType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateDeviceTypeDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.deviceTypeService.UpdateDeviceType(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Тип оборудования успешно обновлен", http.StatusOK)
}

func (c *DeviceTypeController) DeleteDeviceType(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.deviceTypeService.DeleteDeviceType(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Тип оборудования успешно удален", http.StatusOK)
}
