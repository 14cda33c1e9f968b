package controllers

import (
	"net/http"

	"assetflow/internal/dto"
	"assetflow/internal/services"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DeviceController - справочник оборудования и действия над конкретным устройством
// (поломка, списание, журнал).
type DeviceController struct {
	deviceService   services.DeviceServiceInterface
	workflowService services.WorkflowServiceInterface
	reportService   services.ReportServiceInterface
	importService   services.DeviceImportServiceInterface
	logger          *zap.Logger
}

func NewDeviceController(
	deviceService services.DeviceServiceInterface,
	workflowService services.WorkflowServiceInterface,
	reportService services.ReportServiceInterface,
	importService services.DeviceImportServiceInterface,
	logger *zap.Logger,
) *DeviceController {
	return &DeviceController{
		deviceService:   deviceService,
		workflowService: workflowService,
		reportService:   reportService,
		importService:   importService,
		logger:          logger,
	}
}

func (c *DeviceController) ListDevices(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, err := c.deviceService.ListDevices(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK)
}

func (c *DeviceController) FindDevice(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.deviceService.FindDevice(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Оборудование найдено", http.StatusOK)
}

func (c *DeviceController) CreateDevice(ctx echo.Context) error {
	var payload dto.CreateDeviceDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.deviceService.CreateDevice(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Оборудование добавлено", http.StatusCreated)
}

func (c *DeviceController) UpdateDevice(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateDeviceDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.deviceService.UpdateDevice(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Оборудование обновлено", http.StatusOK)
}

func (c *DeviceController) DeleteDevice(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.deviceService.DeleteDevice(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Оборудование удалено", http.StatusOK)
}

func (c *DeviceController) ReportBreakdown(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.ReportBreakdownDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.workflowService.ReportBreakdown(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Поломка зарегистрирована", http.StatusCreated)
}

func (c *DeviceController) WriteOffDevice(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.WriteOffDeviceDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.workflowService.WriteOffDevice(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Оборудование списано", http.StatusOK)
}

func (c *DeviceController) DeviceMovements(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.reportService.DeviceMovements(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK)
}

// ImportDevices принимает xlsx в поле "file" формы.
func (c *DeviceController) ImportDevices(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Файл не передан", err, nil), c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	res, err := c.importService.ImportDevices(ctx.Request().Context(), src)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Импорт завершен", http.StatusOK)
}
