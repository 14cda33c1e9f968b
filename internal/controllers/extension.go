package controllers

import (
	"net/http"

	"assetflow/internal/dto"
	"assetflow/internal/services"
	"assetflow/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ExtensionController struct {
	workflowService services.WorkflowServiceInterface
	queryService    services.RequestQueryServiceInterface
	logger          *zap.Logger
}

func NewExtensionController(
	workflowService services.WorkflowServiceInterface,
	queryService services.RequestQueryServiceInterface,
	logger *zap.Logger,
) *ExtensionController {
	return &ExtensionController{workflowService: workflowService, queryService: queryService, logger: logger}
}

// ListExtensions: ?status=pending|approved|rejected, без параметра - все.
func (c *ExtensionController) ListExtensions(ctx echo.Context) error {
	res, err := c.queryService.ListExtensions(ctx.Request().Context(), ctx.QueryParam("status"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK)
}

func (c *ExtensionController) ReviewExtension(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.ReviewExtensionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.workflowService.ReviewExtension(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Решение по продлению сохранено", http.StatusOK)
}
