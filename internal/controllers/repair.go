package controllers

import (
	"net/http"

	"assetflow/internal/services"
	"assetflow/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RepairController struct {
	workflowService services.WorkflowServiceInterface
	queryService    services.RequestQueryServiceInterface
	logger          *zap.Logger
}

func NewRepairController(
	workflowService services.WorkflowServiceInterface,
	queryService services.RequestQueryServiceInterface,
	logger *zap.Logger,
) *RepairController {
	return &RepairController{workflowService: workflowService, queryService: queryService, logger: logger}
}

func (c *RepairController) ListOpenRepairs(ctx echo.Context) error {
	res, err := c.queryService.ListOpenRepairs(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Успешно", http.StatusOK)
}

func (c *RepairController) CompleteRepair(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.workflowService.CompleteRepair(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Ремонт завершен", http.StatusOK)
}
