package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"assetflow/internal/services"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// MovementReport: ?limit=N (по умолчанию 10), ?format=xlsx - выгрузка файлом.
func (c *ReportController) MovementReport(ctx echo.Context) error {
	var limit uint64
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверный параметр limit", err, map[string]interface{}{"limit": raw}),
				c.logger,
			)
		}
		limit = parsed
	}

	report, err := c.reportService.MovementReport(ctx.Request().Context(), limit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if isXLSX(ctx) {
		var buf bytes.Buffer
		if err := c.reportService.WriteMovementsXLSX(&buf, report.Movements); err != nil {
			c.logger.Error("Ошибка формирования xlsx журнала движения", zap.Error(err))
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return c.respondWithXLSX(ctx, "movements", buf.Bytes())
	}
	return utils.SuccessResponse(ctx, report, "Отчет успешно сформирован", http.StatusOK)
}

func (c *ReportController) BreakdownStatistics(ctx echo.Context) error {
	stats, err := c.reportService.BreakdownStatistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if isXLSX(ctx) {
		var buf bytes.Buffer
		if err := c.reportService.WriteBreakdownsXLSX(&buf, stats); err != nil {
			c.logger.Error("Ошибка формирования xlsx статистики поломок", zap.Error(err))
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return c.respondWithXLSX(ctx, "breakdowns", buf.Bytes())
	}
	return utils.SuccessResponse(ctx, stats, "Отчет успешно сформирован", http.StatusOK)
}

func isXLSX(ctx echo.Context) bool {
	return strings.EqualFold(ctx.QueryParam("format"), "xlsx")
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, name string, data []byte) error {
	fileName := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	return ctx.Blob(http.StatusOK, xlsxContentType, data)
}
