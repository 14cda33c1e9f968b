package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runReportRouter(secureGroup *echo.Group, ctrl *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	reports := secureGroup.Group("/reports", authMW.RequireRoles(constants.RoleAnalyst, constants.RoleAdmin))
	reports.GET("/movements", ctrl.MovementReport)
	reports.GET("/breakdowns", ctrl.BreakdownStatistics)
}
