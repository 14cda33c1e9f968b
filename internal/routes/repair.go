package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runRepairRouter(secureGroup *echo.Group, ctrl *controllers.RepairController, authMW *middleware.AuthMiddleware) {
	repairs := secureGroup.Group("/repairs")
	repairs.GET("", ctrl.ListOpenRepairs, authMW.RequireRoles(constants.RoleTech, constants.RoleAdmin))
	repairs.POST("/:id/complete", ctrl.CompleteRepair, authMW.RequireRoles(constants.RoleTech))
}
