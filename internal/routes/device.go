package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runDeviceRouter(secureGroup *echo.Group, ctrl *controllers.DeviceController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	devices := secureGroup.Group("/devices")
	devices.GET("", ctrl.ListDevices, authMW.RequireRoles(constants.RoleAdmin, constants.RoleTech, constants.RoleEmployee))
	devices.GET("/:id", ctrl.FindDevice)
	devices.POST("", ctrl.CreateDevice, adminOnly)
	devices.POST("/import", ctrl.ImportDevices, adminOnly)
	devices.PUT("/:id", ctrl.UpdateDevice, adminOnly)
	devices.DELETE("/:id", ctrl.DeleteDevice, adminOnly)

	devices.POST("/:id/breakdown", ctrl.ReportBreakdown, authMW.RequireRoles(constants.RoleEmployee))
	devices.POST("/:id/write-off", ctrl.WriteOffDevice, adminOnly)
	devices.GET("/:id/movements", ctrl.DeviceMovements, authMW.RequireRoles(constants.RoleAdmin, constants.RoleAnalyst))
}
