package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runDeviceTypeRouter(secureGroup *echo.Group, ctrl *controllers.DeviceTypeController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	secureGroup.GET("/device-types", ctrl.GetDeviceTypes)
	secureGroup.GET("/device-type/:id", ctrl.FindDeviceType)
	secureGroup.POST("/device-type", ctrl.CreateDeviceType, adminOnly)
	secureGroup.PUT("/device-type/:id", ctrl.UpdateDeviceType, adminOnly)
	secureGroup.DELETE("/device-type/:id", ctrl.DeleteDeviceType, adminOnly)
}
