package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runExtensionRouter(secureGroup *echo.Group, ctrl *controllers.ExtensionController, authMW *middleware.AuthMiddleware) {
	extensions := secureGroup.Group("/extensions", authMW.RequireRoles(constants.RoleAdmin))
	extensions.GET("", ctrl.ListExtensions)
	extensions.PUT("/:id/review", ctrl.ReviewExtension)
}
