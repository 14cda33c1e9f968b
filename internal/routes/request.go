package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runRequestRouter(secureGroup *echo.Group, ctrl *controllers.RequestController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)
	employeeOnly := authMW.RequireRoles(constants.RoleEmployee)

	requests := secureGroup.Group("/requests")
	requests.POST("", ctrl.CreateRequest, employeeOnly)
	requests.GET("/my", ctrl.MyRequests, employeeOnly)
	requests.GET("/manage", ctrl.ManageRequests, adminOnly)
	requests.GET("/:id", ctrl.FindRequest)
	requests.PUT("/:id/decision", ctrl.DecideRequest, adminOnly)
	requests.POST("/:id/return", ctrl.ReturnDevice, adminOnly)
	requests.DELETE("/:id", ctrl.DeleteRequest, adminOnly)
	requests.POST("/:id/extensions", ctrl.RequestExtension, employeeOnly)
}
