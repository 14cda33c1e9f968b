package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runEmployeeRouter(secureGroup *echo.Group, ctrl *controllers.EmployeeController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	employees := secureGroup.Group("/employees")
	employees.GET("", ctrl.GetEmployees, authMW.RequireRoles(constants.RoleAdmin, constants.RoleTech, constants.RoleAnalyst))
	// сотрудник видит только свою карточку, это проверяет сервис
	employees.GET("/:id", ctrl.FindEmployee)
	employees.POST("", ctrl.CreateEmployee, adminOnly)
	employees.PUT("/:id", ctrl.UpdateEmployee, adminOnly)
	employees.GET("/:id/requests", ctrl.EmployeeRequests, authMW.RequireRoles(constants.RoleAdmin, constants.RoleTech, constants.RoleEmployee))
}
