package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	users := secureGroup.Group("/users", authMW.RequireRoles(constants.RoleAdmin))
	users.GET("", userCtrl.GetUsers)
	users.POST("", userCtrl.CreateUser)
	users.PUT("/:id/role", userCtrl.ChangeRole)
}
