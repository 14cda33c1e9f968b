package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/constants"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

// Браузер не передаёт заголовок Authorization при открытии WebSocket, поэтому токен в query.
func runWebSocketRouter(api *echo.Group, ctrl *controllers.WebSocketController, authMW *middleware.AuthMiddleware) {
	api.GET("/ws/movements", ctrl.ServeWs, authMW.AuthFromQuery, authMW.RequireRoles(constants.RoleAdmin, constants.RoleAnalyst))
}
