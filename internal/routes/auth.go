package routes

import (
	"assetflow/internal/controllers"
	"assetflow/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController, authMW *middleware.AuthMiddleware, loginRate string) error {
	loginLimit, err := middleware.RateLimit(loginRate)
	if err != nil {
		return err
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login, loginLimit)
		authGroup.POST("/refresh", authCtrl.RefreshToken)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
	}
	return nil
}
