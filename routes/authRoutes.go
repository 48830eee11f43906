package routes

import (
	"cyclesafe-be/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(api *gin.RouterGroup, ctl *controllers.AuthController, requireAuth gin.HandlerFunc) {
	auth := api.Group("/auth")
	{
		auth.POST("/signup", ctl.RegisterUser)
		auth.POST("/login", ctl.LoginUser)
		auth.POST("/logout", ctl.LogoutUser)
		auth.GET("/me", requireAuth, ctl.GetMe)
	}
}
