package routes

import (
	"cyclesafe-be/controllers"

	"github.com/gin-gonic/gin"
)

func ProfileRoutes(api *gin.RouterGroup, ctl *controllers.ProfileController, requireAuth gin.HandlerFunc) {
	profile := api.Group("/users/me/profile", requireAuth)
	{
		profile.GET("", ctl.GetProfile)
		profile.PUT("", ctl.SaveProfile)
	}
}
