package routes

import (
	"cyclesafe-be/controllers"

	"github.com/gin-gonic/gin"
)

// RouteRoutes sets up the saved-route routes
func RouteRoutes(api *gin.RouterGroup, ctl *controllers.RouteController, requireAuth gin.HandlerFunc) {
	routes := api.Group("/routes", requireAuth)
	{
		routes.GET("", ctl.ListRoutes)
		routes.POST("", ctl.CreateRoute)
		routes.GET("/:id", ctl.GetRoute)
		routes.DELETE("/:id", ctl.DeleteRoute)
	}
}
