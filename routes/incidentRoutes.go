package routes

import (
	"cyclesafe-be/controllers"

	"github.com/gin-gonic/gin"
)

// IncidentRoutes sets up the incident routes. Reporting is anonymous, so the
// only guard is the optional per-IP limiter.
func IncidentRoutes(api *gin.RouterGroup, ctl *controllers.IncidentController, limiter gin.HandlerFunc) {
	report := []gin.HandlerFunc{ctl.ReportIncident}
	if limiter != nil {
		report = append([]gin.HandlerFunc{limiter}, report...)
	}

	incidents := api.Group("/incidents")
	{
		incidents.GET("", ctl.ListIncidents)
		incidents.POST("", report...)
		incidents.GET("/:id", ctl.GetIncident)
		incidents.DELETE("/:id", ctl.DeleteIncident)
	}
}
