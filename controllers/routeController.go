package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"cyclesafe-be/middlewares"
	"cyclesafe-be/models"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=routeController.go -destination=mocks/routeController_mock.go -package=mocks
type RouteService interface {
	Create(ctx context.Context, owner string, in models.RouteInput) (*models.Route, error)
	List(ctx context.Context, owner string) ([]*models.Route, error)
	Get(ctx context.Context, owner, id string) (*models.Route, error)
	Delete(ctx context.Context, owner, id string) error
}

// RouteController serves the caller's saved routes. Every handler runs behind
// AuthMiddleware; the owner is never read from the request body.
type RouteController struct {
	routes RouteService
	logger *slog.Logger
}

func NewRouteController(routes RouteService, logger *slog.Logger) *RouteController {
	return &RouteController{routes: routes, logger: logger}
}

func (ctl *RouteController) CreateRoute(c *gin.Context) {
	var input models.RouteInput
	if !bindJSON(c, &input) {
		return
	}

	route, err := ctl.routes.Create(c.Request.Context(), middlewares.UserID(c), input)
	if err != nil {
		handleError(c, ctl.logger, err, "Route")
		return
	}

	ctl.logger.Info("route saved",
		slog.String("request_id", middlewares.RequestID(c)),
		slog.String("route_id", route.ID.Hex()),
		slog.String("owner", route.Owner))
	c.PureJSON(http.StatusCreated, route)
}

func (ctl *RouteController) ListRoutes(c *gin.Context) {
	routes, err := ctl.routes.List(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		handleError(c, ctl.logger, err, "Route")
		return
	}
	c.PureJSON(http.StatusOK, routes)
}

func (ctl *RouteController) GetRoute(c *gin.Context) {
	route, err := ctl.routes.Get(c.Request.Context(), middlewares.UserID(c), c.Param("id"))
	if err != nil {
		handleError(c, ctl.logger, err, "Route")
		return
	}
	c.PureJSON(http.StatusOK, route)
}

func (ctl *RouteController) DeleteRoute(c *gin.Context) {
	if err := ctl.routes.Delete(c.Request.Context(), middlewares.UserID(c), c.Param("id")); err != nil {
		handleError(c, ctl.logger, err, "Route")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Route deleted successfully"})
}
