package controllers

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"cyclesafe-be/middlewares"
	"cyclesafe-be/models"

	"github.com/gin-gonic/gin"
)

const maxIncidentPageSize = 100

//go:generate mockgen -source=incidentController.go -destination=mocks/incidentController_mock.go -package=mocks
type IncidentService interface {
	Report(ctx context.Context, in models.IncidentInput) (*models.Incident, error)
	List(ctx context.Context, q models.IncidentQuery) ([]*models.Incident, error)
	Get(ctx context.Context, id string) (*models.Incident, error)
	Delete(ctx context.Context, id string) error
}

type IncidentController struct {
	incidents IncidentService
	logger    *slog.Logger
}

func NewIncidentController(incidents IncidentService, logger *slog.Logger) *IncidentController {
	return &IncidentController{incidents: incidents, logger: logger}
}

type reportIncidentResponse struct {
	Message  string           `json:"message"`
	Incident *models.Incident `json:"incident"`
}

// ReportIncident handles POST /api/incidents
func (ctl *IncidentController) ReportIncident(c *gin.Context) {
	var input models.IncidentInput
	if !bindJSON(c, &input) {
		return
	}

	incident, err := ctl.incidents.Report(c.Request.Context(), input)
	if err != nil {
		handleError(c, ctl.logger, err, "Incident")
		return
	}

	imageBytes := 0
	if incident.Image != nil {
		imageBytes = len(*incident.Image)
	}
	ctl.logger.Info("incident reported",
		slog.String("request_id", middlewares.RequestID(c)),
		slog.String("incident_id", incident.ID.Hex()),
		slog.Int64("duration_ms", incident.Duration),
		slog.Int("image_bytes", imageBytes))

	c.JSON(http.StatusCreated, reportIncidentResponse{
		Message:  "Incident reported successfully",
		Incident: incident,
	})
}

// ListIncidents handles GET /api/incidents. Only incidents that have not
// expired are returned, newest first.
func (ctl *IncidentController) ListIncidents(c *gin.Context) {
	q, err := parseIncidentQuery(c)
	if err != nil {
		handleError(c, ctl.logger, err, "Incident")
		return
	}

	incidents, err := ctl.incidents.List(c.Request.Context(), q)
	if err != nil {
		handleError(c, ctl.logger, err, "Incident")
		return
	}
	c.JSON(http.StatusOK, incidents)
}

func (ctl *IncidentController) GetIncident(c *gin.Context) {
	incident, err := ctl.incidents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, ctl.logger, err, "Incident")
		return
	}
	c.JSON(http.StatusOK, incident)
}

func (ctl *IncidentController) DeleteIncident(c *gin.Context) {
	if err := ctl.incidents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, ctl.logger, err, "Incident")
		return
	}

	ctl.logger.Info("incident deleted",
		slog.String("request_id", middlewares.RequestID(c)),
		slog.String("incident_id", c.Param("id")))
	c.JSON(http.StatusOK, messageResponse{Message: "Incident deleted successfully"})
}

// parseIncidentQuery reads limit, skip and the optional lng/lat/radius area
// filter. limit above the page cap is clamped; no limit means every live
// incident.
func parseIncidentQuery(c *gin.Context) (models.IncidentQuery, error) {
	var q models.IncidentQuery
	var fields []models.FieldError

	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		switch {
		case err != nil || n < 1:
			fields = append(fields, models.FieldError{Field: "limit", Message: "must be a positive whole number"})
		case n > maxIncidentPageSize:
			q.Limit = maxIncidentPageSize
		default:
			q.Limit = n
		}
	}

	if v, ok := c.GetQuery("skip"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			fields = append(fields, models.FieldError{Field: "skip", Message: "must be greater than or equal to 0"})
		} else {
			q.Skip = n
		}
	}

	lng, hasLng := c.GetQuery("lng")
	lat, hasLat := c.GetQuery("lat")
	radius, hasRadius := c.GetQuery("radius")
	if hasLng || hasLat || hasRadius {
		area := &models.Area{}
		var ok bool
		if area.Center.Longitude, ok = parseFloatInRange(lng, -180, 180); !ok {
			fields = append(fields, models.FieldError{Field: "lng", Message: "must be a longitude between -180 and 180"})
		}
		if area.Center.Latitude, ok = parseFloatInRange(lat, -90, 90); !ok {
			fields = append(fields, models.FieldError{Field: "lat", Message: "must be a latitude between -90 and 90"})
		}
		if area.RadiusMeters, ok = parseFloatInRange(radius, 0, math.MaxFloat64); !ok || area.RadiusMeters == 0 {
			fields = append(fields, models.FieldError{Field: "radius", Message: "must be a positive number of meters"})
		}
		q.Near = area
	}

	if len(fields) > 0 {
		return q, &models.ValidationError{Fields: fields}
	}
	return q, nil
}

func parseFloatInRange(s string, lo, hi float64) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < lo || f > hi {
		return 0, false
	}
	return f, true
}
