package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Incident is a geolocated hazard report that stays live for Duration after it was reported.
type Incident struct {
	ID         primitive.ObjectID `json:"id"`
	Image      *string            `json:"image,omitempty"`
	Caption    string             `json:"caption"`
	Location   Point              `json:"location"`
	Duration   int64              `json:"duration"`
	ReportedAt time.Time          `json:"reportedAt"`
	IsActive   bool               `json:"isActive"`
}

// ActiveAt reports whether the incident is still live at asOf.
// The boundary is inclusive: an incident is live until exactly ReportedAt+Duration.
func (i *Incident) ActiveAt(asOf time.Time) bool {
	return asOf.Sub(i.ReportedAt).Milliseconds() <= i.Duration
}

// ExpiresAt is the last instant at which the incident is still live.
func (i *Incident) ExpiresAt() time.Time {
	return i.ReportedAt.Add(time.Duration(i.Duration) * time.Millisecond)
}

// Refresh recomputes the derived IsActive flag.
func (i *Incident) Refresh(asOf time.Time) *Incident {
	i.IsActive = i.ActiveAt(asOf)
	return i
}

// MaxIncidentDuration is the longest lifetime a report may ask for, in
// milliseconds (365 days). It must match the lte bound on IncidentInput.Duration.
const MaxIncidentDuration int64 = 365 * 24 * 60 * 60 * 1000

// IncidentInput is the body of an incident report.
type IncidentInput struct {
	Caption   string  `json:"caption" validate:"required,nonblank"`
	Longitude *Number `json:"longitude" validate:"required,longitude"`
	Latitude  *Number `json:"latitude" validate:"required,latitude"`
	Duration  *Number `json:"duration" validate:"required,integral,gte=0,lte=31536000000"`
	Image     *string `json:"image,omitempty"`
}

// Validate checks every field in one pass and returns a *ValidationError naming
// all of the offending ones, or nil.
func (in *IncidentInput) Validate() error {
	return validateStruct(in).orNil()
}

// Incident builds the record to persist. Call Validate first.
func (in *IncidentInput) Incident(reportedAt time.Time) *Incident {
	inc := &Incident{
		ID:      primitive.NewObjectID(),
		Caption: strings.TrimSpace(in.Caption),
		Location: PointInput{
			Longitude: in.Longitude,
			Latitude:  in.Latitude,
		}.point(),
		Duration:   int64(*in.Duration),
		ReportedAt: reportedAt,
	}
	if in.Image != nil && *in.Image != "" {
		img := *in.Image
		inc.Image = &img
	}
	return inc
}

// IncidentQuery narrows a listing of live incidents.
type IncidentQuery struct {
	AsOf  time.Time
	Limit int64
	Skip  int64
	Near  *Area
}

// Area is a circle on the earth's surface.
type Area struct {
	Center       Point
	RadiusMeters float64
}
