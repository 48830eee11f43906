package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Route is a saved bicycle route. Owner is bound at creation and never changes.
type Route struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Owner         string             `json:"owner" bson:"owner"`
	Name          string             `json:"name" bson:"name"`
	StartLocation string             `json:"startLocation" bson:"startLocation"`
	EndLocation   string             `json:"endLocation" bson:"endLocation"`
	Distance      float64            `json:"distance" bson:"distance"` // meters
	Duration      float64            `json:"duration" bson:"duration"` // seconds
	Geometry      RawJSON            `json:"geometry" bson:"geometry"`
	Steps         RawJSON            `json:"steps" bson:"steps"`
	Origin        NamedPoint         `json:"origin" bson:"origin"`
	Destination   NamedPoint         `json:"destination" bson:"destination"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// RouteInput is the body of a save-route request. It has no owner field; the
// owner always comes from the verified token.
type RouteInput struct {
	Name          string           `json:"name" validate:"required,nonblank"`
	StartLocation string           `json:"startLocation" validate:"required,nonblank"`
	EndLocation   string           `json:"endLocation" validate:"required,nonblank"`
	Distance      *Number          `json:"distance" validate:"required,finite,gte=0"`
	Duration      *Number          `json:"duration" validate:"required,finite,gte=0"`
	Geometry      RawJSON          `json:"geometry" validate:"required"`
	Steps         RawJSON          `json:"steps" validate:"omitempty,jsonarray"`
	Origin        *NamedPointInput `json:"origin" validate:"required"`
	Destination   *NamedPointInput `json:"destination" validate:"required"`
}

func (in *RouteInput) Validate() error {
	return validateStruct(in).orNil()
}

// Route builds the record to persist for owner. Call Validate first.
func (in *RouteInput) Route(owner string, createdAt time.Time) *Route {
	steps := in.Steps
	if len(steps) == 0 {
		steps = RawJSON("[]")
	}
	return &Route{
		ID:            primitive.NewObjectID(),
		Owner:         owner,
		Name:          strings.TrimSpace(in.Name),
		StartLocation: strings.TrimSpace(in.StartLocation),
		EndLocation:   strings.TrimSpace(in.EndLocation),
		Distance:      float64(*in.Distance),
		Duration:      float64(*in.Duration),
		Geometry:      in.Geometry,
		Steps:         steps,
		Origin:        in.Origin.namedPoint(),
		Destination:   in.Destination.namedPoint(),
		CreatedAt:     createdAt,
	}
}
