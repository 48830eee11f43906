package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a float that also accepts numeric strings ("40.7128"), as sent by
// HTML forms. Values that cannot be parsed decode to NaN so validation can
// name the field instead of failing the whole body.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Number(math.NaN())
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = Number(math.NaN())
		return nil
	}
	*n = Number(f)
	return nil
}

// Point is a WGS84 position.
type Point struct {
	Longitude float64 `json:"longitude" bson:"longitude"`
	Latitude  float64 `json:"latitude" bson:"latitude"`
}

// PointInput is the request shape of a Point.
type PointInput struct {
	Longitude *Number `json:"longitude" validate:"required,longitude"`
	Latitude  *Number `json:"latitude" validate:"required,latitude"`
}

func (p PointInput) point() Point {
	return Point{Longitude: float64(*p.Longitude), Latitude: float64(*p.Latitude)}
}

// NamedPoint is a geocoded place, such as a route origin.
type NamedPoint struct {
	PlaceName string `json:"placeName" bson:"placeName"`
	Point     Point  `json:"point" bson:"point"`
}

type NamedPointInput struct {
	PlaceName string      `json:"placeName" validate:"required,nonblank"`
	Point     *PointInput `json:"point" validate:"required"`
}

func (p NamedPointInput) namedPoint() NamedPoint {
	return NamedPoint{PlaceName: strings.TrimSpace(p.PlaceName), Point: p.Point.point()}
}
