package store

import (
	"context"
	"fmt"
	"time"

	"cyclesafe-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// earthRadiusMeters converts a radius to the radians $centerSphere expects.
const earthRadiusMeters = 6378100.0

type geoJSONPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type incidentDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Image      *string            `bson:"image,omitempty"`
	Caption    string             `bson:"caption"`
	Location   geoJSONPoint       `bson:"location"`
	Duration   int64              `bson:"duration"`
	ReportedAt time.Time          `bson:"reportedAt"`
}

func toIncidentDocument(inc *models.Incident) incidentDocument {
	return incidentDocument{
		ID:      inc.ID,
		Image:   inc.Image,
		Caption: inc.Caption,
		Location: geoJSONPoint{
			Type:        "Point",
			Coordinates: []float64{inc.Location.Longitude, inc.Location.Latitude},
		},
		Duration:   inc.Duration,
		ReportedAt: inc.ReportedAt,
	}
}

func (d incidentDocument) incident() *models.Incident {
	inc := &models.Incident{
		ID:         d.ID,
		Image:      d.Image,
		Caption:    d.Caption,
		Duration:   d.Duration,
		ReportedAt: d.ReportedAt.UTC(),
	}
	if len(d.Location.Coordinates) == 2 {
		inc.Location = models.Point{Longitude: d.Location.Coordinates[0], Latitude: d.Location.Coordinates[1]}
	}
	return inc
}

type IncidentStore struct {
	collection
}

func NewIncidentStore(db *mongo.Database, timeout time.Duration) *IncidentStore {
	return &IncidentStore{collection: newCollection(db, IncidentsCollection, timeout)}
}

func (s *IncidentStore) Insert(ctx context.Context, inc *models.Incident) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, toIncidentDocument(inc)); err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (s *IncidentStore) FindByID(ctx context.Context, id string) (*models.Incident, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc incidentDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.incident(), nil
}

// List returns incidents still live at q.AsOf, newest first.
func (s *IncidentStore) List(ctx context.Context, q models.IncidentQuery) ([]*models.Incident, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.coll.Find(ctx, incidentListFilter(q), incidentListOptions(q))
	if err != nil {
		return nil, fmt.Errorf("find incidents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []incidentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode incidents: %w", err)
	}

	incidents := make([]*models.Incident, 0, len(docs))
	for _, d := range docs {
		incidents = append(incidents, d.incident())
	}
	return incidents, nil
}

func (s *IncidentStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// incidentListFilter keeps documents whose age at q.AsOf, in milliseconds,
// does not exceed their duration.
func incidentListFilter(q models.IncidentQuery) bson.M {
	filter := bson.M{
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$subtract": bson.A{q.AsOf, "$reportedAt"}},
				"$duration",
			},
		},
	}

	if q.Near != nil {
		filter["location"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{q.Near.Center.Longitude, q.Near.Center.Latitude},
					q.Near.RadiusMeters / earthRadiusMeters,
				},
			},
		}
	}
	return filter
}

func incidentListOptions(q models.IncidentQuery) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "reportedAt", Value: -1}, {Key: "_id", Value: -1}})
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}
