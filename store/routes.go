package store

import (
	"context"
	"fmt"
	"time"

	"cyclesafe-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RouteStore scopes every read and delete by owner inside the query itself, so
// another user's route is indistinguishable from a missing one.
type RouteStore struct {
	collection
}

func NewRouteStore(db *mongo.Database, timeout time.Duration) *RouteStore {
	return &RouteStore{collection: newCollection(db, RoutesCollection, timeout)}
}

func (s *RouteStore) Insert(ctx context.Context, route *models.Route) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, route); err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

func (s *RouteStore) FindOwned(ctx context.Context, owner, id string) (*models.Route, error) {
	filter, err := ownedFilter(owner, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var route models.Route
	if err := s.coll.FindOne(ctx, filter).Decode(&route); err != nil {
		return nil, notFound(err)
	}
	route.CreatedAt = route.CreatedAt.UTC()
	return &route, nil
}

func (s *RouteStore) ListByOwner(ctx context.Context, owner string) ([]*models.Route, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("find routes: %w", err)
	}
	defer cursor.Close(ctx)

	routes := make([]*models.Route, 0)
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	for _, r := range routes {
		r.CreatedAt = r.CreatedAt.UTC()
	}
	return routes, nil
}

func (s *RouteStore) DeleteOwned(ctx context.Context, owner, id string) error {
	filter, err := ownedFilter(owner, id)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func ownedFilter(owner, id string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "owner": owner}, nil
}
