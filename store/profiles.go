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

type ProfileStore struct {
	collection
}

func NewProfileStore(db *mongo.Database, timeout time.Duration) *ProfileStore {
	return &ProfileStore{collection: newCollection(db, ProfilesCollection, timeout)}
}

func (s *ProfileStore) FindByOwner(ctx context.Context, owner string) (*models.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var profile models.Profile
	if err := s.coll.FindOne(ctx, bson.M{"_id": owner}).Decode(&profile); err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// Save replaces the owner's profile, creating it on first save.
func (s *ProfileStore) Save(ctx context.Context, profile *models.Profile) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": profile.Owner}, profile, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
