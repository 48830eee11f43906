//go:build integration

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cyclesafe-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(90 * time.Second),
	}

	tc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	port, _ := tc.MappedPort(ctx, "27017/tcp")
	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fmt.Println("mongo.Connect:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}
	if err := client.Ping(ctx, nil); err != nil {
		fmt.Println("mongo ping:", err)
		_ = client.Disconnect(ctx)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	testDB = client.Database("cyclesafe_test")
	if err := EnsureIndexes(ctx, testDB); err != nil {
		fmt.Println("EnsureIndexes:", err)
		_ = client.Disconnect(ctx)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	_ = client.Disconnect(ctx)
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func truncate(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := testDB.Collection(name).DeleteMany(context.Background(), map[string]any{})
		require.NoError(t, err)
	}
}

func newIncident(caption string, reportedAt time.Time, duration time.Duration, lng, lat float64) *models.Incident {
	return &models.Incident{
		ID:         primitive.NewObjectID(),
		Caption:    caption,
		Location:   models.Point{Longitude: lng, Latitude: lat},
		Duration:   duration.Milliseconds(),
		ReportedAt: reportedAt,
	}
}

func TestIncidentStore_InsertFindDelete(t *testing.T) {
	truncate(t, IncidentsCollection)
	ctx := context.Background()
	s := NewIncidentStore(testDB, 5*time.Second)

	now := time.Now().UTC().Truncate(time.Millisecond)
	inc := newIncident("Pothole", now, time.Minute, -73.9, 40.7)
	require.NoError(t, s.Insert(ctx, inc))

	got, err := s.FindByID(ctx, inc.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, inc, got)

	require.NoError(t, s.Delete(ctx, inc.ID.Hex()))

	_, err = s.FindByID(ctx, inc.ID.Hex())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = s.Delete(ctx, inc.ID.Hex())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestIncidentStore_ListFiltersExpiredAndSortsNewestFirst(t *testing.T) {
	truncate(t, IncidentsCollection)
	ctx := context.Background()
	s := NewIncidentStore(testDB, 5*time.Second)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := newIncident("older", base, time.Hour, -73.9, 40.7)
	newer := newIncident("newer", base.Add(10*time.Minute), time.Hour, -73.9, 40.7)
	expired := newIncident("expired", base.Add(5*time.Minute), time.Minute, -73.9, 40.7)
	boundary := newIncident("boundary", base.Add(20*time.Minute), 10*time.Minute, -73.9, 40.7)

	for _, inc := range []*models.Incident{older, newer, expired, boundary} {
		require.NoError(t, s.Insert(ctx, inc))
	}

	asOf := base.Add(30 * time.Minute)
	got, err := s.List(ctx, models.IncidentQuery{AsOf: asOf})
	require.NoError(t, err)

	captions := make([]string, 0, len(got))
	for _, inc := range got {
		captions = append(captions, inc.Caption)
	}
	assert.Equal(t, []string{"boundary", "newer", "older"}, captions)

	got, err = s.List(ctx, models.IncidentQuery{AsOf: asOf.Add(time.Millisecond)})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.List(ctx, models.IncidentQuery{AsOf: asOf, Limit: 1, Skip: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "newer", got[0].Caption)
}

func TestIncidentStore_ListNear(t *testing.T) {
	truncate(t, IncidentsCollection)
	ctx := context.Background()
	s := NewIncidentStore(testDB, 5*time.Second)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Insert(ctx, newIncident("manhattan", now, time.Hour, -73.985, 40.758)))
	require.NoError(t, s.Insert(ctx, newIncident("boston", now, time.Hour, -71.058, 42.360)))

	got, err := s.List(ctx, models.IncidentQuery{
		AsOf: now,
		Near: &models.Area{Center: models.Point{Longitude: -73.98, Latitude: 40.75}, RadiusMeters: 5000},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "manhattan", got[0].Caption)
}

func TestRouteStore_OwnerScoping(t *testing.T) {
	truncate(t, RoutesCollection)
	ctx := context.Background()
	s := NewRouteStore(testDB, 5*time.Second)

	base := time.Now().UTC().Truncate(time.Millisecond)
	mk := func(owner, name string, at time.Time) *models.Route {
		return &models.Route{
			ID:        primitive.NewObjectID(),
			Owner:     owner,
			Name:      name,
			Geometry:  models.RawJSON(`{"type":"LineString","coordinates":[[1,2],[3.50,4]]}`),
			Steps:     models.RawJSON(`[{"a":1}]`),
			CreatedAt: at,
		}
	}

	first := mk("alice", "first", base)
	second := mk("alice", "second", base.Add(time.Second))
	bobs := mk("bob", "bobs", base)
	for _, r := range []*models.Route{first, second, bobs} {
		require.NoError(t, s.Insert(ctx, r))
	}

	list, err := s.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, "first", list[1].Name)

	got, err := s.FindOwned(ctx, "alice", first.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, string(first.Geometry), string(got.Geometry))
	assert.Equal(t, string(first.Steps), string(got.Steps))

	_, err = s.FindOwned(ctx, "bob", first.ID.Hex())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = s.DeleteOwned(ctx, "bob", first.ID.Hex())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	require.NoError(t, s.DeleteOwned(ctx, "alice", first.ID.Hex()))
	_, err = s.FindOwned(ctx, "alice", first.ID.Hex())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUserStore_UniqueEmail(t *testing.T) {
	truncate(t, UsersCollection)
	ctx := context.Background()
	s := NewUserStore(testDB, 5*time.Second)

	now := time.Now().UTC().Truncate(time.Millisecond)
	u := &models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com", Password: "x", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Insert(ctx, u))

	dup := *u
	dup.ID = primitive.NewObjectID()
	assert.True(t, errors.Is(s.Insert(ctx, &dup), models.ErrConflict))

	got, err := s.FindByEmail(ctx, " ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
}

func TestProfileStore_SaveReplaces(t *testing.T) {
	truncate(t, ProfilesCollection)
	ctx := context.Background()
	s := NewProfileStore(testDB, 5*time.Second)

	_, err := s.FindByOwner(ctx, "u1")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.Save(ctx, &models.Profile{Owner: "u1", Name: "A", Email: "a@x.io", Bio: "hi", UpdatedAt: now}))
	require.NoError(t, s.Save(ctx, &models.Profile{Owner: "u1", Name: "B", Email: "b@x.io", UpdatedAt: now}))

	got, err := s.FindByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Empty(t, got.Bio)
}
