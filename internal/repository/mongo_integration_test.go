//go:build integration

package repository

import (
	"context"
	"math"
	"testing"

	"github.com/3lielnashar/Customers-map/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
)

func newTestMongo(t *testing.T) *MongoRepository {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	ctx := context.Background()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		mongoC.Terminate(ctx)
	})

	host, err := mongoC.Host(ctx)
	require.NoError(t, err)
	port, err := mongoC.MappedPort(ctx, "27017")
	require.NoError(t, err)

	repo, err := ConnectMongo(ctx, "mongodb://"+host+":"+port.Port(), "location_database_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close(ctx)
	})

	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestMongoRepository_CRUD(t *testing.T) {
	repo := newTestMongo(t)
	ctx := context.Background()

	id, err := repo.InsertOne(ctx, models.Location{Name: "Paris Office", Address: models.NewText("Paris, France"), Latitude: 48.8566, Longitude: 2.3522})
	require.NoError(t, err)

	doc, err := repo.FindOne(ctx, id)
	require.NoError(t, err)
	loc := models.FromDocument(*doc)
	assert.Equal(t, "Paris Office", loc.Name)
	assert.Equal(t, models.NewText("Paris, France"), loc.Address)
	assert.False(t, loc.Comment.Valid)

	name := "Paris Office"
	matched, err := repo.UpdateOne(ctx, id, models.Patch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched, "unchanged values still match")

	deleted, err := repo.DeleteOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindOne(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindOne(ctx, "xyz")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMongoRepository_LegacyDocuments(t *testing.T) {
	repo := newTestMongo(t)
	ctx := context.Background()

	_, err := repo.coll.InsertOne(ctx, bson.M{
		"name":        "Legacy",
		"Description": math.NaN(),
		"Comment":     12.0,
		"lat":         "31.2",
		"lng":         29.9,
	})
	require.NoError(t, err)

	docs, err := repo.FindMany(ctx, models.Filter{})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	loc := models.FromDocument(docs[0])
	assert.False(t, loc.Description.Valid)
	assert.Equal(t, models.NewText("12"), loc.Comment)
	assert.False(t, loc.Address.Valid)
	assert.Equal(t, 31.2, loc.Latitude)
}

func TestMongoRepository_Search(t *testing.T) {
	repo := newTestMongo(t)
	ctx := context.Background()
	require.NoError(t, repo.InsertMany(ctx, []models.Location{
		{Name: "Paris Office", Latitude: 1, Longitude: 1},
		{Name: "Comparable Inc", Latitude: 2, Longitude: 2},
		{Name: "A.B Depot", Latitude: 3, Longitude: 3},
	}))

	docs, err := repo.FindMany(ctx, models.Filter{NameContains: "par"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris Office", "Comparable Inc"}, names(docs))

	docs, err = repo.FindMany(ctx, models.Filter{NameContains: "."})
	require.NoError(t, err)
	assert.Equal(t, []string{"A.B Depot"}, names(docs))
}

func TestMongoRepository_ReplaceAll(t *testing.T) {
	repo := newTestMongo(t)
	ctx := context.Background()
	require.NoError(t, repo.InsertMany(ctx, []models.Location{
		{Name: "Old", Latitude: 1, Longitude: 1},
		{Name: "Old", Latitude: 2, Longitude: 2},
	}))

	require.NoError(t, repo.ReplaceAll(ctx, []models.Location{{Name: "New", Latitude: 3, Longitude: 3}}))
	docs, err := repo.FindMany(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, names(docs))

	deleted, err := repo.DeleteByName(ctx, "New")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, repo.ReplaceAll(ctx, nil))
	docs, err = repo.FindMany(ctx, models.Filter{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}
