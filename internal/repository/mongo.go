package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/3lielnashar/Customers-map/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding location documents.
const CollectionName = "locations"

// mongoDocument mirrors a stored document. Optional fields stay untyped
// because older documents carry NaN or numbers where text is expected.
type mongoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        any                `bson:"name"`
	Description any                `bson:"Description"`
	Comment     any                `bson:"Comment"`
	Address     any                `bson:"Address"`
	Latitude    any                `bson:"lat"`
	Longitude   any                `bson:"lng"`
}

func (d mongoDocument) document() models.Document {
	return models.Document{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Comment:     d.Comment,
		Address:     d.Address,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
	}
}

func newMongoDocument(loc models.Location) mongoDocument {
	return mongoDocument{
		Name:        loc.Name,
		Description: loc.Description.Value(),
		Comment:     loc.Comment.Value(),
		Address:     loc.Address.Value(),
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
	}
}

// MongoRepository stores locations as documents in a MongoDB collection.
type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

// ConnectMongo dials uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("repository: failed to ping mongo: %w", err)
	}
	return NewMongoRepository(client, database), nil
}

// NewMongoRepository uses an already connected client.
func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	db := client.Database(database)
	return &MongoRepository{client: client, db: db, coll: db.Collection(CollectionName)}
}

// EnsureSchema creates the name index used by search and delete-by-name.
func (r *MongoRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}})
	if err != nil {
		return fmt.Errorf("repository: failed to create name index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func (r *MongoRepository) InsertOne(ctx context.Context, loc models.Location) (string, error) {
	res, err := r.coll.InsertOne(ctx, newMongoDocument(loc))
	if err != nil {
		return "", fmt.Errorf("repository: failed to insert location: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("repository: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoRepository) FindOne(ctx context.Context, id string) (*models.Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var raw mongoDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to find location: %w", err)
	}
	doc := raw.document()
	return &doc, nil
}

// FindMany returns documents in insertion order. A name filter is matched as a
// literal, case-insensitive substring.
func (r *MongoRepository) FindMany(ctx context.Context, filter models.Filter) ([]models.Document, error) {
	query := bson.M{}
	if filter.NameContains != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.NameContains), Options: "i"}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute find query: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []models.Document{}
	for cursor.Next(ctx) {
		var raw mongoDocument
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("repository: failed to decode location: %w", err)
		}
		docs = append(docs, raw.document())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cursor: %w", err)
	}
	return docs, nil
}

// UpdateOne applies the set fields of patch and returns the number of documents matched.
func (r *MongoRepository) UpdateOne(ctx context.Context, id string, patch models.Patch) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["Description"] = patch.Description.Value()
	}
	if patch.Comment != nil {
		set["Comment"] = patch.Comment.Value()
	}
	if patch.Address != nil {
		set["Address"] = patch.Address.Value()
	}
	if patch.Latitude != nil {
		set["lat"] = *patch.Latitude
	}
	if patch.Longitude != nil {
		set["lng"] = *patch.Longitude
	}
	if len(set) == 0 {
		return 0, nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("repository: failed to update location: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *MongoRepository) DeleteOne(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("repository: failed to delete location: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteByName removes the oldest document whose name equals name exactly.
func (r *MongoRepository) DeleteByName(ctx context.Context, name string) (int64, error) {
	var raw mongoDocument
	err := r.coll.FindOne(ctx, bson.M{"name": name}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("repository: failed to find location by name: %w", err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": raw.ID})
	if err != nil {
		return 0, fmt.Errorf("repository: failed to delete location by name: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("repository: failed to delete locations: %w", err)
	}
	return nil
}

func toInsertable(locs []models.Location) []any {
	docs := make([]any, len(locs))
	for i, loc := range locs {
		docs[i] = newMongoDocument(loc)
	}
	return docs
}

func (r *MongoRepository) InsertMany(ctx context.Context, locs []models.Location) error {
	if len(locs) == 0 {
		return nil
	}
	if _, err := r.coll.InsertMany(ctx, toInsertable(locs)); err != nil {
		return fmt.Errorf("repository: failed to insert locations: %w", err)
	}
	return nil
}

// ReplaceAll loads locs into a staging collection and renames it over the live
// one, so a failure part way leaves the existing documents untouched.
func (r *MongoRepository) ReplaceAll(ctx context.Context, locs []models.Location) error {
	if len(locs) == 0 {
		return r.DeleteAll(ctx)
	}

	stagingName := CollectionName + "_import_" + uuid.NewString()
	staging := r.db.Collection(stagingName)

	if _, err := staging.InsertMany(ctx, toInsertable(locs)); err != nil {
		_ = staging.Drop(context.WithoutCancel(ctx))
		return fmt.Errorf("repository: failed to stage locations: %w", err)
	}

	rename := bson.D{
		{Key: "renameCollection", Value: r.db.Name() + "." + stagingName},
		{Key: "to", Value: r.db.Name() + "." + CollectionName},
		{Key: "dropTarget", Value: true},
	}
	if err := r.client.Database("admin").RunCommand(ctx, rename).Err(); err != nil {
		_ = staging.Drop(context.WithoutCancel(ctx))
		return fmt.Errorf("repository: failed to swap in staged locations: %w", err)
	}

	// The rename drops the target's indexes along with it.
	return r.EnsureSchema(ctx)
}
