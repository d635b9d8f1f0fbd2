package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/ievis/pkg/cache"
	"github.com/matzehuels/ievis/pkg/document"
	apperr "github.com/matzehuels/ievis/pkg/errors"
)

// MongoConfig locates the structure collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Defaults for [MongoConfig].
const (
	DefaultMongoDatabase   = "pbshm"
	DefaultMongoCollection = "structures"
)

// MongoStore keeps documents in a MongoDB collection, one BSON document
// per structure with the default ObjectID as id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects and pings the server, retrying transient failures.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// summaryRow is the projection List decodes.
type summaryRow struct {
	ID            primitive.ObjectID `bson:"_id"`
	Name          string             `bson:"name"`
	Population    string             `bson:"population"`
	Timestamp     int64              `bson:"timestamp"`
	Elements      int                `bson:"elements"`
	Relationships int                `bson:"relationships"`
}

func sizeOf(field string) bson.M {
	return bson.M{"$size": bson.M{"$ifNull": bson.A{field, bson.A{}}}}
}

func (s *MongoStore) List(ctx context.Context) ([]ModelSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"models": bson.M{"$exists": true}}}},
		{{Key: "$project", Value: bson.M{
			"name":          1,
			"population":    1,
			"timestamp":     1,
			"elements":      sizeOf("$models.irreducibleElement.elements"),
			"relationships": sizeOf("$models.irreducibleElement.relationships"),
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}, {Key: "name", Value: 1}}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer cur.Close(ctx)

	var out []ModelSummary
	for cur.Next(ctx) {
		var row summaryRow
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode model summary: %w", err)
		}
		out = append(out, ModelSummary{
			ID:            row.ID.Hex(),
			Name:          row.Name,
			Population:    row.Population,
			Timestamp:     row.Timestamp,
			Date:          FormatDate(row.Timestamp),
			Elements:      row.Elements,
			Relationships: row.Relationships,
		})
	}
	return out, cur.Err()
}

func (s *MongoStore) Get(ctx context.Context, id string) (*document.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}
	var doc document.Document
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get model %s: %w", id, err)
	}
	return &doc, nil
}

func (s *MongoStore) Put(ctx context.Context, id string, doc *document.Document) (string, error) {
	if id == "" {
		res, err := s.coll.InsertOne(ctx, doc)
		if err != nil {
			return "", fmt.Errorf("insert model: %w", err)
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			return oid.Hex(), nil
		}
		return fmt.Sprint(res.InsertedID), nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInvalidInput, err, "model id %q", id)
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("replace model %s: %w", id, err)
	}
	return id, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return notFound(id)
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete model %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func notFound(id string) error {
	return apperr.New(apperr.ErrCodeModelNotFound, "model %q not found", id)
}

var _ Store = (*MongoStore)(nil)
