package measurement

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoRepository reads and writes the measurements collection used by the
// sensor firmware and the development seed script.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoMeasurement mirrors the stored document shape.
type mongoMeasurement struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	SensorID    *string       `bson:"sensorId,omitempty"`
	Temperature float64       `bson:"temperature"`
	Humidity    *float64      `bson:"humidity,omitempty"`
	Timestamp   *time.Time    `bson:"timestamp,omitempty"`
	CreatedAt   *time.Time    `bson:"createdAt,omitempty"`
}

// NewMongoRepository creates a repository over database/collection.
func NewMongoRepository(client *mongo.Client, database, collection string) *MongoRepository {
	return &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// Latest returns the document with the greatest timestamp.
func (r *MongoRepository) Latest(ctx context.Context) (*Measurement, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: -1},
	})

	var doc mongoMeasurement
	err := r.collection.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoMeasurement
		}
		return nil, err
	}

	m := &Measurement{
		ID:          doc.ID.Hex(),
		SensorID:    doc.SensorID,
		Temperature: doc.Temperature,
		Humidity:    doc.Humidity,
		Timestamp:   doc.Timestamp,
	}
	if doc.CreatedAt != nil {
		m.CreatedAt = *doc.CreatedAt
	}
	return m, nil
}

// Save inserts a new document. Mongo assigns the _id; m.ID is ignored.
func (r *MongoRepository) Save(ctx context.Context, m *Measurement) error {
	createdAt := m.CreatedAt
	doc := mongoMeasurement{
		SensorID:    m.SensorID,
		Temperature: m.Temperature,
		Humidity:    m.Humidity,
		Timestamp:   m.Timestamp,
		CreatedAt:   &createdAt,
	}

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// Ping checks connectivity with the primary.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}
