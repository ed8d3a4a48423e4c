package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecord struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	Revision  int64     `bson:"revision"`
	Origin    string    `bson:"origin"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoSubstrate stores one document per key
type MongoSubstrate struct {
	collection *mongo.Collection
}

// NewMongoSubstrate uses the kv_records collection of db
func NewMongoSubstrate(db *mongo.Database) *MongoSubstrate {
	return &MongoSubstrate{collection: db.Collection("kv_records")}
}

func (m *MongoSubstrate) Get(ctx context.Context, key string) ([]byte, error) {
	var rec mongoRecord
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (m *MongoSubstrate) Set(ctx context.Context, key string, value []byte, origin string) error {
	update := bson.M{
		"$set": bson.M{"value": string(value), "origin": origin, "updated_at": time.Now()},
		"$inc": bson.M{"revision": 1},
	}
	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoSubstrate) Revisions(ctx context.Context) (map[string]Revision, error) {
	opts := options.Find().SetProjection(bson.M{"value": 0})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rows []mongoRecord
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]Revision, len(rows))
	for _, r := range rows {
		out[r.Key] = Revision{Number: r.Revision, Origin: r.Origin}
	}
	return out, nil
}
