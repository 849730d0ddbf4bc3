package seed

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// Writer persists seeded documents.
type Writer interface {
	// Insert writes docs and returns how many were new. Documents that
	// already exist are skipped.
	Insert(ctx context.Context, collection string, docs []any) (int, error)

	// Purge deletes every document of batch.
	Purge(ctx context.Context, collection, batch string) (int64, error)
}

// MongoWriter writes to a MongoDB database.
type MongoWriter struct {
	db *mongo.Database
}

// NewMongoWriter creates a new MongoWriter.
func NewMongoWriter(db *mongo.Database) *MongoWriter {
	return &MongoWriter{db: db}
}

// Insert implements Writer with an unordered bulk insert.
func (w *MongoWriter) Insert(ctx context.Context, collection string, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := w.db.Collection(collection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(res.InsertedIDs), nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return 0, fmt.Errorf("%w: %s: %w", ErrWrite, collection, err)
	}
	inserted := len(docs) - len(bwe.WriteErrors)
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return inserted, fmt.Errorf("%w: %s: %w", ErrWrite, collection, err)
		}
	}
	return inserted, nil
}

// Purge implements Writer.
func (w *MongoWriter) Purge(ctx context.Context, collection, batch string) (int64, error) {
	res, err := w.db.Collection(collection).DeleteMany(ctx, bson.M{BatchField: batch})
	if err != nil {
		return 0, fmt.Errorf("%w: purge %s: %w", ErrWrite, collection, err)
	}
	return res.DeletedCount, nil
}
