package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/okian/insightify/internal/domain/model"
	"github.com/okian/insightify/pkg/logger"
	"github.com/okian/insightify/pkg/metrics"
)

// Connect opens a pooled client and verifies it with a ping.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("insightify"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %w", ErrConnect, err)
	}
	return client, nil
}

// MongoStore reads learner records from MongoDB.
type MongoStore struct {
	db              *mongo.Database
	activitiesName  string
	quizResultsName string
	quizzesName     string
	queryTimeout    time.Duration
	logger          logger.Logger
}

// NewMongoStore creates a store over db.
func NewMongoStore(db *mongo.Database, opts ...Option) *MongoStore {
	s := &MongoStore{
		db:              db,
		activitiesName:  DefaultActivitiesCollection,
		quizResultsName: DefaultQuizResultsCollection,
		quizzesName:     DefaultQuizzesCollection,
		queryTimeout:    defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("repository")
	}
	return s
}

// Activities implements Store.
func (s *MongoStore) Activities(ctx context.Context, userID primitive.ObjectID) ([]model.ActivityEvent, error) {
	filter := bson.M{"user": userFilter(userID)}
	projection := bson.M{"user": 1, "module": 1, "type": 1, "occurredAt": 1}

	docs, err := find[activityDoc](ctx, s, s.activitiesName, OpActivities, filter, projection)
	if err != nil {
		return nil, err
	}

	events := make([]model.ActivityEvent, 0, len(docs))
	for _, d := range docs {
		if e, ok := d.toModel(); ok {
			events = append(events, e)
		}
	}
	s.logger.Debug(ctx, "activities loaded",
		logger.String("user_id", userID.Hex()),
		logger.Int("read", len(docs)),
		logger.Int("lifecycle", len(events)))
	return events, nil
}

// QuizResults implements Store.
func (s *MongoStore) QuizResults(ctx context.Context, userID primitive.ObjectID) ([]model.QuizResult, error) {
	filter := bson.M{"userId": userFilter(userID)}
	projection := bson.M{"userId": 1, "moduleId": 1, "score": 1, "passed": 1, "duration": 1}

	docs, err := find[quizResultDoc](ctx, s, s.quizResultsName, OpQuizResults, filter, projection)
	if err != nil {
		return nil, err
	}

	results := make([]model.QuizResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, d.toModel())
	}
	return results, nil
}

// Quizzes implements Store.
func (s *MongoStore) Quizzes(ctx context.Context, moduleIDs []string) ([]model.QuizMetadata, error) {
	if len(moduleIDs) == 0 {
		return []model.QuizMetadata{}, nil
	}

	// Module ids may be stored either as ObjectIDs or as plain strings.
	in := make([]interface{}, 0, 2*len(moduleIDs))
	for _, id := range moduleIDs {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			in = append(in, oid)
		}
		in = append(in, id)
	}
	filter := bson.M{"moduleId": bson.M{"$in": in}}
	projection := bson.M{"moduleId": 1, "maximumDuration": 1}

	docs, err := find[quizDoc](ctx, s, s.quizzesName, OpQuizzes, filter, projection)
	if err != nil {
		return nil, err
	}

	quizzes := make([]model.QuizMetadata, 0, len(docs))
	for _, d := range docs {
		quizzes = append(quizzes, d.toModel())
	}
	return quizzes, nil
}

// Ping checks the primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping: %w", model.ErrUpstream, err)
	}
	return nil
}

// userFilter matches the id whether it was stored as an ObjectID or as hex text.
func userFilter(id primitive.ObjectID) bson.M {
	return bson.M{"$in": bson.A{id, id.Hex()}}
}

func find[T any](ctx context.Context, s *MongoStore, collection, op string, filter, projection bson.M) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	cursor, err := s.db.Collection(collection).Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		metrics.RecordDatastoreError(op)
		return nil, fmt.Errorf("%w: %w: %s: %w", model.ErrUpstream, ErrQuery, op, err)
	}
	defer func() { _ = cursor.Close(context.Background()) }()

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		metrics.RecordDatastoreError(op)
		return nil, fmt.Errorf("%w: %w: %s: %w", model.ErrUpstream, ErrDecode, op, err)
	}

	elapsed := time.Since(start)
	metrics.RecordDatastoreQuery(op, float64(elapsed.Microseconds())/1000, len(docs))
	return docs, nil
}
