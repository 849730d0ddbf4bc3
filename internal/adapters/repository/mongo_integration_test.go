//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/insightify/internal/adapters/repository"
	"github.com/okian/insightify/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func startMongo(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestMongoStoreIntegration(t *testing.T) {
	ctx := context.Background()
	uri := startMongo(ctx, t)

	client, err := repository.Connect(ctx, uri, 30*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("insightify_test")
	user := primitive.NewObjectID()
	module := primitive.NewObjectID()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	_, err = db.Collection("activities").InsertMany(ctx, []interface{}{
		bson.M{"user": user, "module": module, "type": "module_start", "occurredAt": start},
		bson.M{"user": user, "module": module, "type": "module_complete", "occurredAt": start.Add(30 * time.Minute)},
		bson.M{"user": user, "module": module, "type": "video_play", "occurredAt": start},
		bson.M{"user": user.Hex(), "module": module.Hex(), "type": "module_start", "occurredAt": "2024-03-04T08:00:00Z"},
	})
	if err != nil {
		t.Fatalf("seed activities: %v", err)
	}
	_, err = db.Collection("quizresults").InsertOne(ctx, bson.M{
		"userId": user, "moduleId": module, "score": 80, "passed": true, "duration": 600,
	})
	if err != nil {
		t.Fatalf("seed results: %v", err)
	}
	_, err = db.Collection("quizzes").InsertOne(ctx, bson.M{"moduleId": module, "maximumDuration": 1200})
	if err != nil {
		t.Fatalf("seed quizzes: %v", err)
	}

	store := repository.NewMongoStore(db, repository.WithQueryTimeout(5*time.Second))

	Convey("Given a seeded MongoDB", t, func() {
		Convey("Activities keep lifecycle events for both id encodings", func() {
			acts, err := store.Activities(ctx, user)
			So(err, ShouldBeNil)
			So(len(acts), ShouldEqual, 3)
			for _, a := range acts {
				So(a.ModuleID, ShouldEqual, module.Hex())
				So(a.Status, ShouldBeIn, model.StatusStarted, model.StatusCompleted)
			}
		})

		Convey("Quiz results and metadata join on module id", func() {
			res, err := store.QuizResults(ctx, user)
			So(err, ShouldBeNil)
			So(len(res), ShouldEqual, 1)
			So(*res[0].Score, ShouldEqual, 80.0)

			qz, err := store.Quizzes(ctx, []string{res[0].ModuleID})
			So(err, ShouldBeNil)
			So(len(qz), ShouldEqual, 1)
			So(*qz[0].MaximumDuration, ShouldEqual, 1200.0)
		})

		Convey("Unknown learners read as empty", func() {
			acts, err := store.Activities(ctx, primitive.NewObjectID())
			So(err, ShouldBeNil)
			So(acts, ShouldBeEmpty)
		})

		Convey("Ping succeeds", func() {
			So(store.Ping(ctx), ShouldBeNil)
		})
	})
}
