package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/insightify/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MongoDatabase, convey.ShouldEqual, "insightify")
			convey.So(cfg.ModelPath, convey.ShouldEqual, "models/learner_clusters.json")
			convey.So(cfg.QueryTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.ConnectTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.InferenceTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.BreakerTimeout(), convey.ShouldEqual, 30*time.Second)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }},
		{"unknown log level", func(c *config.Config) { c.LogLevel = "verbose" }},
		{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
		{"non-mongo uri", func(c *config.Config) { c.MongoURI = "postgres://localhost" }},
		{"zero query timeout", func(c *config.Config) { c.MongoQueryTimeoutMS = 0 }},
		{"negative rate limit", func(c *config.Config) { c.RateLimitPerMinute = -1 }},
		{"empty model path", func(c *config.Config) { c.ModelPath = "" }},
	}

	convey.Convey("Given configs with one invalid field", t, func() {
		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				cfg := config.New(context.Background())
				tc.mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					err := cfg.Validate()
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
