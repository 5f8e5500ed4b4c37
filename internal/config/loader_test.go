package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/oakmontrealty/voicrm-coaching/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no configuration file or environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the defaults apply", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.QueueSize, ShouldEqual, 10_000)
			So(cfg.DedupeSize, ShouldEqual, 100_000)
			So(cfg.MaxLeaderboardLimit, ShouldEqual, 100)
			So(cfg.StoreDriver, ShouldEqual, "memory")
			So(cfg.SkillGapThreshold, ShouldEqual, 60)
			So(cfg.RequiredIdentityTokens, ShouldResemble, []string{"oakmont", "realty"})
			So(cfg.ProhibitedPhrases, ShouldContain, "guarantee")
			So(cfg.LongCallThresholdChars, ShouldEqual, 1000)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VOICRM_ADDR", ":8088")
	t.Setenv("VOICRM_QUEUE_SIZE", "500")
	t.Setenv("VOICRM_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the overridden keys win and the rest stay default", func() {
			So(cfg.Addr, ShouldEqual, ":8088")
			So(cfg.QueueSize, ShouldEqual, 500)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.DedupeSize, ShouldEqual, 100_000)
		})
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voicrm.yaml")
	yaml := []byte("addr: \":7070\"\nqueue_size: 250\nstore_driver: memory\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOICRM_CONFIG", path)

	Convey("Given a YAML configuration file", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then file values override defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.QueueSize, ShouldEqual, 250)
		})
	})

	Convey("Given a file and an environment override for the same key", t, func() {
		t.Setenv("VOICRM_ADDR", ":6060")

		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the environment wins", func() {
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.QueueSize, ShouldEqual, 250)
		})
	})

	Convey("Given a missing configuration file", t, func() {
		t.Setenv("VOICRM_CONFIG", filepath.Join(dir, "absent.yaml"))

		_, err := config.Load(context.Background())
		So(err, ShouldWrap, config.ErrLoadConfig)
	})
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"empty address", "VOICRM_ADDR", ""},
		{"non-positive queue", "VOICRM_QUEUE_SIZE", "0"},
		{"non-positive worker count", "VOICRM_WORKER_COUNT", "-1"},
		{"unknown store driver", "VOICRM_STORE_DRIVER", "cassandra"},
		{"postgres without a URL", "VOICRM_STORE_DRIVER", "postgres"},
		{"gap threshold over 100", "VOICRM_SKILL_GAP_THRESHOLD", "150"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			Convey("Given "+tc.name+" in the environment", t, func() {
				_, err := config.Load(context.Background())
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})
	}
}
