package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/birdie/internal/config"
	"github.com/okian/birdie/internal/domain/bracket"
	. "github.com/smartystreets/goconvey/convey"
)

var envVars = []string{
	"BIRDIE_CONFIG", "BIRDIE_ENV_FILE", "BIRDIE_ADDR", "BIRDIE_LOG_LEVEL", "BIRDIE_LOG_FORMAT",
	"BIRDIE_FORMAT", "BIRDIE_CONSOLATION", "BIRDIE_GROUP_SET_THRESHOLD",
	"BIRDIE_KNOCKOUT_SET_THRESHOLD", "BIRDIE_EDIT_QUEUE_SIZE", "BIRDIE_MEMO_SIZE",
}

func clearConfigEnvVars() {
	for _, v := range envVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	return createTempFile("birdie-*.yaml", content)
}

func createTempFile(pattern, content string) string {
	f, err := os.CreateTemp("", pattern)
	So(err, ShouldBeNil)
	_, err = f.WriteString(content)
	So(err, ShouldBeNil)
	So(f.Close(), ShouldBeNil)
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.Format, ShouldEqual, "four_groups")
				So(cfg.GroupSetThreshold, ShouldEqual, 15)
				So(cfg.KnockoutSetThreshold, ShouldEqual, 21)
				So(cfg.EditQueueSize, ShouldEqual, 1024)
				So(len(cfg.Rosters()), ShouldEqual, 4)
			})
		})

		Convey("When loading from a YAML file", func() {
			path := createTempConfigFile(`
addr: ":9090"
format: two_groups
consolation: true
log_format: json
groups:
  B: ["Sơn & H.Anh", "Chính & Khanh"]
  A: ["Hoài & Nga", "Nam & Hoàn"]
`)
			defer func() { _ = os.Remove(path) }()
			_ = os.Setenv("BIRDIE_CONFIG", path)

			cfg, err := config.Load(ctx)

			Convey("Then file values override defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.LogFormat, ShouldEqual, "json")
				s := cfg.Settings()
				So(s.Format, ShouldEqual, bracket.TwoGroups)
				So(s.Consolation, ShouldBeTrue)
			})

			Convey("And rosters come out ordered by key", func() {
				r := cfg.Rosters()
				So(r[0].Key, ShouldEqual, "A")
				So(r[0].Participants, ShouldResemble, []string{"Hoài & Nga", "Nam & Hoàn"})
				So(r[1].Key, ShouldEqual, "B")
			})

			Convey("And env vars override the file", func() {
				_ = os.Setenv("BIRDIE_ADDR", ":7000")
				_ = os.Setenv("BIRDIE_KNOCKOUT_SET_THRESHOLD", "11")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7000")
				So(cfg.KnockoutSetThreshold, ShouldEqual, 11)
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("BIRDIE_CONFIG", "/non/existent/birdie.yaml")
			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})

		Convey("When an env file is given", func() {
			path := createTempFile("birdie-*.env", "BIRDIE_ADDR=:6000\nBIRDIE_MEMO_SIZE=5\n")
			defer os.Remove(path)
			_ = os.Setenv("BIRDIE_ENV_FILE", path)
			_ = os.Setenv("BIRDIE_MEMO_SIZE", "9")

			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6000")

			Convey("Then process variables win over the file", func() {
				So(cfg.MemoSize, ShouldEqual, 9)
			})
		})

		Convey("When the env file does not exist", func() {
			_ = os.Setenv("BIRDIE_ENV_FILE", "/non/existent/birdie.env")
			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})

		Convey("When values are invalid", func() {
			cases := map[string]string{
				"BIRDIE_FORMAT":              "swiss",
				"BIRDIE_GROUP_SET_THRESHOLD": "0",
				"BIRDIE_EDIT_QUEUE_SIZE":     "-1",
				"BIRDIE_LOG_FORMAT":          "xml",
			}
			for k, v := range cases {
				_ = os.Setenv(k, v)
				_, err := config.Load(ctx)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
				_ = os.Unsetenv(k)
			}
		})

		Convey("When a group lists a participant twice", func() {
			cfg := config.New()
			cfg.Groups["A"] = []string{"Nam", "Nam"}
			So(errors.Is(cfg.Validate(ctx), config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
