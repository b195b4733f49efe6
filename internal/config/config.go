// Package config defines service configuration and its loading.
package config

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/okian/birdie/internal/domain/bracket"
	"github.com/okian/birdie/internal/domain/match"
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/tournament"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Format is four_groups or two_groups.
	Format string `koanf:"format"`
	// Consolation enables the runners-up draw (four_groups only).
	Consolation bool `koanf:"consolation"`

	GroupSetThreshold    int `koanf:"group_set_threshold"`
	KnockoutSetThreshold int `koanf:"knockout_set_threshold"`

	// EditQueueSize bounds the number of pending edits.
	EditQueueSize int `koanf:"edit_queue_size"`
	// MemoSize bounds the derived view cache; 0 disables eviction.
	MemoSize int `koanf:"memo_size"`

	// Groups is the initial roster: group key to ordered participants.
	Groups map[string][]string `koanf:"groups"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		Format:               string(bracket.FourGroups),
		GroupSetThreshold:    match.GroupSetThreshold,
		KnockoutSetThreshold: match.KnockoutSetThreshold,
		EditQueueSize:        1024,
		MemoSize:             64,
		Groups: map[string][]string{
			"A": {}, "B": {}, "C": {}, "D": {},
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !bracket.Format(c.Format).Valid():
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	case c.GroupSetThreshold <= 0 || c.KnockoutSetThreshold <= 0:
		return fmt.Errorf("%w: set thresholds must be positive", ErrInvalidConfig)
	case c.EditQueueSize <= 0:
		return fmt.Errorf("%w: edit_queue_size must be positive", ErrInvalidConfig)
	case c.MemoSize < 0:
		return fmt.Errorf("%w: memo_size must not be negative", ErrInvalidConfig)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	for key, names := range c.Groups {
		seen := make(map[string]struct{}, len(names))
		for _, n := range names {
			if n == "" {
				return fmt.Errorf("%w: group %s has an empty participant", ErrInvalidConfig, key)
			}
			if _, dup := seen[n]; dup {
				return fmt.Errorf("%w: group %s lists %q twice", ErrInvalidConfig, key, n)
			}
			seen[n] = struct{}{}
		}
	}
	return nil
}

// Settings returns the derivation settings.
func (c *Config) Settings() tournament.Settings {
	return tournament.Settings{
		Format:            bracket.Format(c.Format),
		Consolation:       c.Consolation,
		GroupThreshold:    c.GroupSetThreshold,
		KnockoutThreshold: c.KnockoutSetThreshold,
	}
}

// Rosters returns the configured groups ordered by key. The order decides
// which groups seed the bracket.
func (c *Config) Rosters() []model.Roster {
	keys := make([]string, 0, len(c.Groups))
	for k := range c.Groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.Roster, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.Roster{Key: k, Participants: slices.Clone(c.Groups[k])})
	}
	return out
}
