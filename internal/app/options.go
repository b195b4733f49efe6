package service

import (
	"github.com/okian/birdie/internal/domain/model"
	"github.com/okian/birdie/internal/domain/tournament"
	"github.com/okian/birdie/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSettings sets the tournament format and thresholds.
func WithSettings(s tournament.Settings) Option {
	return func(svc *Service) {
		svc.settings = s
	}
}

// WithRosters sets the initial groups. Ignored when WithSnapshot is used.
func WithRosters(rosters ...model.Roster) Option {
	return func(svc *Service) {
		svc.rosters = rosters
	}
}

// WithSnapshot starts the service from an existing snapshot.
func WithSnapshot(snap model.Snapshot) Option {
	return func(svc *Service) {
		svc.initial = &snap
	}
}

// WithQueueSize sets the maximum number of pending edits.
func WithQueueSize(size int) Option {
	return func(svc *Service) {
		if size > 0 {
			svc.queueSize = size
		}
	}
}

// WithMemoSize bounds the derived view cache. 0 disables eviction.
func WithMemoSize(size int) Option {
	return func(svc *Service) {
		if size >= 0 {
			svc.memoSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}
