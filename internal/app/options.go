package service

import (
	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/repository"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/analyzer"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/scoring"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend. Defaults to the in-memory
// store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithAnalyzer sets the transcript analyzer. Defaults to the simulated
// one.
func WithAnalyzer(a analyzer.TranscriptAnalyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.transcript = a
		}
	}
}

// WithAggregator sets a preconfigured score aggregator.
func WithAggregator(agg *scoring.Aggregator) Option {
	return func(s *Service) {
		if agg != nil {
			s.aggregator = agg
		}
	}
}

// WithWorkerCount sets the number of pipeline workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the call queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the call-ID deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxLeaderboardLimit caps leaderboard queries.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLeaderboardLimit = limit
		}
	}
}

// WithSkillGapThreshold sets the proficiency threshold below which a
// subskill counts as a gap.
func WithSkillGapThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 100 {
			s.skillGapThreshold = threshold
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
