// Package scheduler runs the bot's background maintenance on cron specs:
// sweeping expired verification entries, pruning old conversation history
// and logging pipeline counters.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"TokenSentinel/internal/authority"
	"TokenSentinel/internal/history"
	"TokenSentinel/internal/logger"
	"TokenSentinel/internal/pipeline"
)

type Scheduler struct {
	Cron *cron.Cron

	cache         *authority.Cache
	store         history.Store
	stats         *pipeline.Stats
	historyMaxAge time.Duration
	log           logger.Entry
}

func New(cache *authority.Cache, store history.Store, stats *pipeline.Stats, historyMaxAge time.Duration) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		cache:         cache,
		store:         store,
		stats:         stats,
		historyMaxAge: historyMaxAge,
		log:           logger.WithComponent("scheduler"),
	}
}

// RegisterAll wires the sweep and daily maintenance tasks.
func (s *Scheduler) RegisterAll(sweepSpec, dailySpec string) error {
	if _, err := s.Cron.AddFunc(sweepSpec, s.sweepCache); err != nil {
		return fmt.Errorf("register cache sweep: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailySpec, s.dailyMaintenance); err != nil {
		return fmt.Errorf("register daily maintenance: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) sweepCache() {
	if dropped := s.cache.Sweep(); dropped > 0 {
		s.log.WithField("dropped", dropped).Debug("swept expired verification entries")
	}
}

func (s *Scheduler) dailyMaintenance() {
	fields := logger.Fields{}
	for name, value := range s.stats.Snapshot() {
		fields[name] = value
	}
	s.log.WithFields(fields).Info("daily pipeline stats")

	if s.historyMaxAge <= 0 {
		return
	}
	pruned, err := s.store.PruneMessages(s.historyMaxAge)
	if err != nil {
		s.log.WithError(err).Error("history prune failed")
		return
	}
	if pruned > 0 {
		s.log.WithField("pruned", pruned).Info("old conversation history removed")
	}
}
