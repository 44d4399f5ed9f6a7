// Package scheduler drives the periodic work: presence polling, document
// autosave, and the daily maintenance sweep.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"warden/internal/presence"
	"warden/internal/providers"
	"warden/internal/store"
	"warden/internal/structures"
)

type Interface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}

const maintenanceInterval = 24 * time.Hour

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	store   *store.Store
	tracker *presence.Tracker
	metrics providers.MetricsProviderInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, st *store.Store, tracker *presence.Tracker, metrics providers.MetricsProviderInterface) Interface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		store:   st,
		tracker: tracker,
		metrics: metrics,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Presence.PollInterval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Presence.PollInterval)
		defer cancel()
		s.tracker.Tick(ctx)
	})

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.save(); err != nil {
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted document to %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(maintenanceInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.logger.Infof(providers.TypeApp, "Running daily maintenance...")
		s.tracker.Maintenance()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.store.Load()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting document to file...")
	return s.save()
}

func (s *Scheduler) save() error {
	start := time.Now()
	err := s.store.Save()
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
	}
	return err
}
