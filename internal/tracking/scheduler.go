package tracking

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"rpd/internal/providers"
	"rpd/internal/stats"
	"rpd/internal/structures"
	"rpd/internal/tracking/interfaces"
)

// SessionSweeper is the slice of the tracking service the scheduler drives.
type SessionSweeper interface {
	CloseIdle(ttl time.Duration) int
	CloseAll() int
	ActiveSessions() int
}

// Scheduler periodically closes idle sessions (a client that navigated away
// without closing its session must not keep a tracker alive forever) and
// refreshes the tracked-users gauge.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	sweeper SessionSweeper
	store   stats.StoreInterface
	metrics providers.MetricsProviderInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	sweepInterval := s.config.Tracker.SweepInterval
	if sweepInterval < time.Second {
		sweepInterval = 30 * time.Second
	}
	sessionTTL := s.config.Tracker.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Minute
	}

	s.cron.AddFunc(gron.Every(sweepInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if closed := s.sweeper.CloseIdle(sessionTTL); closed > 0 {
			s.logger.Infof(providers.TypeApp, "Closed %d idle reading sessions", closed)
		}
		s.metrics.SetTrackedUsers(s.store.UserCount())
		s.metrics.SetActiveSessions(s.sweeper.ActiveSessions())
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Flush closes every active session, which fires each tracker's final save.
// Called once during shutdown, after the HTTP server has drained.
func (s *Scheduler) Flush() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	closed := s.sweeper.CloseAll()
	s.logger.Infof(providers.TypeApp, "Flushed %d reading sessions", closed)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, sweeper SessionSweeper, store stats.StoreInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		sweeper: sweeper,
		store:   store,
		metrics: metrics,
	}
}
