package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/stats"
	"rpd/internal/structures"
	"rpd/internal/tracking"
)

var ErrSessionNotFound = errors.New("session not found")

type TrackingServiceInterface interface {
	StartSession(session tracking.Session) (string, models.ReadingTrackerState)
	PageEvent(id string, page int) error
	InteractionEvent(id string) error
	SessionState(id string) (models.ReadingTrackerState, error)
	CloseSession(id string) error
	CloseIdle(ttl time.Duration) int
	CloseAll() int
	ActiveSessions() int
	GetProgress(email string) (*models.UserReadingStats, bool)
	IsBookRead(email string, bookID int) bool
	Leaderboard(ctx context.Context, window stats.Window, viewerEmail string) *stats.Ranking
}

// TrackingService is the registry of active reading sessions and the facade
// the controllers talk to.
type TrackingService struct {
	mu         sync.RWMutex
	sessions   map[string]*tracking.SessionTracker
	conf       *structures.Config
	store      stats.StoreInterface
	aggregator *stats.Aggregator
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewTrackingService(conf *structures.Config, store stats.StoreInterface, aggregator *stats.Aggregator, logger providers.Logger, metrics providers.MetricsProviderInterface) TrackingServiceInterface {
	return &TrackingService{
		sessions:   make(map[string]*tracking.SessionTracker),
		conf:       conf,
		store:      store,
		aggregator: aggregator,
		logger:     logger,
		metrics:    metrics,
	}
}

// StartSession opens a tracker for one (user, book) reading session and
// starts its timers. The returned state reflects whether the book is already
// marked as read, so clients can badge it on mount.
func (ts *TrackingService) StartSession(session tracking.Session) (string, models.ReadingTrackerState) {
	tracker := tracking.NewSessionTracker(ts.conf, ts.store, ts.logger, ts.metrics, session)

	id := uuid.NewString()
	ts.mu.Lock()
	ts.sessions[id] = tracker
	ts.mu.Unlock()

	tracker.Start()
	ts.logger.Infof(providers.TypeApp, "Session %s opened for user %q, book %d", id, session.UserEmail, session.BookID)
	return id, tracker.State()
}

func (ts *TrackingService) tracker(id string) (*tracking.SessionTracker, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	tracker, ok := ts.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return tracker, nil
}

func (ts *TrackingService) PageEvent(id string, page int) error {
	tracker, err := ts.tracker(id)
	if err != nil {
		return err
	}
	tracker.SetPage(page)
	return nil
}

func (ts *TrackingService) InteractionEvent(id string) error {
	tracker, err := ts.tracker(id)
	if err != nil {
		return err
	}
	tracker.Interaction()
	return nil
}

func (ts *TrackingService) SessionState(id string) (models.ReadingTrackerState, error) {
	tracker, err := ts.tracker(id)
	if err != nil {
		return models.ReadingTrackerState{}, err
	}
	return tracker.State(), nil
}

func (ts *TrackingService) CloseSession(id string) error {
	ts.mu.Lock()
	tracker, ok := ts.sessions[id]
	if ok {
		delete(ts.sessions, id)
	}
	ts.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	tracker.Close()
	ts.logger.Infof(providers.TypeApp, "Session %s closed", id)
	return nil
}

// CloseIdle closes sessions with no events for ttl, firing their final
// saves. Used by the scheduler to reap clients that vanished.
func (ts *TrackingService) CloseIdle(ttl time.Duration) int {
	ts.mu.Lock()
	var stale []*tracking.SessionTracker
	for id, tracker := range ts.sessions {
		if tracker.IdleFor(ttl) {
			stale = append(stale, tracker)
			delete(ts.sessions, id)
		}
	}
	ts.mu.Unlock()

	for _, tracker := range stale {
		tracker.Close()
	}
	return len(stale)
}

func (ts *TrackingService) CloseAll() int {
	ts.mu.Lock()
	trackers := make([]*tracking.SessionTracker, 0, len(ts.sessions))
	for _, tracker := range ts.sessions {
		trackers = append(trackers, tracker)
	}
	ts.sessions = make(map[string]*tracking.SessionTracker)
	ts.mu.Unlock()

	for _, tracker := range trackers {
		tracker.Close()
	}
	return len(trackers)
}

func (ts *TrackingService) ActiveSessions() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.sessions)
}

func (ts *TrackingService) GetProgress(email string) (*models.UserReadingStats, bool) {
	return ts.store.Load(email)
}

func (ts *TrackingService) IsBookRead(email string, bookID int) bool {
	return ts.store.IsBookRead(email, bookID)
}

func (ts *TrackingService) Leaderboard(ctx context.Context, window stats.Window, viewerEmail string) *stats.Ranking {
	return ts.aggregator.Build(ctx, window, viewerEmail)
}
