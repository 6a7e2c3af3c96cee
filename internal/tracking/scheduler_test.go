package tracking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rpd/internal/stats"
	"rpd/internal/storage"
	"rpd/internal/structures"
	"rpd/internal/testutil"
)

type mockSweeper struct {
	mu        sync.Mutex
	idleCalls int
	idleTTL   time.Duration
	allCalls  int
	active    int
}

func (m *mockSweeper) CloseIdle(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleCalls++
	m.idleTTL = ttl
	return 0
}

func (m *mockSweeper) CloseAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allCalls++
	return 3
}

func (m *mockSweeper) ActiveSessions() int { return m.active }

func (m *mockSweeper) snapshot() (int, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idleCalls, m.idleTTL
}

func schedulerConfig() *structures.Config {
	return &structures.Config{
		Tracker: structures.TrackerConfig{
			SweepInterval: 30 * time.Second,
			SessionTTL:    2 * time.Minute,
		},
	}
}

func newTestScheduler(conf *structures.Config, sweeper SessionSweeper) *Scheduler {
	store := stats.NewStatsStore(storage.NewMemoryKV(), &testutil.MockLogger{})
	s := NewScheduler(conf, &testutil.MockLogger{}, sweeper, store, &testutil.MockMetrics{})
	return s.(*Scheduler)
}

func TestScheduler_FlushClosesAllSessions(t *testing.T) {
	sweeper := &mockSweeper{}
	s := newTestScheduler(schedulerConfig(), sweeper)

	assert.NoError(t, s.Flush())
	assert.Equal(t, 1, sweeper.allCalls)
}

func TestScheduler_StopNilCron(t *testing.T) {
	s := newTestScheduler(schedulerConfig(), &mockSweeper{})
	// Should not panic before Init.
	s.Stop()
}

func TestScheduler_InitAndStop(t *testing.T) {
	s := newTestScheduler(schedulerConfig(), &mockSweeper{})

	s.Init()
	// Give the cron a moment to start
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}

func TestScheduler_SweepReapsIdleSessions(t *testing.T) {
	conf := schedulerConfig()
	conf.Tracker.SweepInterval = time.Second
	sweeper := &mockSweeper{}
	s := newTestScheduler(conf, sweeper)

	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		calls, _ := sweeper.snapshot()
		return calls >= 1
	}, 3*time.Second, 50*time.Millisecond)
	_, ttl := sweeper.snapshot()
	assert.Equal(t, 2*time.Minute, ttl)
}
