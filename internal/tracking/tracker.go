package tracking

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/stats"
	"rpd/internal/structures"
)

// Session is the book/page/user context a reader client opens a session with.
type Session struct {
	BookID      int    `json:"bookId"`
	BookTitle   string `json:"bookTitle"`
	BookAuthor  string `json:"bookAuthor"`
	CoverURL    string `json:"coverUrl"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	UserEmail   string `json:"userEmail"`
	UserName    string `json:"userName"`
	UserGroup   string `json:"userGroup"`
	Enabled     bool   `json:"enabled"`
}

// SessionTracker drives one reading session: the 1-second tick, the page-read
// criterion, the interaction throttle and the debounced merge-saves. It owns
// its timers; Close cancels them and fires exactly one final save.
//
// Without an identified user the tracker is inert: counters stay at zero and
// nothing is ever persisted.
type SessionTracker struct {
	mu      sync.Mutex
	conf    *structures.Config
	store   stats.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	session     Session
	enabled     bool
	currentPage int

	pageSeconds    int
	sessionSeconds int
	unsavedSeconds int64
	interactions   int
	readPages      map[int]struct{}

	currentPageRead bool
	justMarked      bool
	pulseUntil      time.Time
	bookMarked      bool

	lastInteraction time.Time
	lastActivity    time.Time

	closed atomic.Bool
	stop   chan struct{}
	now    func() time.Time
}

func NewSessionTracker(conf *structures.Config, store stats.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, session Session) *SessionTracker {
	t := &SessionTracker{
		conf:        conf,
		store:       store,
		logger:      logger,
		metrics:     metrics,
		session:     session,
		currentPage: session.CurrentPage,
		readPages:   make(map[int]struct{}),
		stop:        make(chan struct{}),
		now:         time.Now,
	}
	t.enabled = session.Enabled && session.UserEmail != ""
	if t.enabled {
		t.bookMarked = store.IsBookRead(session.UserEmail, session.BookID)
		t.lastActivity = t.now()
	}
	return t
}

// Start launches the tick and auto-save loops. Inert trackers never spawn a
// goroutine.
func (t *SessionTracker) Start() {
	if !t.enabled {
		return
	}
	go t.run()
}

func (t *SessionTracker) run() {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	save := time.NewTicker(t.conf.Tracker.SaveInterval)
	defer save.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-tick.C:
			t.Tick()
		case <-save.C:
			t.Flush()
		}
	}
}

// Tick advances the session by one second and evaluates the read criterion:
// a page is read once it has accumulated enough dwell time and enough
// distinct interactions, and it is promoted at most once per session.
func (t *SessionTracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || t.closed.Load() {
		return
	}

	t.pageSeconds++
	t.sessionSeconds++
	t.unsavedSeconds++

	now := t.now()
	timeMet := t.pageSeconds >= t.conf.Tracker.PageReadSeconds
	interactionMet := t.interactions >= t.conf.Tracker.PageReadInteractions
	_, alreadyRead := t.readPages[t.currentPage]

	if timeMet && interactionMet && !alreadyRead {
		t.readPages[t.currentPage] = struct{}{}
		t.currentPageRead = true
		t.justMarked = true
		t.pulseUntil = now.Add(t.conf.Tracker.PulseDuration)
		t.metrics.AddPagesRead(1)
		t.logger.Debugf(providers.TypeApp, "Page %d of book %d marked as read for %s", t.currentPage, t.session.BookID, t.session.UserEmail)
	} else if t.justMarked && !now.Before(t.pulseUntil) {
		t.justMarked = false
	}
}

// Interaction records one user activity event. Events inside the throttle
// window collapse into a single increment, so a continuous gesture cannot
// satisfy the interaction threshold by itself.
func (t *SessionTracker) Interaction() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || t.closed.Load() {
		return
	}

	now := t.now()
	t.lastActivity = now
	if !t.lastInteraction.IsZero() && now.Sub(t.lastInteraction) < t.conf.Tracker.InteractionThrottle {
		return
	}
	t.lastInteraction = now
	t.interactions++
}

// SetPage switches the current page. Per-page counters reset; the session
// total and the cross-page read-set are untouched.
func (t *SessionTracker) SetPage(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || t.closed.Load() {
		return
	}

	t.lastActivity = t.now()
	if page == t.currentPage {
		return
	}
	t.currentPage = page
	t.pageSeconds = 0
	t.interactions = 0
	t.lastInteraction = time.Time{}
	t.currentPageRead = false
	t.justMarked = false
}

// State returns a snapshot of the session counters.
func (t *SessionTracker) State() models.ReadingTrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.ReadingTrackerState{
		PagesRead:            len(t.readPages),
		TimeOnCurrentPageSec: t.pageSeconds,
		TotalTimeSec:         t.sessionSeconds,
		CurrentPageRead:      t.currentPageRead,
		BookMarkedAsRead:     t.bookMarked,
		JustMarkedPage:       t.justMarked,
	}
}

// Flush merges the accumulated delta into the stats store. Sessions that
// read nothing and stayed under the page-read threshold are considered noise
// and skipped.
func (t *SessionTracker) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() {
		return
	}
	t.flushLocked()
}

func (t *SessionTracker) flushLocked() {
	if !t.enabled || t.session.UserName == "" {
		return
	}
	if len(t.readPages) == 0 && t.sessionSeconds < t.conf.Tracker.PageReadSeconds {
		return
	}

	start := time.Now()
	t.store.RecordBookRead(models.BookReadUpdate{
		UserEmail:  t.session.UserEmail,
		UserName:   t.session.UserName,
		UserGroup:  t.session.UserGroup,
		BookID:     t.session.BookID,
		BookTitle:  t.session.BookTitle,
		BookAuthor: t.session.BookAuthor,
		CoverURL:   t.session.CoverURL,
		PagesRead:  len(t.readPages),
		TotalPages: t.session.TotalPages,
		Seconds:    t.unsavedSeconds,
	})
	t.metrics.ObserveSaveDuration(time.Since(start))

	// Only the delta since the previous save goes into each merge.
	t.unsavedSeconds = 0
	t.bookMarked = true
}

// Close stops the timers and fires the final save. It is idempotent; nothing
// saves or ticks after it returns.
func (t *SessionTracker) Close() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	close(t.stop)

	t.mu.Lock()
	t.flushLocked()
	t.mu.Unlock()
}

// IdleFor reports whether the session has seen no page or interaction events
// for at least ttl.
func (t *SessionTracker) IdleFor(ttl time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return true
	}
	return t.now().Sub(t.lastActivity) >= ttl
}

// User returns the identity the session was opened with.
func (t *SessionTracker) User() (email, name string) {
	return t.session.UserEmail, t.session.UserName
}
