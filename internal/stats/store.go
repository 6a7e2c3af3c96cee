package stats

import (
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/storage"
)

// StatsKeyPrefix namespaces per-user records inside the key-value backend.
const StatsKeyPrefix = "readingStats_"

type StoreInterface interface {
	Load(email string) (*models.UserReadingStats, bool)
	Save(stats *models.UserReadingStats)
	RecordBookRead(update models.BookReadUpdate) *models.UserReadingStats
	IsBookRead(email string, bookID int) bool
	AllUsers() []*models.UserReadingStats
	UserCount() int
}

// Store owns the load-merge-save path for user reading records. The mutex
// makes it the single writer per key inside this process; saves for one user
// are therefore applied in the order they are issued.
type Store struct {
	mu     sync.Mutex
	kv     storage.KeyValue
	logger providers.Logger
	now    func() time.Time
}

func NewStatsStore(kv storage.KeyValue, logger providers.Logger) StoreInterface {
	return &Store{kv: kv, logger: logger, now: time.Now}
}

func statsKey(email string) string {
	return StatsKeyPrefix + email
}

// Load returns the durable record for a user, or absent. A record that fails
// to parse degrades to absent; the next save re-establishes a valid one.
func (s *Store) Load(email string) (*models.UserReadingStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(email)
}

func (s *Store) load(email string) (*models.UserReadingStats, bool) {
	raw, ok := s.kv.Get(statsKey(email))
	if !ok {
		return nil, false
	}
	var stats models.UserReadingStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warnf(providers.TypeApp, "Corrupt stats record for %s, treating as absent: %s", email, err)
		return nil, false
	}
	return &stats, true
}

// Save overwrites the user's record with the full serialized state. Write
// failures are logged and swallowed; the in-memory session carries on and the
// next save attempt may succeed.
func (s *Store) Save(stats *models.UserReadingStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(stats)
}

func (s *Store) save(stats *models.UserReadingStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Cannot serialize stats for %s: %s", stats.UserEmail, err)
		return
	}
	if err := s.kv.Set(statsKey(stats.UserEmail), raw); err != nil {
		s.logger.Warnf(providers.TypeApp, "Cannot persist stats for %s: %s", stats.UserEmail, err)
	}
}

// RecordBookRead merges one session delta into the user's durable record.
// Page counts only ever go up (max), time is strictly additive, and the
// derived total is recomputed from the records on every merge. Repeating a
// save with a zero time delta is a no-op for both counters.
func (s *Store) RecordBookRead(update models.BookReadUpdate) *models.UserReadingStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.load(update.UserEmail)
	if !ok {
		stats = models.NewUserReadingStats(update.UserEmail, update.UserName, update.UserGroup)
	}

	now := s.now()
	record := models.BookReadRecord{
		BookID:           update.BookID,
		BookTitle:        update.BookTitle,
		BookAuthor:       update.BookAuthor,
		CoverURL:         update.CoverURL,
		ReadAt:           now,
		PagesRead:        update.PagesRead,
		TotalPages:       update.TotalPages,
		TimeSpentSeconds: update.Seconds,
	}

	if idx := stats.FindBook(update.BookID); idx != -1 {
		prev := stats.BooksRead[idx]
		record.PagesRead = max(prev.PagesRead, update.PagesRead)
		record.TimeSpentSeconds = prev.TimeSpentSeconds + update.Seconds
		stats.BooksRead[idx] = record
	} else {
		stats.BooksRead = append([]models.BookReadRecord{record}, stats.BooksRead...)
	}

	stats.RecomputeTotalTime()
	if update.UserName != "" {
		stats.UserName = update.UserName
	}
	if update.UserGroup != "" {
		stats.UserGroup = update.UserGroup
	}
	stats.LastActive = now

	s.save(stats)
	return stats
}

// IsBookRead reports whether a record for the book exists, without side
// effects.
func (s *Store) IsBookRead(email string, bookID int) bool {
	stats, ok := s.Load(email)
	if !ok {
		return false
	}
	return stats.HasBook(bookID)
}

// AllUsers loads every known user record, skipping corrupt ones, ordered by
// book count descending.
func (s *Store) AllUsers() []*models.UserReadingStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.kv.Keys(StatsKeyPrefix)
	users := make([]*models.UserReadingStats, 0, len(keys))
	for _, key := range keys {
		email := key[len(StatsKeyPrefix):]
		if stats, ok := s.load(email); ok {
			users = append(users, stats)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		return len(users[i].BooksRead) > len(users[j].BooksRead)
	})
	return users
}

func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.kv.Keys(StatsKeyPrefix))
}
