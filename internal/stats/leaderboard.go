package stats

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/structures"
)

const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// Window selects a single calendar month for the ranking metric. The zero
// value means all time.
type Window struct {
	Year  int
	Month time.Month
}

func (w Window) IsAllTime() bool {
	return w.Year == 0
}

func (w Window) Contains(t time.Time) bool {
	if w.IsAllTime() {
		return true
	}
	return t.Year() == w.Year && t.Month() == w.Month
}

func (w Window) String() string {
	if w.IsAllTime() {
		return "all"
	}
	return time.Date(w.Year, w.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// ParseWindow accepts "all", an empty string, or "YYYY-MM".
func ParseWindow(s string) (Window, error) {
	if s == "" || s == "all" {
		return Window{}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Window{}, err
	}
	return Window{Year: t.Year(), Month: t.Month()}, nil
}

// Ranking is the tagged result of one aggregation pass: the entries plus
// which source produced them.
type Ranking struct {
	Source  string               `json:"source"`
	Entries []models.LeaderEntry `json:"entries"`
}

// Aggregator builds rankings from a remote pre-aggregated source when one is
// configured and reachable, falling back to the local stats records.
type Aggregator struct {
	store     StoreInterface
	client    *http.Client
	remoteURL string
	logger    providers.Logger
}

func NewAggregator(conf *structures.Config, store StoreInterface, logger providers.Logger) *Aggregator {
	timeout := conf.Leaderboard.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Aggregator{
		store:     store,
		client:    &http.Client{Timeout: timeout},
		remoteURL: conf.Leaderboard.RemoteURL,
		logger:    logger,
	}
}

// Build produces a ranked leaderboard. The remote source is authoritative
// when it answers with a non-empty list; it is already aggregated, so the
// month window only applies to the local fallback.
func (a *Aggregator) Build(ctx context.Context, window Window, viewerEmail string) *Ranking {
	if rows := a.fetchRemote(ctx); len(rows) > 0 {
		entries := make([]models.LeaderEntry, 0, len(rows))
		for i := range rows {
			row := &rows[i]
			entries = append(entries, models.LeaderEntry{
				FullName:         row.DisplayName(),
				Email:            row.Email,
				Group:            row.Group,
				PagesRead:        row.PagesRead,
				BooksRead:        row.BooksRead,
				TotalTimeSeconds: row.TotalTimeSeconds,
			})
		}
		return &Ranking{Source: SourceRemote, Entries: rank(entries, viewerEmail)}
	}

	users := a.store.AllUsers()
	entries := make([]models.LeaderEntry, 0, len(users))
	for _, u := range users {
		name := u.UserName
		if name == "" {
			name = u.UserEmail
		}
		entries = append(entries, models.LeaderEntry{
			FullName:         name,
			Email:            u.UserEmail,
			Group:            u.UserGroup,
			PagesRead:        pagesInWindow(u, window),
			BooksRead:        len(u.BooksRead),
			TotalTimeSeconds: u.TotalTimeSeconds,
		})
	}
	return &Ranking{Source: SourceLocal, Entries: rank(entries, viewerEmail)}
}

func pagesInWindow(u *models.UserReadingStats, window Window) int {
	if window.IsAllTime() {
		return u.TotalPagesRead()
	}
	pages := 0
	for i := range u.BooksRead {
		if window.Contains(u.BooksRead[i].ReadAt) {
			pages += u.BooksRead[i].PagesRead
		}
	}
	return pages
}

// rank sorts descending by pages read and assigns 1-based ranks. The sort is
// stable, so ties keep their input order; no extra tiebreak is applied. At
// most one entry is flagged as the viewing user.
func rank(entries []models.LeaderEntry, viewerEmail string) []models.LeaderEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PagesRead > entries[j].PagesRead
	})
	marked := false
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].IsCurrentUser = false
		if !marked && viewerEmail != "" && entries[i].Email == viewerEmail {
			entries[i].IsCurrentUser = true
			marked = true
		}
	}
	return entries
}

// Filter applies a free-text filter over name and group after ranking; the
// surviving entries keep their original rank numbers.
func Filter(entries []models.LeaderEntry, query string) []models.LeaderEntry {
	if query == "" {
		return entries
	}
	q := strings.ToLower(query)
	out := make([]models.LeaderEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.FullName), q) || strings.Contains(strings.ToLower(e.Group), q) {
			out = append(out, e)
		}
	}
	return out
}

// ViewerEntry surfaces the viewing user's row regardless of any text filter.
func ViewerEntry(entries []models.LeaderEntry) (models.LeaderEntry, bool) {
	for _, e := range entries {
		if e.IsCurrentUser {
			return e, true
		}
	}
	return models.LeaderEntry{}, false
}

func (a *Aggregator) fetchRemote(ctx context.Context) []models.RemoteLeaderRow {
	if a.remoteURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.remoteURL, nil)
	if err != nil {
		a.logger.Warnf(providers.TypeApp, "Bad leaderboard URL %q: %s", a.remoteURL, err)
		return nil
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Debugf(providers.TypeApp, "Remote leaderboard unavailable, using local data: %s", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Debugf(providers.TypeApp, "Remote leaderboard returned %d, using local data", resp.StatusCode)
		return nil
	}

	var rows []models.RemoteLeaderRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		a.logger.Debugf(providers.TypeApp, "Remote leaderboard shape mismatch, using local data: %s", err)
		return nil
	}
	return rows
}
