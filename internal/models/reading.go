package models

import "time"

// BookReadRecord is one persisted row per (user, book). Title, author and
// cover are a display snapshot taken at first save; PagesRead never regresses
// and TimeSpentSeconds only grows across merges.
type BookReadRecord struct {
	BookID           int       `json:"bookId"`
	BookTitle        string    `json:"bookTitle"`
	BookAuthor       string    `json:"bookAuthor,omitempty"`
	CoverURL         string    `json:"coverUrl,omitempty"`
	ReadAt           time.Time `json:"readAt"`
	PagesRead        int       `json:"pagesRead"`
	TotalPages       int       `json:"totalPages"`
	TimeSpentSeconds int64     `json:"timeSpentSeconds"`
}

// UserReadingStats is the durable per-user record. BooksRead is ordered
// most-recently-started first; entries updated in place keep their position.
type UserReadingStats struct {
	UserEmail        string           `json:"userEmail"`
	UserName         string           `json:"userName"`
	UserGroup        string           `json:"userGroup,omitempty"`
	BooksRead        []BookReadRecord `json:"booksRead"`
	TotalTimeSeconds int64            `json:"totalTimeSeconds"`
	LastActive       time.Time        `json:"lastActive"`
}

func NewUserReadingStats(email, name, group string) *UserReadingStats {
	return &UserReadingStats{
		UserEmail:  email,
		UserName:   name,
		UserGroup:  group,
		BooksRead:  []BookReadRecord{},
		LastActive: time.Now(),
	}
}

// FindBook returns the index of the record for bookID, or -1.
func (u *UserReadingStats) FindBook(bookID int) int {
	for i := range u.BooksRead {
		if u.BooksRead[i].BookID == bookID {
			return i
		}
	}
	return -1
}

func (u *UserReadingStats) HasBook(bookID int) bool {
	return u.FindBook(bookID) != -1
}

// RecomputeTotalTime derives TotalTimeSeconds from the book records.
// The stored total is never trusted on its own.
func (u *UserReadingStats) RecomputeTotalTime() {
	var total int64
	for i := range u.BooksRead {
		total += u.BooksRead[i].TimeSpentSeconds
	}
	u.TotalTimeSeconds = total
}

// TotalPagesRead sums PagesRead across every book record.
func (u *UserReadingStats) TotalPagesRead() int {
	pages := 0
	for i := range u.BooksRead {
		pages += u.BooksRead[i].PagesRead
	}
	return pages
}

// BookReadUpdate carries one session's delta into the merge. Seconds must be
// incremental since the previous save for the same session, not cumulative.
type BookReadUpdate struct {
	UserEmail  string
	UserName   string
	UserGroup  string
	BookID     int
	BookTitle  string
	BookAuthor string
	CoverURL   string
	PagesRead  int
	TotalPages int
	Seconds    int64
}
