package models

import "strings"

// LeaderEntry is a derived ranking row, recomputed on every query and never
// persisted.
type LeaderEntry struct {
	Rank             int    `json:"rank"`
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Group            string `json:"group"`
	PagesRead        int    `json:"pagesRead"`
	BooksRead        int    `json:"booksRead"`
	TotalTimeSeconds int64  `json:"totalTimeSeconds"`
	IsCurrentUser    bool   `json:"isCurrentUser"`
}

// RemoteLeaderRow is the shape served by an external pre-aggregated
// leaderboard endpoint. Either full_name or first_name/last_name may be set.
type RemoteLeaderRow struct {
	FullName         string `json:"full_name"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Group            string `json:"group"`
	PagesRead        int    `json:"pages_read"`
	BooksRead        int    `json:"books_read"`
	TotalTimeSeconds int64  `json:"total_time_seconds"`
}

// DisplayName resolves the best available name for a remote row.
func (r *RemoteLeaderRow) DisplayName() string {
	if r.FullName != "" {
		return r.FullName
	}
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	if name != "" {
		return name
	}
	return r.Email
}
