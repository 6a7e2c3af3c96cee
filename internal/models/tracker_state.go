package models

// ReadingTrackerState is an ephemeral snapshot of one active session. It is
// rebuilt from the tracker's counters on every query and never persisted.
type ReadingTrackerState struct {
	PagesRead            int  `json:"pagesRead"`
	TimeOnCurrentPageSec int  `json:"timeOnCurrentPageSec"`
	TotalTimeSec         int  `json:"totalTimeSec"`
	CurrentPageRead      bool `json:"currentPageRead"`
	BookMarkedAsRead     bool `json:"bookMarkedAsRead"`
	JustMarkedPage       bool `json:"justMarkedPage"`
}
